package main

import (
	"os"

	"github.com/canoasgas/pedidos-api/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
