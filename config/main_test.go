package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain refuses to run the config tests outside GO_ENV=test. Load reads
// .env files from the working directory and ConnectDatabase tests must never
// pick up a store's real DATABASE_URL.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "config tests: GO_ENV must be \"test\", got %q\n", env)
		fmt.Fprintln(os.Stderr, "run them with: GO_ENV=test go test ./config/...")
		os.Exit(1)
	}

	os.Exit(m.Run())
}
