// Package cli implements pedidosctl, the operator tool for the order desk:
// previewing messages, exporting the sales report, migrating the schema and
// inspecting the catalog without going through the HTTP API.
package cli

import (
	"fmt"
	"os"

	"github.com/canoasgas/pedidos-api/config"
	"github.com/canoasgas/pedidos-api/services"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	databaseURL string
	driver      string
	catalogFile string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "pedidosctl",
		Short:         "Order desk operator tool",
		Long:          "pedidosctl renders order messages, exports the sales report and manages the order database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "db", os.Getenv("DATABASE_URL"), "Database URL (defaults to $DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", envOr("DB_DRIVER", config.DriverPostgres), "Database driver: postgres or sqlite")
	cmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", os.Getenv("CATALOG_FILE"), "Catalog YAML file (defaults to $CATALOG_FILE)")

	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newCatalogCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
	}
	return err
}

// connect opens the database named by the global flags. The caller closes it
// with config.CloseDatabase.
func (o *globalOptions) connect() error {
	cfg := &config.Config{DatabaseURL: o.databaseURL, DBDriver: o.driver}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return config.ConnectDatabase(cfg)
}

func (o *globalOptions) catalog() (services.Catalog, error) {
	return services.LoadCatalog(o.catalogFile)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
