package cli

import (
	"fmt"

	"github.com/canoasgas/pedidos-api/config"
	"github.com/canoasgas/pedidos-api/models"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the order desk tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.connect(); err != nil {
				return err
			}
			defer config.CloseDatabase()

			db := config.GetDB()
			if err := db.AutoMigrate(models.All()...); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			tables, err := db.Migrator().GetTables()
			if err != nil {
				return fmt.Errorf("listing tables: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Migration completed"))
			for _, table := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+dimStyle.Render("●")+" "+table)
			}
			return nil
		},
	}
}
