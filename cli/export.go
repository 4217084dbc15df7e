package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/canoasgas/pedidos-api/config"
	"github.com/canoasgas/pedidos-api/services"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		filter string
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the order history as a spreadsheet-ready CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.connect(); err != nil {
				return err
			}
			defer config.CloseDatabase()

			catalog, err := opts.catalog()
			if err != nil {
				return err
			}
			orders := services.NewOrderService(config.GetDB(), catalog, nil)

			content, rows, err := services.NewReportService(orders, nil).ExportCSV(context.Background(), filter, limit)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			if err := os.WriteFile(output, content, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", titleStyle.Render(fmt.Sprintf("%d orders", rows)), dimStyle.Render("written to "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "query", "q", "", "Only orders whose client name or address contains this text")
	cmd.Flags().IntVar(&limit, "limit", services.MaxListLimit, "Maximum number of orders")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
