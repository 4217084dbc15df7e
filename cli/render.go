package cli

import (
	"fmt"

	"github.com/canoasgas/pedidos-api/services"
	"github.com/spf13/cobra"
)

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var (
		input services.OrderInput
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the delivery ticket and the client message for an order",
		Long:  "Validate an order against the catalog and print both generated texts. Nothing is stored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := opts.catalog()
			if err != nil {
				return err
			}

			messages, err := services.NewOrderService(nil, catalog, nil).PreviewMessages(input)
			if err != nil {
				return fmt.Errorf("invalid order: %w", err)
			}

			out := cmd.OutOrStdout()
			if plain {
				fmt.Fprintf(out, "%s\n\n%s\n", messages.Delivery, messages.Client)
				return nil
			}
			fmt.Fprintln(out, messageBox("Entrega", messages.Delivery))
			fmt.Fprintln(out, messageBox("Cliente", messages.Client))
			return nil
		},
	}

	cmd.Flags().StringVar(&input.ClientName, "name", "", "Client name")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "Client phone")
	cmd.Flags().StringVar(&input.Address, "address", "", "Delivery address")
	cmd.Flags().StringVar(&input.Channel, "channel", "", "Sales channel")
	cmd.Flags().StringVar(&input.Product, "product", "", "Product")
	cmd.Flags().StringVar(&input.Info, "info", "", "Courier-only notes")
	cmd.Flags().StringVar(&input.DeliveryPerson, "delivery", "", "Delivery person")
	cmd.Flags().StringVar(&input.PaymentMethod, "payment", "", "Payment method")
	cmd.Flags().StringVar(&input.ValueFormatted, "value", "", `Order value as typed on the form, e.g. "1.234,56"`)
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the raw texts without decoration")

	return cmd
}
