package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JuanAndresGH-hub/marketplace/internal/models"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the server cart with computed totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.cart.LoadCatalog(ctx); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), a.view.CartSummary())
			return nil
		})
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add PRODUCT_ID",
	Short: "Add one unit of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.cart.LoadCatalog(ctx); err != nil {
				return err
			}
			if _, err := a.cart.AddToCart(ctx, models.ID(args[0])); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), a.view.CartSummary())
			return nil
		})
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:     "rm LINE_ID",
	Aliases: []string{"remove"},
	Short:   "Remove a cart line",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.cart.LoadCatalog(ctx); err != nil {
				return err
			}
			if _, err := a.cart.RemoveFromCart(ctx, models.ID(args[0])); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), a.view.CartSummary())
			return nil
		})
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Show the order total (nothing is charged)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if err := a.cart.LoadCatalog(ctx); err != nil {
				return err
			}
			sum := a.cart.Checkout(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "total to pay: %.0f\n", sum.Total)
			return nil
		})
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd)
}

func printCart(w io.Writer, sum models.CartSummary) {
	if len(sum.Items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tPRODUCT\tNAME\tQTY\tPRICE\tTOTAL")
	for _, it := range sum.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.0f\t%.0f\n", it.ID, it.ProductID, it.Name, it.Quantity, it.Price, it.LineTotal)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "subtotal: %.0f\nshipping: %.0f\ntotal: %.0f\n", sum.Subtotal, sum.ShippingFee, sum.Total)
}
