package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pikacards/storefront/catalog"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the local shopping cart",
}

var cartAddCmd = &cobra.Command{
	Use:   "add <card-id>",
	Short: "Add one unit of a card to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		card, err := a.catalog.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		item := a.cart.Add(card)
		fmt.Printf("Added %s ×%d (%s each)\n", item.Name, item.Qty, catalog.FormatCurrency(item.Price))
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <card-id>",
	Short: "Remove a card from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.cart.Remove(args[0])
		fmt.Println("Removed.")
		return nil
	},
}

var cartSetQtyCmd = &cobra.Command{
	Use:   "set-qty <card-id> <qty>",
	Short: "Set the quantity of a cart line (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be an integer: %w", err)
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.cart.SetQuantity(args[0], qty)
		fmt.Println("Updated.")
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.cart.Clear()
		fmt.Println("Cart cleared.")
		return nil
	},
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart contents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		items := a.cart.Items()
		if len(items) == 0 {
			fmt.Println("Your cart is empty.")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%-14s %-28s ×%-3d %10s   %s\n",
				item.ID, item.Name, item.Qty,
				catalog.FormatCurrency(item.Price),
				catalog.FormatCurrency(item.Subtotal()))
		}
		fmt.Printf("\n%d item(s), total %s\n", a.cart.Count(), catalog.FormatCurrency(a.cart.Total()))
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd, cartSetQtyCmd, cartClearCmd, cartShowCmd)
	rootCmd.AddCommand(cartCmd)
}
