package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pikacards/storefront/checkout"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Create a payment session for the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		_, err = a.checkout.Checkout(cmd.Context())
		var redirect *checkout.RedirectError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &redirect):
			fmt.Println(redirect.Reason)
			if redirect.Delay > 0 {
				time.Sleep(redirect.Delay)
			}
			switch redirect.Target {
			case checkout.TargetLogin:
				fmt.Println("Run: storefront login")
			case checkout.TargetProfile:
				fmt.Println("Run: storefront profile set --province <province> --address <address>")
			}
			return nil
		default:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
}
