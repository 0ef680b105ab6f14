package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pikacards/storefront/catalog"
)

var cardCmd = &cobra.Command{
	Use:   "card <card-id>",
	Short: "Look up a card in the catalog",
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
		fmt.Printf("%s (%s)\n", card.Name, card.ID)
		fmt.Printf("Set:    %s\n", catalog.SetNameFor(card))
		if card.Rarity != "" {
			fmt.Printf("Rarity: %s\n", card.Rarity)
		}
		if card.Artist != "" {
			fmt.Printf("Artist: %s\n", card.Artist)
		}
		fmt.Printf("Price:  %s\n", catalog.FormatCurrency(catalog.PriceFor(card)))
		fmt.Printf("Image:  %s\n", catalog.ImageFor(card))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cardCmd)
}
