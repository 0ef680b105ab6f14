package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPriceForExplicit(t *testing.T) {
	card := Card{ID: "base1-4", Price: 12.5}
	require.True(t, PriceFor(card).Equal(decimal.NewFromFloat(12.5)))

	// First positive candidate wins.
	card = Card{ID: "base1-4", MarketPrice: 3.339}
	require.Equal(t, "3.34", PriceFor(card).StringFixed(2))
}

func TestPriceForDerivedIsDeterministic(t *testing.T) {
	card := Card{ID: "base1-4", Name: "Charizard"}
	first := PriceFor(card)
	for i := 0; i < 10; i++ {
		require.True(t, PriceFor(card).Equal(first))
	}
}

func TestPriceForDerivedBand(t *testing.T) {
	for _, id := range []string{"base1-4", "xy7-54", "swsh4-20", "", "z"} {
		p := PriceFor(Card{ID: id, Name: "Pikachu"})
		require.True(t, p.GreaterThanOrEqual(decimal.NewFromInt(5)), "price %s below band for %q", p, id)
		require.True(t, p.LessThan(decimal.NewFromInt(25)), "price %s above band for %q", p, id)
	}
}

func TestPriceForEmptyCard(t *testing.T) {
	// No id, no name: falls back to the fixed seed, still deterministic.
	require.True(t, PriceFor(Card{}).Equal(PriceFor(Card{})))
	require.True(t, PriceFor(Card{}).Sign() > 0)
}

func TestFormatCurrency(t *testing.T) {
	require.Equal(t, "S/ 12.50", FormatCurrency(decimal.NewFromFloat(12.5)))
	require.Equal(t, "S/ 0.00", FormatCurrency(decimal.Zero))
	require.Equal(t, "S/ 0.00", FormatCurrency(decimal.NewFromInt(-3)))
}

func TestImageFor(t *testing.T) {
	require.Equal(t, "a", ImageFor(Card{Image: "a", ImageURL: "d"}))
	require.Equal(t, "b", ImageFor(Card{Images: &CardImages{Large: "b", Small: "c"}}))
	require.Equal(t, "c", ImageFor(Card{Images: &CardImages{Small: "c"}}))
	require.Equal(t, "d", ImageFor(Card{ImageURL: "d"}))
	require.Equal(t, FallbackCardImage, ImageFor(Card{}))
}
