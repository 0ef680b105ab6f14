// Package catalog provides the card model, the price-resolution policy, and
// an HTTP lookup client for the catalog backend.
package catalog

// FallbackCardImage is shown whenever a card carries no usable image URL.
const FallbackCardImage = "https://images.pokemontcg.io/base1/4.png"

// CardImages holds the alternate image URLs some catalog sources provide.
type CardImages struct {
	Small string `json:"small,omitempty"`
	Large string `json:"large,omitempty"`
}

// Card is a catalog entry. Upstream card data is aggregated from several
// sources, so most fields are optional and come in more than one spelling.
type Card struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Image    string      `json:"image,omitempty"`
	Images   *CardImages `json:"images,omitempty"`
	ImageURL string      `json:"imageUrl,omitempty"`

	Price           float64 `json:"price,omitempty"`
	MarketPrice     float64 `json:"marketPrice,omitempty"`
	MarketPriceAlt  float64 `json:"market_price,omitempty"`
	TCGPlayerPrice  float64 `json:"tcgplayerPrice,omitempty"`
	TCGPlayerPrice2 float64 `json:"tcgplayer_price,omitempty"`

	Set      string `json:"set,omitempty"`
	SetName  string `json:"set_name,omitempty"`
	SetID    string `json:"setId,omitempty"`
	SetIDAlt string `json:"set_id,omitempty"`
	Rarity   string `json:"rarity,omitempty"`
	Artist   string `json:"artist,omitempty"`
}

// ImageFor returns the best available image URL for the card, falling back
// to FallbackCardImage when none is set.
func ImageFor(card Card) string {
	switch {
	case card.Image != "":
		return card.Image
	case card.Images != nil && card.Images.Large != "":
		return card.Images.Large
	case card.Images != nil && card.Images.Small != "":
		return card.Images.Small
	case card.ImageURL != "":
		return card.ImageURL
	default:
		return FallbackCardImage
	}
}

// SetNameFor returns the first available set designation for the card.
func SetNameFor(card Card) string {
	for _, s := range []string{card.Set, card.SetName, card.SetID, card.SetIDAlt} {
		if s != "" {
			return s
		}
	}
	return "Unknown set"
}
