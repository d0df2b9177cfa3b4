package maria

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

type ParkImages struct {
	Cover     string `json:"cover"`
	Thumbnail string `json:"thumbnail"`
}

// Park is a theme park listed by the catalog.
type Park struct {
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Images       ParkImages `json:"images"`
	Location     Location   `json:"location"`
	Attraction   string     `json:"attraction"`
	Status       string     `json:"status"`
	Translations []string   `json:"translations"`
}

type ProductExtensions struct {
	NumberDays   int    `json:"number_days"`
	NumberParks  int    `json:"number_parks"`
	ProductKind  string `json:"product_kind"`
	AboutTicket  string `json:"about_ticket"`
	TicketType   string `json:"ticket_type"`
	TicketBanner string `json:"ticket_banner"`
	Observations string `json:"observations"`
	Notes        string `json:"notes"`
}

// Price is a single currency amount; Amount accepts JSON numbers or strings.
type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Symbol   string          `json:"symbol"`
}

// MarshalJSON writes Amount as a JSON number, matching the catalog's wire format.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
		Symbol   string      `json:"symbol"`
	}{
		Amount:   json.Number(p.Amount.String()),
		Currency: p.Currency,
		Symbol:   p.Symbol,
	})
}

// PricePair carries the original USD price and its BRL equivalent.
type PricePair struct {
	Original Price `json:"original"`
	USDBRL   Price `json:"usdbrl"`
}

// ParkProduct is a ticket sold for a park.
type ParkProduct struct {
	Code             string            `json:"code"`
	TicketName       string            `json:"ticket_name"`
	ParkIncluded     string            `json:"park_included"`
	ParkLocation     Location          `json:"park_location"`
	IsMultiDays      bool              `json:"is_multi_days"`
	IsParkToPark     bool              `json:"is_park_to_park"`
	IsDated          bool              `json:"is_dated"`
	IsTimed          bool              `json:"is_timed"`
	AvailableOptions []string          `json:"available_options"`
	Extensions       ProductExtensions `json:"extensions"`
	StartingPrice    PricePair         `json:"starting_price"`
	IsSpecial        bool              `json:"is_special"`
	Status           string            `json:"status"`
	Translations     []string          `json:"translations"`
}

// ParkProductDetail is the single-product view; it extends the listing shape.
type ParkProductDetail struct {
	ParkProduct
	Description string `json:"description,omitempty"`
}

// ProductQuery filters a park's product listing. Zero values are not sent.
type ProductQuery struct {
	ForDate     string
	NumberDays  int
	NumAdults   int
	NumChildren int
	IsSpecial   *bool
}
