package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/enums"
	"github.com/parkmarket/marketplace-backend/pkg/types"
)

// CreateOrderRequest carries the contact and delivery snapshot taken at checkout.
type CreateOrderRequest struct {
	CustomerName     string `json:"customer_name" validate:"required,max=255"`
	CustomerEmail    string `json:"customer_email" validate:"required,email,max=255"`
	CustomerDocument string `json:"customer_document" validate:"required,max=50"`
	CustomerPhone    string `json:"customer_phone" validate:"required,max=50"`
	AddressStreet    string `json:"address_street" validate:"required,max=255"`
	AddressNumber    string `json:"address_number" validate:"required,max=50"`
	AddressCity      string `json:"address_city" validate:"required,max=100"`
	AddressState     string `json:"address_state" validate:"required,max=100"`
	AddressZip       string `json:"address_zip" validate:"required,max=20"`
}

// UpdateStatusRequest is the seller payload for moving an order along.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ItemView is an order line. Price is frozen in minor units.
type ItemView struct {
	ProductID   uint             `json:"product_id"`
	ProductName string           `json:"product_name"`
	Amount      int              `json:"amount"`
	Price       int64            `json:"price"`
	Attributes  types.Attributes `json:"attributes"`
}

// Detail is the full order view used by checkout, tracking and payment.
type Detail struct {
	ID               uint              `json:"id"`
	Code             string            `json:"code"`
	Status           enums.OrderStatus `json:"status"`
	StoreID          uint              `json:"store_id"`
	CustomerName     string            `json:"customer_name"`
	CustomerEmail    string            `json:"customer_email"`
	CustomerDocument string            `json:"customer_document"`
	CustomerPhone    string            `json:"customer_phone"`
	AddressStreet    string            `json:"address_street"`
	AddressNumber    string            `json:"address_number"`
	AddressCity      string            `json:"address_city"`
	AddressState     string            `json:"address_state"`
	AddressZip       string            `json:"address_zip"`
	Items            []ItemView        `json:"items"`
	TotalPrice       int64             `json:"total_price"`
	CreatedAt        time.Time         `json:"created_at"`
}

// SellerOrderSummary is a row of the seller order list.
type SellerOrderSummary struct {
	ID            uint              `json:"id"`
	Code          string            `json:"code"`
	CustomerEmail string            `json:"customer_email"`
	Status        enums.OrderStatus `json:"status"`
	Products      string            `json:"products"`
	Total         int64             `json:"total"`
	CreatedAt     time.Time         `json:"created_at"`
}

// SellerOrderList wraps the seller order rows.
type SellerOrderList struct {
	Orders     []SellerOrderSummary `json:"orders"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// DashboardStats summarizes paid orders of a store. Totals are in minor units.
type DashboardStats struct {
	TotalToday      int64 `json:"total_today"`
	TotalMonth      int64 `json:"total_month"`
	UniqueCustomers int64 `json:"unique_customers"`
}

// DetailFromModel maps an order with preloaded items and products.
func DetailFromModel(o *models.Order) *Detail {
	if o == nil {
		return nil
	}
	items := make([]ItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemView{
			ProductID:   item.ProductID,
			ProductName: productName(item.Product, item.ProductID),
			Amount:      item.Amount,
			Price:       item.Price,
			Attributes:  item.Attributes.Clone(),
		})
	}
	return &Detail{
		ID:               o.ID,
		Code:             o.Code,
		Status:           o.Status,
		StoreID:          o.StoreID,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		CustomerDocument: o.CustomerDocument,
		CustomerPhone:    o.CustomerPhone,
		AddressStreet:    o.AddressStreet,
		AddressNumber:    o.AddressNumber,
		AddressCity:      o.AddressCity,
		AddressState:     o.AddressState,
		AddressZip:       o.AddressZip,
		Items:            items,
		TotalPrice:       o.TotalPrice(),
		CreatedAt:        o.CreatedAt,
	}
}

// SummaryFromModel maps an order to a seller list row, e.g. products "1x A, 2x B".
func SummaryFromModel(o *models.Order) SellerOrderSummary {
	parts := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Amount, productName(item.Product, item.ProductID)))
	}
	return SellerOrderSummary{
		ID:            o.ID,
		Code:          o.Code,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status,
		Products:      strings.Join(parts, ", "),
		Total:         o.TotalPrice(),
		CreatedAt:     o.CreatedAt,
	}
}

func productName(p *models.Product, id uint) string {
	if p == nil {
		return fmt.Sprintf("#%d", id)
	}
	return p.Name
}
