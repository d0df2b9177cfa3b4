package cart

import (
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/types"
)

// AddItemRequest adds a product line to the customer's active cart.
type AddItemRequest struct {
	ProductID  uint             `json:"product_id" validate:"required"`
	Amount     int              `json:"amount"`
	Attributes types.Attributes `json:"attributes,omitempty"`
}

// UpdateAmountRequest changes the amount of an existing line.
type UpdateAmountRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Amount    int  `json:"amount"`
}

// ItemView is a cart line as returned to the storefront. Price is the snapshot
// taken when the line was added, in minor units.
type ItemView struct {
	ProductID   uint             `json:"product_id"`
	ProductName string           `json:"product_name"`
	Amount      int              `json:"amount"`
	Price       int64            `json:"price"`
	Attributes  types.Attributes `json:"attributes"`
}

// View is the current cart of a customer in a store.
type View struct {
	CartEmpty bool       `json:"cart_empty"`
	Items     []ItemView `json:"items"`
}

// EmptyView is returned when no active cart exists.
func EmptyView() *View {
	return &View{CartEmpty: true, Items: []ItemView{}}
}

// BuildView maps loaded cart lines (with products preloaded) to a View.
func BuildView(items []models.CartItem) *View {
	if len(items) == 0 {
		return EmptyView()
	}
	view := &View{Items: make([]ItemView, 0, len(items))}
	for _, item := range items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		view.Items = append(view.Items, ItemView{
			ProductID:   item.ProductID,
			ProductName: name,
			Amount:      item.Amount,
			Price:       item.Price,
			Attributes:  item.Attributes.Clone(),
		})
	}
	return view
}

func normalizeAmount(amount int) int {
	if amount < 1 {
		return 1
	}
	return amount
}
