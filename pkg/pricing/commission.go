// Package pricing turns catalog prices into the integer minor-unit amounts
// charged by a store.
package pricing

import (
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Engine applies the platform commission and then the store commission.
// The two markups compound: base * (1+platform/100) * (1+store/100).
type Engine struct {
	platformPercentage decimal.Decimal
}

// NewEngine builds an Engine with the deployment-wide platform percentage.
func NewEngine(platformPercentage decimal.Decimal) *Engine {
	return &Engine{platformPercentage: platformPercentage}
}

// FinalPrice computes the charged amount in minor units. The decimal result
// is rounded half-up to 2 places before conversion to cents.
func (e *Engine) FinalPrice(base, storePercentage decimal.Decimal) (int64, error) {
	if !base.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidPrice, "Invalid product: price must be greater than 0")
	}

	withPlatform := base.Mul(markup(e.platformPercentage))
	final := withPlatform.Mul(markup(storePercentage))

	return final.Round(2).Mul(hundred).IntPart(), nil
}

func markup(percentage decimal.Decimal) decimal.Decimal {
	return one.Add(percentage.Div(hundred))
}
