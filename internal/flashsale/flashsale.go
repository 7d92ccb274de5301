package flashsale

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/promo"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// Criteria is the minimum purchase requirement of a flash sale.
type Criteria struct {
	MinQty        money.Quantity `json:"minQty"`
	MinQtyUomType uom.Type       `json:"minQtyUomType"`
}

// ReadModel is one flash sale definition as loaded for a buyer. RedeemedQty is
// the quantity this buyer already consumed in confirmed orders; it is mutated
// only by the order-placement collaborators and read-only here.
type ReadModel struct {
	ID          uuid.UUID
	ExternalID  string
	StartAt     time.Time
	EndAt       time.Time
	Target      promo.Target
	Criteria    Criteria
	Benefit     promo.PromotionBenefit
	RedeemedQty money.Quantity
}

// Active reports whether the sale is running at the given instant.
func (r ReadModel) Active(now time.Time) bool {
	return !now.Before(r.StartAt) && !now.After(r.EndAt)
}
