package flashsale

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-grosir/internal/money"
	"github.com/noah-isme/backend-grosir/internal/uom"
)

// CartItem is one cart line participating in a tag-scoped flash sale. Qty is
// expressed in base units.
type CartItem struct {
	ItemID  uuid.UUID
	Qty     money.Quantity
	AddedAt time.Time
}

// QuotaResult describes one item's share of the tag group's flash-sale quota.
type QuotaResult struct {
	// UsedQuotaBefore is the quota consumed by items added to the cart
	// earlier than this one.
	UsedQuotaBefore money.Quantity
	// DiscountableQty is this item's own discountable quantity.
	DiscountableQty money.Quantity
	// RemainingQty is what is left for items added later.
	RemainingQty money.Quantity
	// IsApplied is true when the tag group meets the minimum criterion and
	// this item itself has a positive cart quantity.
	IsApplied bool
	// MinQty and MinQtyUomType echo the effective minimum criterion, after
	// the repeat-purchase relaxation when the buyer already redeemed.
	MinQty        money.Quantity
	MinQtyUomType uom.Type
}

// ResolveQuota computes the remaining discountable quantity for one item of a
// tag group. maxQtyBase is the sale's benefit-level cap converted to base
// units; the total quota for the whole tag group is maxQtyBase minus what the
// buyer already redeemed. Quota is consumed greedily in cart-insertion order.
// conv converts the minimum criterion to base units for the evaluated item.
func ResolveQuota(sale ReadModel, group []CartItem, itemID uuid.UUID, maxQtyBase money.Quantity, conv uom.Conversion) QuotaResult {
	res := QuotaResult{
		MinQty:        sale.Criteria.MinQty,
		MinQtyUomType: sale.Criteria.MinQtyUomType,
	}
	// Once any confirmed redemption exists, the criterion relaxes to a
	// single base unit for repeat purchases.
	if sale.RedeemedQty.IsPositive() {
		res.MinQty = money.OneQty()
		res.MinQtyUomType = uom.Base
	}

	remaining := maxQtyBase.SubClamped(sale.RedeemedQty)

	ordered := make([]CartItem, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].AddedAt.Equal(ordered[j].AddedAt) {
			return ordered[i].AddedAt.Before(ordered[j].AddedAt)
		}
		return ordered[i].ItemID.String() < ordered[j].ItemID.String()
	})

	groupTotal := money.ZeroQty()
	for _, it := range ordered {
		groupTotal = groupTotal.Add(it.Qty)
	}

	var own money.Quantity
	used := money.ZeroQty()
	for _, it := range ordered {
		take := it.Qty.Min(remaining)
		if it.ItemID == itemID {
			own = it.Qty
			res.UsedQuotaBefore = used
			res.DiscountableQty = take
		}
		used = used.Add(take)
		remaining = remaining.SubClamped(take)
	}
	res.RemainingQty = remaining

	// A zero-qty item contributes to the tag total but is never itself
	// applied.
	minBase := conv.ToBase(res.MinQty, res.MinQtyUomType)
	res.IsApplied = groupTotal.GreaterThanOrEqual(minBase) && own.IsPositive()
	return res
}
