package pricing

import (
	"time"

	"github.com/noah-isme/backend-grosir/internal/money"
)

// TierRow is one row of a price or sales-factor tier set.
type TierRow struct {
	Tier      int
	Value     money.Money
	ValidFrom time.Time
	ValidTo   time.Time
}

// EffectiveValue reduces a tier row set to its effective value: the highest
// tier whose validity window covers now. The second return is false when no
// row is currently valid.
func EffectiveValue(rows []TierRow, now time.Time) (money.Money, bool) {
	var (
		best  TierRow
		found bool
	)
	for _, row := range rows {
		if now.Before(row.ValidFrom) || now.After(row.ValidTo) {
			continue
		}
		if !found || row.Tier > best.Tier {
			best = row
			found = true
		}
	}
	if !found {
		return money.ZeroMoney(), false
	}
	return best.Value, true
}
