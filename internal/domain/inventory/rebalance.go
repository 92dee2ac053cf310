package inventory

import "github.com/shopspring/decimal"

// RebalanceSiblings recomputes QuantityLeft for the active batches that
// share a soft-deleted batch's material identity, resetting each tier to
// the sum of gross bought quantities.
//
// When the deleted batch was line-specific (A or B), only that line's
// siblings are touched: each gets the line's bought total plus the shared
// "Both" bought total. When the deleted batch was shared stock, the shared
// tier is reset to its own bought total and both line tiers are reset to
// their line total plus the shared total.
//
// This discards per-batch consumption bookkeeping for the affected
// siblings; it reproduces the historical rebalancing contract and is kept
// for compatibility with existing stock records.
//
// The siblings slice must already be filtered to active batches of the same
// material (and container size for packaging), excluding the deleted batch.
// The modified batches are returned for persistence and status recompute.
func RebalanceSiblings(deleted *Batch, siblings []*Batch) []*Batch {
	sumBought := func(category UseCategory) decimal.Decimal {
		total := decimal.Zero
		for _, s := range siblings {
			if s.UseCategory == category {
				total = total.Add(s.QuantityBought)
			}
		}
		return total
	}
	setLeft := func(category UseCategory, left decimal.Decimal) []*Batch {
		var changed []*Batch
		for _, s := range siblings {
			if s.UseCategory == category {
				s.QuantityLeft = left
				s.Touch()
				changed = append(changed, s)
			}
		}
		return changed
	}

	bothTotal := sumBought(UseCategoryBoth)

	if deleted.UseCategory != UseCategoryBoth {
		lineTotal := sumBought(deleted.UseCategory)
		return setLeft(deleted.UseCategory, lineTotal.Add(bothTotal))
	}

	var changed []*Batch
	changed = append(changed, setLeft(UseCategoryBoth, bothTotal)...)
	for _, line := range []UseCategory{UseCategoryA, UseCategoryB} {
		changed = append(changed, setLeft(line, sumBought(line).Add(bothTotal))...)
	}
	return changed
}
