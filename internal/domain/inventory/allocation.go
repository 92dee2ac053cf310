package inventory

import (
	"sort"
	"time"

	"github.com/imaps/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchDraw is one planned deduction from a single batch
type BatchDraw struct {
	Batch  *Batch
	Amount decimal.Decimal
}

// AllocationPlan is the ordered set of deductions that satisfies one
// consumption request. The plan is computed over in-memory batches without
// mutating them; Apply executes the deductions.
type AllocationPlan struct {
	Requested decimal.Decimal
	Draws     []BatchDraw
}

// Cascaded reports whether the request spilled past the requested batch
func (p *AllocationPlan) Cascaded() bool {
	return len(p.Draws) > 1
}

// Apply decrements every batch in the plan by its planned amount
func (p *AllocationPlan) Apply() {
	for _, d := range p.Draws {
		d.Batch.Draw(d.Amount)
	}
}

// AllocationEngine decides which batches a consumption request draws from.
//
// The requested batch is always drawn first because the caller explicitly
// chose it. Any remainder cascades across eligible sibling batches in two
// tiers: batches tagged with the request's own category first, then shared
// "Both" stock, each tier oldest delivery first with insertion order as the
// tie-break. The plan fails as a whole before anything is touched when a
// delivery date postdates the usage date or when the eligible total cannot
// cover the request.
type AllocationEngine struct{}

// NewAllocationEngine creates a new allocation engine
func NewAllocationEngine() *AllocationEngine {
	return &AllocationEngine{}
}

// Plan computes the deductions for drawing quantity units of the requested
// batch's material on dateUsed, for a request tagged with category.
// Candidates may contain ineligible batches; the engine filters them.
// Nothing is mutated; on failure a typed error is returned and the plan is
// nil.
func (e *AllocationEngine) Plan(
	requested *Batch,
	candidates []*Batch,
	quantity decimal.Decimal,
	category UseCategory,
	dateUsed time.Time,
) (*AllocationPlan, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError(map[string]string{
			"quantity_used": "quantity used must be positive",
		})
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError(map[string]string{
			"use_category": "use category must be A, B or Both",
		})
	}
	if !requested.Active {
		return nil, shared.ErrNotFound
	}
	if dateUsed.Before(requested.DateDelivered) {
		return nil, &shared.DateOrderError{
			BatchCode:     requested.Code,
			DateUsed:      dateUsed,
			DateDelivered: requested.DateDelivered,
		}
	}

	// The whole request fits in the chosen batch: no cascade.
	if requested.QuantityLeft.GreaterThanOrEqual(quantity) {
		return &AllocationPlan{
			Requested: quantity,
			Draws:     []BatchDraw{{Batch: requested, Amount: quantity}},
		}, nil
	}

	eligible := e.orderCandidates(requested, candidates, category)

	// Every batch the cascade may touch must have been delivered by the
	// usage date, and the combined stock must cover the request. Both
	// checks run before any deduction so a failure mutates nothing.
	available := requested.QuantityLeft
	for _, c := range eligible {
		if dateUsed.Before(c.DateDelivered) {
			return nil, &shared.DateOrderError{
				BatchCode:     c.Code,
				DateUsed:      dateUsed,
				DateDelivered: c.DateDelivered,
			}
		}
		available = available.Add(c.QuantityLeft)
	}
	if available.LessThan(quantity) {
		return nil, &shared.InsufficientStockError{
			MaterialName: requested.MaterialName,
			Requested:    quantity,
			Available:    available,
		}
	}

	plan := &AllocationPlan{Requested: quantity}
	remainder := quantity
	if requested.HasStock() {
		plan.Draws = append(plan.Draws, BatchDraw{Batch: requested, Amount: requested.QuantityLeft})
		remainder = remainder.Sub(requested.QuantityLeft)
	}
	for _, c := range eligible {
		if remainder.LessThanOrEqual(decimal.Zero) {
			break
		}
		amount := decimal.Min(remainder, c.QuantityLeft)
		plan.Draws = append(plan.Draws, BatchDraw{Batch: c, Amount: amount})
		remainder = remainder.Sub(amount)
	}
	return plan, nil
}

// orderCandidates filters the candidate batches down to the eligible set
// and orders them: same-category tier first, then shared-stock tier, each
// oldest delivery first with insertion sequence as the tie-break.
func (e *AllocationEngine) orderCandidates(requested *Batch, candidates []*Batch, category UseCategory) []*Batch {
	var tier1, tier2 []*Batch
	for _, c := range candidates {
		if c.ID == requested.ID {
			continue
		}
		if !c.Active || !c.HasStock() || !requested.SameMaterial(c) {
			continue
		}
		if !c.UseCategory.EligibleFor(category) {
			continue
		}
		if c.UseCategory == UseCategoryBoth && category != UseCategoryBoth {
			tier2 = append(tier2, c)
		} else {
			tier1 = append(tier1, c)
		}
	}
	sortFIFO(tier1)
	sortFIFO(tier2)
	return append(tier1, tier2...)
}

func sortFIFO(batches []*Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if !batches[i].DateDelivered.Equal(batches[j].DateDelivered) {
			return batches[i].DateDelivered.Before(batches[j].DateDelivered)
		}
		return batches[i].Seq < batches[j].Seq
	})
}
