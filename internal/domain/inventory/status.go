package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the derived health label of a batch. It is never set by a
// caller; every write path recomputes it before persisting.
type Status string

const (
	StatusOK           Status = "OK"
	StatusLowInventory Status = "Low Inventory"
	StatusExpiring     Status = "Expiring"
)

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// StatusThresholds holds the boundary values used when deriving a batch's
// status. The defaults match the operational rules the business runs on.
type StatusThresholds struct {
	// ExpiryWindowDays flags batches whose expiration date falls within
	// this many days from today (inclusive).
	ExpiryWindowDays int
	// LowQuantityUnits flags expiry-tracked batches with strictly fewer
	// remaining units than this.
	LowQuantityUnits decimal.Decimal
	// LowPercent flags non-expiry batches with strictly less than this
	// percentage of the bought quantity remaining.
	LowPercent decimal.Decimal
}

// DefaultStatusThresholds returns the standard thresholds: 30 days,
// 10 units, 15 percent.
func DefaultStatusThresholds() StatusThresholds {
	return StatusThresholds{
		ExpiryWindowDays: 30,
		LowQuantityUnits: decimal.NewFromInt(10),
		LowPercent:       decimal.NewFromInt(15),
	}
}

// ComputeStatus derives the status of a batch from its quantity and expiry
// as of the given day. Pure function; the batch is not modified.
//
// Batches with an expiration date: Expiring when the expiration date is at
// most ExpiryWindowDays away (boundary included), otherwise Low Inventory
// when fewer than LowQuantityUnits remain, otherwise OK.
//
// Batches without an expiration date: Low Inventory when nothing was bought
// or when the remaining percentage is below LowPercent, otherwise OK.
func ComputeStatus(b *Batch, today time.Time, t StatusThresholds) Status {
	if b.ExpirationDate != nil {
		deadline := today.AddDate(0, 0, t.ExpiryWindowDays)
		if !b.ExpirationDate.After(deadline) {
			return StatusExpiring
		}
		if b.QuantityLeft.LessThan(t.LowQuantityUnits) {
			return StatusLowInventory
		}
		return StatusOK
	}

	if b.QuantityBought.LessThanOrEqual(decimal.Zero) {
		return StatusLowInventory
	}
	pctLeft := b.QuantityLeft.Div(b.QuantityBought).Mul(decimal.NewFromInt(100))
	if pctLeft.LessThan(t.LowPercent) {
		return StatusLowInventory
	}
	return StatusOK
}
