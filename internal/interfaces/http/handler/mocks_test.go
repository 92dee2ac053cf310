package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// inventoryStore is a shared in-memory backing store for the inventory
// repository mocks, so batch, usage and report views stay consistent
// within one test.
type inventoryStore struct {
	mu      sync.Mutex
	seq     int64
	batches map[string]*inventory.Batch
	usages  map[string]*inventory.UsageRecord
}

func newInventoryStore() *inventoryStore {
	return &inventoryStore{
		batches: make(map[string]*inventory.Batch),
		usages:  make(map[string]*inventory.UsageRecord),
	}
}

func storeKey(kind inventory.MaterialKind, code string) string {
	return kind.String() + "/" + code
}

type mockBatchRepo struct {
	store *inventoryStore
}

func (m *mockBatchRepo) FindByCode(_ context.Context, kind inventory.MaterialKind, code string) (*inventory.Batch, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	b, ok := m.store.batches[storeKey(kind, code)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBatchRepo) FindByCodeForUpdate(ctx context.Context, kind inventory.MaterialKind, code string) (*inventory.Batch, error) {
	return m.FindByCode(ctx, kind, code)
}

func (m *mockBatchRepo) FindActive(_ context.Context, kind inventory.MaterialKind, _ shared.Filter) ([]inventory.Batch, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []inventory.Batch
	for _, b := range m.store.batches {
		if b.Kind == kind && b.Active {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateDelivered.Equal(out[j].DateDelivered) {
			return out[i].DateDelivered.After(out[j].DateDelivered)
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}

func (m *mockBatchRepo) sameMaterial(b *inventory.Batch, kind inventory.MaterialKind, materialName, containerSize string) bool {
	if b.Kind != kind || b.MaterialName != materialName {
		return false
	}
	if kind.HasContainerSize() && b.ContainerSize != containerSize {
		return false
	}
	return true
}

func (m *mockBatchRepo) FindAllocationCandidatesForUpdate(_ context.Context, kind inventory.MaterialKind, materialName, containerSize string, exclude uuid.UUID) ([]inventory.Batch, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []inventory.Batch
	for _, b := range m.store.batches {
		if b.Active && b.ID != exclude && b.HasStock() && m.sameMaterial(b, kind, materialName, containerSize) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateDelivered.Equal(out[j].DateDelivered) {
			return out[i].DateDelivered.Before(out[j].DateDelivered)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (m *mockBatchRepo) FindActiveSiblings(_ context.Context, kind inventory.MaterialKind, materialName, containerSize string, exclude uuid.UUID) ([]inventory.Batch, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []inventory.Batch
	for _, b := range m.store.batches {
		if b.Active && b.ID != exclude && m.sameMaterial(b, kind, materialName, containerSize) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBatchRepo) Save(_ context.Context, batch *inventory.Batch) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	key := storeKey(batch.Kind, batch.Code)
	if existing, ok := m.store.batches[key]; ok && existing.ID != batch.ID {
		return shared.ErrAlreadyExists
	}
	if batch.Seq == 0 {
		m.store.seq++
		batch.Seq = m.store.seq
	}
	cp := *batch
	m.store.batches[key] = &cp
	return nil
}

func (m *mockBatchRepo) CountActive(_ context.Context, kind inventory.MaterialKind, _ shared.Filter) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var n int64
	for _, b := range m.store.batches {
		if b.Kind == kind && b.Active {
			n++
		}
	}
	return n, nil
}

type mockUsageRepo struct {
	store *inventoryStore
}

func (m *mockUsageRepo) FindByCode(_ context.Context, kind inventory.MaterialKind, code string) (*inventory.UsageRecord, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	u, ok := m.store.usages[storeKey(kind, code)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUsageRepo) FindActive(_ context.Context, kind inventory.MaterialKind, _ shared.Filter) ([]inventory.UsageRecord, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []inventory.UsageRecord
	for _, u := range m.store.usages {
		if u.Kind == kind && u.Active {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateUsed.After(out[j].DateUsed)
	})
	return out, nil
}

func (m *mockUsageRepo) SumUsedByBatch(_ context.Context, kind inventory.MaterialKind, batchID uuid.UUID) (decimal.Decimal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	total := decimal.Zero
	for _, u := range m.store.usages {
		if u.Kind == kind && u.Active && u.BatchID == batchID {
			total = total.Add(u.QuantityUsed)
		}
	}
	return total, nil
}

func (m *mockUsageRepo) Save(_ context.Context, record *inventory.UsageRecord) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	key := storeKey(record.Kind, record.Code)
	if existing, ok := m.store.usages[key]; ok && existing.ID != record.ID {
		return shared.ErrAlreadyExists
	}
	cp := *record
	m.store.usages[key] = &cp
	return nil
}

func (m *mockUsageRepo) CountActive(_ context.Context, kind inventory.MaterialKind, _ shared.Filter) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var n int64
	for _, u := range m.store.usages {
		if u.Kind == kind && u.Active {
			n++
		}
	}
	return n, nil
}

type mockReportRepo struct {
	store *inventoryStore
}

func (m *mockReportRepo) SumQuantityLeft(_ context.Context, kind inventory.MaterialKind, materialName, containerSize string, categories []inventory.UseCategory) (decimal.Decimal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	total := decimal.Zero
	for _, b := range m.store.batches {
		if b.Kind != kind || !b.Active || b.MaterialName != materialName {
			continue
		}
		if kind.HasContainerSize() && b.ContainerSize != containerSize {
			continue
		}
		for _, cat := range categories {
			if b.UseCategory == cat {
				total = total.Add(b.QuantityLeft)
				break
			}
		}
	}
	return total, nil
}

func (m *mockReportRepo) UsageTotals(_ context.Context, kind inventory.MaterialKind, dateRange shared.DateRange) ([]inventory.UsageTotal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	byMaterial := make(map[string]decimal.Decimal)
	for _, u := range m.store.usages {
		if u.Kind != kind || !u.Active || !dateRange.Contains(u.DateUsed) {
			continue
		}
		byMaterial[u.MaterialName] = byMaterial[u.MaterialName].Add(u.QuantityUsed)
	}
	names := make([]string, 0, len(byMaterial))
	for name := range byMaterial {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]inventory.UsageTotal, 0, len(names))
	for _, name := range names {
		out = append(out, inventory.UsageTotal{MaterialName: name, TotalUsed: byMaterial[name]})
	}
	return out, nil
}

func (m *mockReportRepo) ExpiryTotals(_ context.Context, dateRange shared.DateRange) ([]inventory.ExpiryTotal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	type pair struct{ expired, remaining decimal.Decimal }
	byMaterial := make(map[string]*pair)
	for _, b := range m.store.batches {
		if b.Kind != inventory.MaterialKindIngredient || !b.Active || b.ExpirationDate == nil {
			continue
		}
		p, ok := byMaterial[b.MaterialName]
		if !ok {
			p = &pair{expired: decimal.Zero, remaining: decimal.Zero}
			byMaterial[b.MaterialName] = p
		}
		if dateRange.Contains(*b.ExpirationDate) {
			p.expired = p.expired.Add(b.QuantityLeft)
		} else {
			p.remaining = p.remaining.Add(b.QuantityLeft)
		}
	}
	names := make([]string, 0, len(byMaterial))
	for name, p := range byMaterial {
		if p.expired.IsPositive() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]inventory.ExpiryTotal, 0, len(names))
	for _, name := range names {
		out = append(out, inventory.ExpiryTotal{
			MaterialName:      name,
			ExpiredQuantity:   byMaterial[name].expired,
			RemainingQuantity: byMaterial[name].remaining,
		})
	}
	return out, nil
}
