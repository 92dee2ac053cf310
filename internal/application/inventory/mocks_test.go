package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/domain/partner"
	"github.com/imaps/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockBatchRepository is a mock implementation of inventory.BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByCode(ctx context.Context, kind inventory.MaterialKind, code string) (*inventory.Batch, error) {
	args := m.Called(ctx, kind, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByCodeForUpdate(ctx context.Context, kind inventory.MaterialKind, code string) (*inventory.Batch, error) {
	args := m.Called(ctx, kind, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindActive(ctx context.Context, kind inventory.MaterialKind, filter shared.Filter) ([]inventory.Batch, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindAllocationCandidatesForUpdate(ctx context.Context, kind inventory.MaterialKind, materialName, containerSize string, exclude uuid.UUID) ([]inventory.Batch, error) {
	args := m.Called(ctx, kind, materialName, containerSize, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindActiveSiblings(ctx context.Context, kind inventory.MaterialKind, materialName, containerSize string, exclude uuid.UUID) ([]inventory.Batch, error) {
	args := m.Called(ctx, kind, materialName, containerSize, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Batch), args.Error(1)
}

func (m *MockBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) CountActive(ctx context.Context, kind inventory.MaterialKind, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUsageRecordRepository is a mock implementation of inventory.UsageRecordRepository
type MockUsageRecordRepository struct {
	mock.Mock
}

func (m *MockUsageRecordRepository) FindByCode(ctx context.Context, kind inventory.MaterialKind, code string) (*inventory.UsageRecord, error) {
	args := m.Called(ctx, kind, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.UsageRecord), args.Error(1)
}

func (m *MockUsageRecordRepository) FindActive(ctx context.Context, kind inventory.MaterialKind, filter shared.Filter) ([]inventory.UsageRecord, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.UsageRecord), args.Error(1)
}

func (m *MockUsageRecordRepository) SumUsedByBatch(ctx context.Context, kind inventory.MaterialKind, batchID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, kind, batchID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUsageRecordRepository) Save(ctx context.Context, record *inventory.UsageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUsageRecordRepository) CountActive(ctx context.Context, kind inventory.MaterialKind, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockReportRepository is a mock implementation of inventory.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SumQuantityLeft(ctx context.Context, kind inventory.MaterialKind, materialName, containerSize string, categories []inventory.UseCategory) (decimal.Decimal, error) {
	args := m.Called(ctx, kind, materialName, containerSize, categories)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportRepository) UsageTotals(ctx context.Context, kind inventory.MaterialKind, dateRange shared.DateRange) ([]inventory.UsageTotal, error) {
	args := m.Called(ctx, kind, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.UsageTotal), args.Error(1)
}

func (m *MockReportRepository) ExpiryTotals(ctx context.Context, dateRange shared.DateRange) ([]inventory.ExpiryTotal, error) {
	args := m.Called(ctx, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.ExpiryTotal), args.Error(1)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindActive(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCategory(ctx context.Context, category partner.SupplierCategory) ([]partner.Supplier, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) CountActive(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// fakeReportCache is an in-memory ReportCache for service tests
type fakeReportCache struct {
	entries     map[string][]byte
	invalidated int
}

func newFakeReportCache() *fakeReportCache {
	return &fakeReportCache{entries: map[string][]byte{}}
}

func (c *fakeReportCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeReportCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeReportCache) InvalidateReports(_ context.Context) error {
	c.entries = map[string][]byte{}
	c.invalidated++
	return nil
}
