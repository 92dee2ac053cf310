package inventory

import (
	"context"

	"github.com/imaps/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the inventory
// repositories. When a function is executed within a transaction scope, all
// repository operations are part of the same database transaction and are
// committed or rolled back atomically. Row locks taken through the
// ForUpdate repository methods are held until the scope exits.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() inventory.BatchRepository
	// UsageRepo returns the usage record repository scoped to the current transaction
	UsageRepo() inventory.UsageRecordRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	batchRepo inventory.BatchRepository
	usageRepo inventory.UsageRecordRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	batchRepo inventory.BatchRepository,
	usageRepo inventory.UsageRecordRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		batchRepo: batchRepo,
		usageRepo: usageRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the batch repository.
func (s *NoOpTransactionScope) BatchRepo() inventory.BatchRepository {
	return s.batchRepo
}

// UsageRepo returns the usage record repository.
func (s *NoOpTransactionScope) UsageRepo() inventory.UsageRecordRepository {
	return s.usageRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
