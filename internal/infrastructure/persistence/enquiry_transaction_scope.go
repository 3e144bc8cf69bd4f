package persistence

import (
	"context"

	appenquiry "github.com/catalogue/backend/internal/application/enquiry"
	"github.com/catalogue/backend/internal/domain/cart"
	"github.com/catalogue/backend/internal/domain/enquiry"
	"gorm.io/gorm"
)

// GormEnquiryTransactionScope implements TransactionScope using GORM
// transactions. Isolated steps run behind a savepoint.
type GormEnquiryTransactionScope struct {
	db *gorm.DB
}

// NewGormEnquiryTransactionScope creates a new GormEnquiryTransactionScope
func NewGormEnquiryTransactionScope(db *gorm.DB) *GormEnquiryTransactionScope {
	return &GormEnquiryTransactionScope{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error
// the transaction is rolled back, otherwise it is committed.
func (s *GormEnquiryTransactionScope) Execute(ctx context.Context, fn func(repos appenquiry.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormEnquiryRepositories{tx: tx})
	})
}

type gormEnquiryRepositories struct {
	tx *gorm.DB
}

// EnquiryRepo returns the enquiry repository scoped to the current transaction
func (r *gormEnquiryRepositories) EnquiryRepo() enquiry.Repository {
	return NewGormEnquiryRepository(r.tx)
}

// CartRepo returns the cart repository scoped to the current transaction
func (r *gormEnquiryRepositories) CartRepo() cart.Repository {
	return NewGormCartRepository(r.tx)
}

// Isolated runs fn in a nested transaction. gorm maps it to a savepoint, so
// a failure rolls back only fn's writes and the outer transaction stays
// usable.
func (r *gormEnquiryRepositories) Isolated(fn func(repos appenquiry.TransactionalRepositories) error) error {
	return r.tx.Transaction(func(nested *gorm.DB) error {
		return fn(&gormEnquiryRepositories{tx: nested})
	})
}

var (
	_ appenquiry.TransactionScope          = (*GormEnquiryTransactionScope)(nil)
	_ appenquiry.TransactionalRepositories = (*gormEnquiryRepositories)(nil)
)
