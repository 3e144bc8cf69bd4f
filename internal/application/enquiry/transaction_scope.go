package enquiry

import (
	"context"

	"github.com/catalogue/backend/internal/domain/cart"
	"github.com/catalogue/backend/internal/domain/enquiry"
)

// TransactionScope provides transactional access to the enquiry and cart
// repositories. Submitting an enquiry writes the enquiry and clears the cart
// inside one scope.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories sharing the same
// underlying transaction.
type TransactionalRepositories interface {
	// EnquiryRepo returns the enquiry repository scoped to the current transaction
	EnquiryRepo() enquiry.Repository
	// CartRepo returns the cart repository scoped to the current transaction
	CartRepo() cart.Repository
	// Isolated runs fn so that its failure undoes only its own writes; the
	// surrounding transaction stays usable.
	Isolated(fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	enquiryRepo enquiry.Repository
	cartRepo    cart.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(enquiryRepo enquiry.Repository, cartRepo cart.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{enquiryRepo: enquiryRepo, cartRepo: cartRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// EnquiryRepo returns the enquiry repository.
func (s *NoOpTransactionScope) EnquiryRepo() enquiry.Repository {
	return s.enquiryRepo
}

// CartRepo returns the cart repository.
func (s *NoOpTransactionScope) CartRepo() cart.Repository {
	return s.cartRepo
}

// Isolated runs fn directly.
func (s *NoOpTransactionScope) Isolated(fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
