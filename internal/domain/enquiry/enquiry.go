// Package enquiry models a customer's recorded interest in a set of
// products and the admin-managed follow-up status.
package enquiry

import (
	"context"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeEnquiry names the enquiry aggregate
const AggregateTypeEnquiry = "Enquiry"

// Status is the follow-up state of an enquiry
type Status string

const (
	StatusYetToContact    Status = "yet_to_contact"
	StatusDND             Status = "dnd"
	StatusConfirmingOrder Status = "confirming_order"
	StatusOrderConfirmed  Status = "order_confirmed"
)

// AllStatuses lists every known status in lifecycle order
var AllStatuses = []Status{StatusYetToContact, StatusDND, StatusConfirmingOrder, StatusOrderConfirmed}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status value
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", shared.InvalidArgumentf("Invalid enquiry status %q", raw)
	}
	return s, nil
}

// Enquiry is immutable after creation except for Status
type Enquiry struct {
	shared.BaseEntity
	UserID     uuid.UUID
	ProductIDs []uuid.UUID
	Price      decimal.Decimal
	Status     Status
}

// NewEnquiry creates an enquiry in the yet_to_contact status
func NewEnquiry(userID uuid.UUID, productIDs []uuid.UUID, price decimal.Decimal) (*Enquiry, error) {
	if userID == uuid.Nil {
		return nil, shared.InvalidArgumentf("User ID is required")
	}
	if len(productIDs) == 0 {
		return nil, shared.InvalidArgumentf("An enquiry needs at least one product")
	}
	seen := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		if id == uuid.Nil {
			return nil, shared.InvalidArgumentf("Product ID is required")
		}
		if _, dup := seen[id]; dup {
			return nil, shared.InvalidArgumentf("Product %s is listed more than once", id)
		}
		seen[id] = struct{}{}
	}
	if price.IsNegative() {
		return nil, shared.InvalidArgumentf("Price cannot be negative")
	}

	ids := make([]uuid.UUID, len(productIDs))
	copy(ids, productIDs)
	return &Enquiry{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductIDs: ids,
		Price:      price,
		Status:     StatusYetToContact,
	}, nil
}

// SetStatus moves the enquiry to status. Any known status may follow any
// other; only unknown values are rejected.
func (e *Enquiry) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.InvalidArgumentf("Invalid enquiry status %q", status)
	}
	e.Status = status
	e.Touch()
	return nil
}

// Requester is the user detail shown alongside an enquiry
type Requester struct {
	UserID     uuid.UUID
	Name       string
	Mobile     string
	City       string
	Clinic     string
	Speciality string
}

// View is the read projection of an enquiry joined with its requester and
// product names. It is never written back.
type View struct {
	Enquiry
	Requester    Requester
	ProductNames []string
}

// Repository defines enquiry persistence
type Repository interface {
	// Create inserts an enquiry and its ordered product references
	Create(ctx context.Context, e *Enquiry) error

	// FindByID finds an enquiry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Enquiry, error)

	// FindAll returns every enquiry, newest first
	FindAll(ctx context.Context) ([]Enquiry, error)

	// UpdateStatus persists a status change
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
