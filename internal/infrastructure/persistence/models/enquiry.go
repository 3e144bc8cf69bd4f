package models

import (
	"github.com/catalogue/backend/internal/domain/enquiry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EnquiryModel is the persistence model for the Enquiry domain entity
type EnquiryModel struct {
	BaseModel
	UserID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status enquiry.Status  `gorm:"type:varchar(32);not null;default:'yet_to_contact';index"`
}

// TableName returns the table name for GORM
func (EnquiryModel) TableName() string {
	return "enquiries"
}

// EnquiryProductModel keeps the ordered product references of an enquiry
type EnquiryProductModel struct {
	EnquiryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey;autoIncrement:false"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (EnquiryProductModel) TableName() string {
	return "enquiry_products"
}

// ToDomain converts the persistence model to a domain Enquiry.
// products must already be ordered by position.
func (m *EnquiryModel) ToDomain(products []EnquiryProductModel) *enquiry.Enquiry {
	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ProductID
	}
	return &enquiry.Enquiry{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		ProductIDs: ids,
		Price:      m.Price,
		Status:     m.Status,
	}
}

// EnquiryModelFromDomain creates the persistence rows for an enquiry
func EnquiryModelFromDomain(e *enquiry.Enquiry) (*EnquiryModel, []EnquiryProductModel) {
	m := &EnquiryModel{
		UserID: e.UserID,
		Price:  e.Price,
		Status: e.Status,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	products := make([]EnquiryProductModel, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		products[i] = EnquiryProductModel{EnquiryID: e.ID, Position: i, ProductID: id}
	}
	return m, products
}
