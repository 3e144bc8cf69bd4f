package enquiry

import (
	"time"

	"github.com/catalogue/backend/internal/domain/enquiry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEnquiryRequest represents a request to submit an enquiry
type CreateEnquiryRequest struct {
	ProductIDs []uuid.UUID      `json:"product_ids" binding:"required,min=1,dive,required"`
	Price      *decimal.Decimal `json:"price"`
}

// UpdateStatusRequest represents a request to change an enquiry's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,enquiry_status"`
}

// ListFilter carries the raw admin filter of the enquiry list
type ListFilter struct {
	From     string `form:"from"`
	To       string `form:"to"`
	City     string `form:"city"`
	Name     string `form:"name"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// EnquiryResponse represents an enquiry in API responses
type EnquiryResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	ProductIDs []uuid.UUID     `json:"product_ids"`
	Price      decimal.Decimal `json:"price"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Replayed   bool            `json:"replayed,omitempty"`
}

// RequesterResponse is the user detail shown with an enquiry
type RequesterResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Mobile     string    `json:"mobile"`
	City       string    `json:"city"`
	Clinic     string    `json:"clinic"`
	Speciality string    `json:"speciality"`
}

// EnquiryViewResponse is an enquiry joined with its requester and product names
type EnquiryViewResponse struct {
	EnquiryResponse
	Requester    RequesterResponse `json:"requester"`
	ProductNames []string          `json:"product_names"`
}

// ToEnquiryResponse converts a domain Enquiry to EnquiryResponse
func ToEnquiryResponse(e *enquiry.Enquiry) EnquiryResponse {
	ids := make([]uuid.UUID, len(e.ProductIDs))
	copy(ids, e.ProductIDs)
	return EnquiryResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		ProductIDs: ids,
		Price:      e.Price,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// ToEnquiryViewResponse converts a read projection to its response form
func ToEnquiryViewResponse(v enquiry.View) EnquiryViewResponse {
	return EnquiryViewResponse{
		EnquiryResponse: ToEnquiryResponse(&v.Enquiry),
		Requester: RequesterResponse{
			UserID:     v.Requester.UserID,
			Name:       v.Requester.Name,
			Mobile:     v.Requester.Mobile,
			City:       v.Requester.City,
			Clinic:     v.Requester.Clinic,
			Speciality: v.Requester.Speciality,
		},
		ProductNames: v.ProductNames,
	}
}
