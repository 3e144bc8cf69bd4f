package content

import (
	"time"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/content"
	"github.com/google/uuid"
)

// CreateSocialLinkRequest represents a request to add a social link
type CreateSocialLinkRequest struct {
	Platform string `json:"platform" binding:"required,max=50"`
	URL      string `json:"url" binding:"required,url"`
}

// UpdateSocialLinkRequest represents a request to change a link target
type UpdateSocialLinkRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// SocialLinkResponse represents a social link in API responses
type SocialLinkResponse struct {
	ID        uuid.UUID `json:"id"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateBannerRequest represents a request to publish a banner
type CreateBannerRequest struct {
	Title string     `form:"title" binding:"max=200"`
	Image asset.File `form:"-" json:"-"`
}

// BannerResponse represents a banner in API responses
type BannerResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveTermsRequest represents a request to replace the terms document
type SaveTermsRequest struct {
	Content string `json:"content" binding:"required"`
}

// TermsResponse represents the terms document in API responses
type TermsResponse struct {
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSocialLinkResponse converts a domain SocialLink to SocialLinkResponse
func ToSocialLinkResponse(l *content.SocialLink) SocialLinkResponse {
	return SocialLinkResponse{
		ID:        l.ID,
		Platform:  l.Platform,
		URL:       l.URL,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// ToBannerResponse converts a domain Banner to BannerResponse
func ToBannerResponse(b *content.Banner) BannerResponse {
	return BannerResponse{
		ID:        b.ID,
		Title:     b.Title,
		ImageURL:  b.Image.URL,
		CreatedAt: b.CreatedAt,
	}
}
