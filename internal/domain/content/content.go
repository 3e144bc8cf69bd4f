// Package content holds the storefront collaterals managed from the admin
// dashboard: social links, banners and the terms document.
package content

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeBanner names the banner aggregate in events
const AggregateTypeBanner = "Banner"

// SocialLink points to the business on an external platform.
// A platform has at most one link.
type SocialLink struct {
	shared.BaseEntity
	Platform string
	URL      string
}

// NewSocialLink validates and creates a social link
func NewSocialLink(platform, link string) (*SocialLink, error) {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return nil, shared.InvalidArgumentf("Platform is required")
	}
	if err := validateURL(link); err != nil {
		return nil, err
	}
	return &SocialLink{
		BaseEntity: shared.NewBaseEntity(),
		Platform:   platform,
		URL:        strings.TrimSpace(link),
	}, nil
}

// SetURL replaces the link target
func (s *SocialLink) SetURL(link string) error {
	if err := validateURL(link); err != nil {
		return err
	}
	s.URL = strings.TrimSpace(link)
	s.Touch()
	return nil
}

// PlatformKey folds a platform name for uniqueness checks
func PlatformKey(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return shared.InvalidArgumentf("Invalid URL %q", raw)
	}
	return nil
}

// Banner is a promotional image shown on the storefront
type Banner struct {
	shared.BaseEntity
	Title string
	Image asset.Asset
}

// NewBanner creates a banner around an already stored image
func NewBanner(title string, image asset.Asset) (*Banner, error) {
	if image.IsZero() {
		return nil, shared.InvalidArgumentf("Banner image is required")
	}
	return &Banner{
		BaseEntity: shared.NewBaseEntity(),
		Title:      strings.TrimSpace(title),
		Image:      image,
	}, nil
}

// Terms is the single terms-and-conditions document
type Terms struct {
	Content   string
	UpdatedAt time.Time
}

// SocialLinkRepository persists social links
type SocialLinkRepository interface {
	Create(ctx context.Context, link *SocialLink) error
	Update(ctx context.Context, link *SocialLink) error
	FindByID(ctx context.Context, id uuid.UUID) (*SocialLink, error)
	FindAll(ctx context.Context) ([]SocialLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BannerRepository persists banners
type BannerRepository interface {
	Create(ctx context.Context, banner *Banner) error
	FindByID(ctx context.Context, id uuid.UUID) (*Banner, error)
	FindAll(ctx context.Context) ([]Banner, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TermsRepository persists the terms document
type TermsRepository interface {
	// Get returns the current terms, or a NOT_FOUND error when none were saved
	Get(ctx context.Context) (*Terms, error)
	Save(ctx context.Context, terms *Terms) error
}
