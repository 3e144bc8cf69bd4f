// Package content manages the storefront collaterals edited from the admin
// dashboard.
package content

import (
	"context"
	"strings"
	"time"

	appasset "github.com/catalogue/backend/internal/application/asset"
	"github.com/catalogue/backend/internal/domain/content"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Service handles social links, banners and the terms document. Every
// mutation requires an admin caller.
type Service struct {
	links    content.SocialLinkRepository
	banners  content.BannerRepository
	terms    content.TermsRepository
	uploader *appasset.Uploader
	releaser *appasset.Releaser
}

// NewService creates a new content Service
func NewService(
	links content.SocialLinkRepository,
	banners content.BannerRepository,
	terms content.TermsRepository,
	uploader *appasset.Uploader,
	releaser *appasset.Releaser,
) *Service {
	return &Service{
		links:    links,
		banners:  banners,
		terms:    terms,
		uploader: uploader,
		releaser: releaser,
	}
}

// CreateSocialLink adds a link. A platform holds at most one link; a second
// one for the same platform, ignoring case, is a CONFLICT.
func (s *Service) CreateSocialLink(ctx context.Context, caller shared.Identity, req CreateSocialLinkRequest) (*SocialLinkResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	link, err := content.NewSocialLink(req.Platform, req.URL)
	if err != nil {
		return nil, err
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	resp := ToSocialLinkResponse(link)
	return &resp, nil
}

// ListSocialLinks returns every link ordered by platform
func (s *Service) ListSocialLinks(ctx context.Context) ([]SocialLinkResponse, error) {
	links, err := s.links.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SocialLinkResponse, len(links))
	for i := range links {
		out[i] = ToSocialLinkResponse(&links[i])
	}
	return out, nil
}

// UpdateSocialLink replaces the target URL of a link
func (s *Service) UpdateSocialLink(ctx context.Context, caller shared.Identity, id uuid.UUID, req UpdateSocialLinkRequest) (*SocialLinkResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	link, err := s.links.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := link.SetURL(req.URL); err != nil {
		return nil, err
	}
	if err := s.links.Update(ctx, link); err != nil {
		return nil, err
	}
	resp := ToSocialLinkResponse(link)
	return &resp, nil
}

// DeleteSocialLink removes a link
func (s *Service) DeleteSocialLink(ctx context.Context, caller shared.Identity, id uuid.UUID) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	return s.links.Delete(ctx, id)
}

// CreateBanner uploads the image and stores the banner. A failed upload
// aborts with DEPENDENCY_FAILURE and nothing is stored.
func (s *Service) CreateBanner(ctx context.Context, caller shared.Identity, req CreateBannerRequest) (*BannerResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if req.Image.Content == nil {
		return nil, shared.InvalidArgumentf("Banner image is required")
	}

	image, err := s.uploader.Upload(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	banner, err := content.NewBanner(req.Title, image)
	if err != nil {
		s.uploader.Discard(ctx, content.AggregateTypeBanner, uuid.Nil, image)
		return nil, err
	}
	if err := s.banners.Create(ctx, banner); err != nil {
		s.uploader.Discard(ctx, content.AggregateTypeBanner, banner.ID, image)
		return nil, err
	}
	resp := ToBannerResponse(banner)
	return &resp, nil
}

// ListBanners returns every banner, newest first
func (s *Service) ListBanners(ctx context.Context) ([]BannerResponse, error) {
	banners, err := s.banners.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BannerResponse, len(banners))
	for i := range banners {
		out[i] = ToBannerResponse(&banners[i])
	}
	return out, nil
}

// DeleteBanner removes a banner and releases its image
func (s *Service) DeleteBanner(ctx context.Context, caller shared.Identity, id uuid.UUID) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	banner, err := s.banners.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.banners.Delete(ctx, id); err != nil {
		return err
	}
	s.releaser.Release(ctx, content.AggregateTypeBanner, banner.ID, banner.Image.Ref)
	return nil
}

// GetTerms returns the published terms
func (s *Service) GetTerms(ctx context.Context) (*TermsResponse, error) {
	terms, err := s.terms.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &TermsResponse{Content: terms.Content, UpdatedAt: terms.UpdatedAt}, nil
}

// SaveTerms replaces the terms document
func (s *Service) SaveTerms(ctx context.Context, caller shared.Identity, req SaveTermsRequest) (*TermsResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	body := strings.TrimSpace(req.Content)
	if body == "" {
		return nil, shared.InvalidArgumentf("Terms content cannot be empty")
	}
	terms := &content.Terms{Content: body, UpdatedAt: time.Now()}
	if err := s.terms.Save(ctx, terms); err != nil {
		return nil, err
	}
	return &TermsResponse{Content: terms.Content, UpdatedAt: terms.UpdatedAt}, nil
}
