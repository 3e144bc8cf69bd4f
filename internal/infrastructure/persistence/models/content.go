package models

import (
	"time"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/content"
)

// SocialLinkModel is the persistence model for social links
type SocialLinkModel struct {
	BaseModel
	Platform    string `gorm:"type:varchar(50);not null"`
	PlatformKey string `gorm:"type:varchar(50);not null;uniqueIndex:idx_social_links_platform"`
	URL         string `gorm:"type:varchar(1024);not null"`
}

// TableName returns the table name for GORM
func (SocialLinkModel) TableName() string {
	return "social_links"
}

// ToDomain converts the persistence model to a domain SocialLink
func (m *SocialLinkModel) ToDomain() *content.SocialLink {
	return &content.SocialLink{BaseEntity: m.BaseModel.ToDomain(), Platform: m.Platform, URL: m.URL}
}

// SocialLinkModelFromDomain creates a persistence model from a SocialLink
func SocialLinkModelFromDomain(l *content.SocialLink) *SocialLinkModel {
	m := &SocialLinkModel{Platform: l.Platform, PlatformKey: content.PlatformKey(l.Platform), URL: l.URL}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}

// BannerModel is the persistence model for banners
type BannerModel struct {
	BaseModel
	Title    string `gorm:"type:varchar(200)"`
	ImageURL string `gorm:"type:varchar(1024);not null"`
	ImageRef string `gorm:"type:varchar(512)"`
}

// TableName returns the table name for GORM
func (BannerModel) TableName() string {
	return "banners"
}

// ToDomain converts the persistence model to a domain Banner
func (m *BannerModel) ToDomain() *content.Banner {
	return &content.Banner{
		BaseEntity: m.BaseModel.ToDomain(),
		Title:      m.Title,
		Image:      asset.Asset{URL: m.ImageURL, Ref: m.ImageRef},
	}
}

// BannerModelFromDomain creates a persistence model from a Banner
func BannerModelFromDomain(b *content.Banner) *BannerModel {
	m := &BannerModel{Title: b.Title, ImageURL: b.Image.URL, ImageRef: b.Image.Ref}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}

// TermsSingletonID is the fixed primary key of the terms row
const TermsSingletonID = 1

// TermsModel stores the single terms document
type TermsModel struct {
	ID        int       `gorm:"primaryKey;autoIncrement:false"`
	Content   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TermsModel) TableName() string {
	return "terms"
}
