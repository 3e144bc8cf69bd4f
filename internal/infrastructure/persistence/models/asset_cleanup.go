package models

import (
	"time"

	"github.com/google/uuid"
)

// AssetCleanupFailureModel records a remote asset that could not be deleted
// so it can be reconciled later.
type AssetCleanupFailureModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Ref           string     `gorm:"type:varchar(512);not null;index"`
	AggregateType string     `gorm:"type:varchar(50);not null"`
	AggregateID   uuid.UUID  `gorm:"type:uuid;not null"`
	LastError     string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"not null"`
	ResolvedAt    *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (AssetCleanupFailureModel) TableName() string {
	return "asset_cleanup_failures"
}
