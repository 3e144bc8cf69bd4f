// Package asset holds the value types exchanged with the external asset
// storage: a stored file is known by a public URL and a deletable reference.
package asset

import (
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Asset is a stored file as returned by the storage collaborator
type Asset struct {
	URL string `json:"url"`
	Ref string `json:"ref"`
}

// IsZero reports whether the asset is unset
func (a Asset) IsZero() bool {
	return a.URL == "" && a.Ref == ""
}

// Event type constants
const (
	EventTypeAssetsReleased = "AssetsReleased"
)

// ReleasedEvent is published after an owning record stopped referencing the
// given asset refs. Handlers delete the remote objects; the owning record is
// already committed when this is published.
type ReleasedEvent struct {
	shared.BaseDomainEvent
	Refs []string `json:"refs"`
}

// NewReleasedEvent creates a ReleasedEvent for the aggregate that owned refs.
// Empty refs are dropped.
func NewReleasedEvent(aggType string, aggID uuid.UUID, refs ...string) *ReleasedEvent {
	kept := make([]string, 0, len(refs))
	for _, r := range refs {
		if r != "" {
			kept = append(kept, r)
		}
	}
	return &ReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetsReleased, aggType, aggID),
		Refs:            kept,
	}
}

// Refs collects the non-empty refs of assets
func Refs(assets ...Asset) []string {
	refs := make([]string, 0, len(assets))
	for _, a := range assets {
		if a.Ref != "" {
			refs = append(refs, a.Ref)
		}
	}
	return refs
}
