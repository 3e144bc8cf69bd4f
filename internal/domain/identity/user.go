// Package identity models the users that own carts and submit enquiries.
// Users are registered and authenticated elsewhere; this service only reads
// them.
package identity

import (
	"context"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// User is the read model of a registered customer or admin
type User struct {
	shared.BaseEntity
	Name       string
	Email      string
	Mobile     string
	City       string
	Clinic     string
	Speciality string
	Role       shared.Role
}

// UserDirectory is the read-only port onto the user store
type UserDirectory interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDs returns the users that exist among ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)

	// FindAll returns all users, newest first
	FindAll(ctx context.Context) ([]User, error)
}

// IndexByID builds a lookup map keyed by user ID
func IndexByID(users []User) map[uuid.UUID]User {
	m := make(map[uuid.UUID]User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}
