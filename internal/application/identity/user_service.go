// Package identity exposes the read-only user directory to admins
package identity

import (
	"context"
	"time"

	"github.com/catalogue/backend/internal/domain/identity"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserService lists the users known to the catalogue
type UserService struct {
	users identity.UserDirectory
}

// NewUserService creates a new user service
func NewUserService(users identity.UserDirectory) *UserService {
	return &UserService{users: users}
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Mobile     string    `json:"mobile,omitempty"`
	City       string    `json:"city,omitempty"`
	Clinic     string    `json:"clinic,omitempty"`
	Speciality string    `json:"speciality,omitempty"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListUsersFilter holds pagination for the user list
type ListUsersFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// List returns all users, newest first
func (s *UserService) List(ctx context.Context, caller shared.Identity, filter ListUsersFilter) (shared.Paginated[UserDTO], error) {
	if err := caller.RequireAdmin(); err != nil {
		return shared.Paginated[UserDTO]{}, err
	}
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return shared.Paginated[UserDTO]{}, err
	}
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = toUserDTO(&users[i])
	}
	return shared.Paginate(out, shared.Page{Page: filter.Page, PageSize: filter.PageSize}), nil
}

// GetByID returns one user. Admins may read anyone; users only themselves.
func (s *UserService) GetByID(ctx context.Context, caller shared.Identity, id uuid.UUID) (*UserDTO, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && caller.UserID != id {
		return nil, shared.ErrForbidden
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func toUserDTO(u *identity.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Mobile:     u.Mobile,
		City:       u.City,
		Clinic:     u.Clinic,
		Speciality: u.Speciality,
		Role:       string(u.Role),
		CreatedAt:  u.CreatedAt,
	}
}
