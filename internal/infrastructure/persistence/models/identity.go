package models

import (
	"github.com/catalogue/backend/internal/domain/identity"
	"github.com/catalogue/backend/internal/domain/shared"
)

// UserModel is the persistence model for users. Rows are written by the
// auth service; this service reads them.
type UserModel struct {
	BaseModel
	Name       string `gorm:"type:varchar(200);not null;index"`
	Email      string `gorm:"type:varchar(255);uniqueIndex"`
	Mobile     string `gorm:"type:varchar(32)"`
	City       string `gorm:"type:varchar(100);index"`
	Clinic     string `gorm:"type:varchar(200)"`
	Speciality string `gorm:"type:varchar(200)"`
	Role       string `gorm:"type:varchar(20);not null;default:'user'"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Mobile:     m.Mobile,
		City:       m.City,
		Clinic:     m.Clinic,
		Speciality: m.Speciality,
		Role:       shared.Role(m.Role),
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Name:       u.Name,
		Email:      u.Email,
		Mobile:     u.Mobile,
		City:       u.City,
		Clinic:     u.Clinic,
		Speciality: u.Speciality,
		Role:       string(u.Role),
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}
