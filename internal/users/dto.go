package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/tienditahq/tiendita-backend/pkg/db/models"
	"github.com/tienditahq/tiendita-backend/pkg/enums"
)

// CreateUserDTO captures the fields needed to insert a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Role         enums.Role
}

// ToModel maps the DTO onto the persistence model.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Role:         d.Role,
		IsActive:     true,
	}
}

// UserDTO is the public user shape returned by the API.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// FromModel maps a persistence model to the public shape.
func FromModel(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
