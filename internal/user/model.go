package user

import "time"

type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest payload of self registration.
// swagger:model RegisterRequest
type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required"       example:"Rina Putri"`
	Email    string `json:"email"    binding:"required,email" example:"rina@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"secret123"`
}

// LoginRequest payload of login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileRequest payload of partial profile update; empty fields are kept.
// swagger:model ProfileRequest
type ProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"    binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// AdminUserRequest payload of back-office user creation and update.
// swagger:model AdminUserRequest
type AdminUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"    binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role"     binding:"omitempty,oneof=admin customer"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// ResetPasswordRequest payload of an admin password reset.
// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}
