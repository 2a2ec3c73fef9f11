package dto

import "time"

// RegisterRequest creates a dashboard account. Only admins may call it.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,oneof=admin hod teacher"`
	Department *int   `json:"department" validate:"omitempty,min=0,max=6"`
}

// LoginRequest authenticates a dashboard account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *int      `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthResponse carries a signed token and the authenticated account.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
