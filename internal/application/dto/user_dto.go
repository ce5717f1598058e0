package dto

import "time"

// LoginRequest body de POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token Bearer y datos del usuario.
type LoginResponse struct {
	Token               string       `json:"token"`
	ForcePasswordChange bool         `json:"force_password_change"`
	User                UserResponse `json:"user"`
}

// ChangePasswordRequest body de POST /api/auth/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	Role                string    `json:"role"`
	ForcePasswordChange bool      `json:"force_password_change"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	Email               string    `json:"email"`
	CreatedAt           time.Time `json:"created_at"`
}

// UpdateProfileRequest body de PUT /api/settings.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Phone string `json:"phone" validate:"max=30"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
}
