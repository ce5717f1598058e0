package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User operador de la tienda.
type User struct {
	ID                  string
	Username            string
	PasswordHash        string // bcrypt
	Role                string
	ForcePasswordChange bool
	// Perfil visible en Ajustes; opcional.
	Name      string
	Phone     string
	Email     string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
