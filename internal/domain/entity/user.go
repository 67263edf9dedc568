package entity

import "time"

// User es la identidad de autenticación (credenciales). El rol vive en Profile.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
