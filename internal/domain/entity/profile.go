package entity

import "time"

// Roles válidos para Profile.
const (
	RoleOwner    = "owner"
	RoleCustomer = "customer"
)

// ValidRole indica si r es un rol conocido.
func ValidRole(r string) bool {
	return r == RoleOwner || r == RoleCustomer
}

// Profile es la identidad de aplicación asociada a un User (uno a uno).
// Role no cambia después de la creación.
type Profile struct {
	ID          string
	UserID      string
	Username    string // desnormalizado desde users para respuestas
	Email       string
	Role        string
	ContactInfo string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwner / IsCustomer atajos de rol.
func (p *Profile) IsOwner() bool    { return p != nil && p.Role == RoleOwner }
func (p *Profile) IsCustomer() bool { return p != nil && p.Role == RoleCustomer }
