package entity

import "time"

// Roles válidos para User. El rol se resuelve a una capacidad cerrada
// (Admin/Verifier/Counter) en el dominio de conteo; nunca se comparan
// substrings de rol en los casos de uso.
const (
	RoleAdmin       = "admin"
	RoleAuditor     = "auditor"
	RoleVerificador = "verificador"
	RoleContador    = "contador"
)

// User representa un usuario del sistema (pertenece a una Company y opera
// sobre una Branch).
type User struct {
	ID           string
	CompanyID    string
	BranchID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, auditor, verificador, contador
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
