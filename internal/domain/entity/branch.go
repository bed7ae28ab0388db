package entity

import "time"

// Branch sucursal de una empresa. El conteo físico siempre es por sucursal:
// la bandera de sesión activa es el único estado global compartido que
// condiciona el resto de operaciones.
type Branch struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
