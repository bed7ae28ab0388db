package entity

import "time"

// Shelf estante: partición nombrada del trabajo de una sesión. No es una fila
// independiente con estado propio: su estado de verificación se deriva siempre
// de sus conteos. El nombre es único (case-insensitive) dentro de la sesión.
type Shelf struct {
	SessionID          string
	Name               string
	ItemCount          int
	VerificationStatus string // derivado: PENDING, APPROVED, REJECTED
	OpenedBy           string
	OpenedAt           time.Time
}
