package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// ShelfRepository registro de estantes abiertos por sesión. El estado de
// verificación NO vive aquí (se deriva de los conteos); la tabla solo existe
// para validar la unicidad del nombre antes de que exista conteo alguno.
type ShelfRepository interface {
	// Register abre un estante. Devuelve domain.ErrDuplicateShelf si la clave
	// normalizada (case-insensitive) ya existe en la sesión.
	Register(shelf *entity.Shelf) error
	ListBySession(sessionID string) ([]*entity.Shelf, error)
	DeleteBySession(sessionID string) error
}
