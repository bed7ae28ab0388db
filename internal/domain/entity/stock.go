package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock existencia actual de un artículo en una sucursal (libro de inventario
// autoritativo). La reconciliación del conteo físico es el único camino por el
// que este núcleo lo muta.
type Stock struct {
	ItemID    string
	BranchID  string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
