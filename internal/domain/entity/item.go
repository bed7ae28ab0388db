package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item artículo del catálogo maestro (colaborador externo: este núcleo lo
// consume, no lo administra). Las banderas de lote/vencimiento determinan
// qué campos son obligatorios al contar.
type Item struct {
	ID                     string
	CompanyID              string
	BranchID               string
	SKU                    string
	Name                   string
	UnitMeasure            string // unidad base
	RequiresBatchTracking  bool
	RequiresExpiryTracking bool
	Units                  []ItemUnit
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ItemUnit unidad de empaque de un artículo con su multiplicador a unidad base
// (ej. "caja" x10). La unidad base siempre tiene multiplicador 1.
type ItemUnit struct {
	Name       string
	Multiplier decimal.Decimal
}

// UnitMultiplier busca el multiplicador de una unidad. Devuelve false si la
// unidad no está definida para el artículo.
func (i *Item) UnitMultiplier(unitName string) (decimal.Decimal, bool) {
	for _, u := range i.Units {
		if u.Name == unitName {
			return u.Multiplier, true
		}
	}
	return decimal.Zero, false
}
