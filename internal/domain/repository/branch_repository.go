package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// BranchRepository puerto de lectura de sucursales (el CRUD de sucursales es
// de otro módulo; aquí solo se valida existencia y pertenencia).
type BranchRepository interface {
	GetByID(id string) (*entity.Branch, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Branch, error)
}
