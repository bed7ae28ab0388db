package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// DraftDocumentRepository puerta de borradores (colaborador de ventas/compras):
// cuenta los documentos sin finalizar que bloquean el inicio de una sesión.
type DraftDocumentRepository interface {
	CountDrafts(branchID string) (entity.DraftSummary, error)
}
