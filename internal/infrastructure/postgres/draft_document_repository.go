package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.DraftDocumentRepository = (*DraftDocumentRepo)(nil)

// DraftDocumentRepo consulta los documentos en borrador del módulo de
// ventas/compras. Solo lectura: este módulo nunca crea ni cierra borradores.
type DraftDocumentRepo struct {
	pool *pgxpool.Pool
}

// NewDraftDocumentRepository construye el adaptador de consulta de borradores.
func NewDraftDocumentRepository(pool *pgxpool.Pool) *DraftDocumentRepo {
	return &DraftDocumentRepo{pool: pool}
}

// CountDrafts cuenta documentos sin finalizar por tipo para una sucursal.
func (r *DraftDocumentRepo) CountDrafts(branchID string) (entity.DraftSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE doc_type = $2),
			COUNT(*) FILTER (WHERE doc_type = $3),
			COUNT(*) FILTER (WHERE doc_type = $4)
		FROM draft_documents
		WHERE branch_id = $1 AND status = 'DRAFT'`
	summary := entity.DraftSummary{BranchID: branchID}
	err := r.pool.QueryRow(context.Background(), query, branchID,
		entity.DraftTypeSalesInvoice, entity.DraftTypePurchaseInvoice, entity.DraftTypeCreditNote,
	).Scan(&summary.SalesInvoices, &summary.PurchaseInvoices, &summary.CreditNotes)
	if err != nil {
		return entity.DraftSummary{}, fmt.Errorf("count draft documents: %w", err)
	}
	return summary, nil
}
