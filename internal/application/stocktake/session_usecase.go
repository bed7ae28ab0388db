package stocktake

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
	domstocktake "github.com/jhoicas/conteo-api/internal/domain/stocktake"
	"github.com/jhoicas/conteo-api/pkg/logger"
)

// SessionUseCase coordinador de sesiones: dueño de la máquina de estados por
// sucursal (sin sesión → ACTIVE → COMPLETED/CANCELLED), de la puerta de
// borradores que bloquea el inicio y de la reconciliación al completar.
type SessionUseCase struct {
	txRunner    TxRunner
	sessionRepo repository.SessionRepository
	branchRepo  repository.BranchRepository
	draftRepo   repository.DraftDocumentRepository
	movRepo     repository.InventoryMovementRepository
	locks       repository.LockRegistry
	log         *logger.Logger
}

// NewSessionUseCase construye el coordinador.
func NewSessionUseCase(
	txRunner TxRunner,
	sessionRepo repository.SessionRepository,
	branchRepo repository.BranchRepository,
	draftRepo repository.DraftDocumentRepository,
	movRepo repository.InventoryMovementRepository,
	locks repository.LockRegistry,
	log *logger.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		txRunner:    txRunner,
		sessionRepo: sessionRepo,
		branchRepo:  branchRepo,
		draftRepo:   draftRepo,
		movRepo:     movRepo,
		locks:       locks,
		log:         log,
	}
}

// CompletionSummary resumen de cierre de una sesión completada.
type CompletionSummary struct {
	ItemsUpdated int
	TotalCounts  int
	Warnings     []string
}

// Start inicia una sesión de conteo para la sucursal. Precondiciones: capacidad
// de admin, sucursal sin sesión no terminal y sin documentos en borrador.
// La unicidad de sesión la garantiza el repositorio (índice único parcial),
// no el cliente: dos admins simultáneos no pueden abrir dos sesiones.
func (uc *SessionUseCase) Start(ctx context.Context, branchID, adminUserID string, cap domstocktake.Capability) (*entity.StockTakeSession, error) {
	if !cap.CanStartSession() {
		return nil, domain.ErrForbidden
	}
	if branchID == "" || adminUserID == "" {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}

	// Puerta de borradores: todos los documentos deben finalizarse o borrarse
	// antes de congelar la sucursal para contar.
	drafts, err := uc.draftRepo.CountDrafts(branchID)
	if err != nil {
		return nil, err
	}
	if !drafts.Empty() {
		return nil, &domain.DraftsBlockingError{
			SalesInvoices:    drafts.SalesInvoices,
			PurchaseInvoices: drafts.PurchaseInvoices,
			CreditNotes:      drafts.CreditNotes,
		}
	}

	session := &entity.StockTakeSession{
		ID:        uuid.New().String(),
		BranchID:  branchID,
		Status:    entity.SessionStatusActive,
		StartedBy: adminUserID,
		StartedAt: time.Now(),
	}
	if err := uc.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	uc.log.Session(branchID, session.ID).Info().
		Str("started_by", adminUserID).
		Msg("sesión de conteo iniciada")
	return session, nil
}

// Active devuelve la sesión ACTIVE de la sucursal, o ErrNotFound si no hay.
func (uc *SessionUseCase) Active(ctx context.Context, branchID string) (*entity.StockTakeSession, error) {
	session, err := uc.sessionRepo.GetActiveByBranch(branchID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// History sesiones pasadas de la sucursal, más recientes primero. Las
// sesiones terminales se conservan con su resumen para auditoría.
func (uc *SessionUseCase) History(ctx context.Context, branchID string, limit, offset int) ([]*entity.StockTakeSession, error) {
	if branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.sessionRepo.ListByBranch(branchID, limit, offset)
}

// Movements ajustes de inventario que produjo la reconciliación de la sesión
// (auditoría del cierre; vacío si la sesión no se ha completado).
func (uc *SessionUseCase) Movements(ctx context.Context, sessionID string) ([]*entity.InventoryMovement, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movRepo.ListBySession(sessionID)
}

// Cancel aborta la sesión: borra todos los conteos y bloqueos sin importar su
// estado y deja el inventario intacto. Es el único camino de rollback completo;
// no existe cancelación parcial.
func (uc *SessionUseCase) Cancel(ctx context.Context, sessionID, adminUserID string, cap domstocktake.Capability) (int, error) {
	if !cap.CanStartSession() {
		return 0, domain.ErrForbidden
	}
	var deleted int
	err := uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		entryRepo repository.CountEntryRepository,
		shelfRepo repository.ShelfRepository,
		_ repository.StockRepository,
		_ repository.InventoryMovementRepository,
	) error {
		session, err := sessionRepo.GetByIDForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if !session.IsActive() {
			return domain.ErrSessionNotActive
		}
		deleted, err = entryRepo.DeleteBySession(sessionID)
		if err != nil {
			return err
		}
		if err := shelfRepo.DeleteBySession(sessionID); err != nil {
			return err
		}
		now := time.Now()
		session.Status = entity.SessionStatusCancelled
		session.EndedBy = &adminUserID
		session.EndedAt = &now
		return sessionRepo.Finish(session)
	})
	if err != nil {
		return 0, err
	}
	uc.locks.ReleaseSession(sessionID)
	uc.log.Warn().
		Str("session_id", sessionID).
		Int("counts_deleted", deleted).
		Str("cancelled_by", adminUserID).
		Msg("sesión de conteo cancelada")
	return deleted, nil
}

// Complete cierra la sesión y reconcilia: aplica una corrección de stock por
// (artículo, lote) de los estantes APPROVED, con delta = contado − snapshot.
// Los estantes no aprobados se omiten, cada uno con una advertencia, para que
// el admin sepa que la reconciliación fue parcial: el stock no revisado nunca
// se sobreescribe en silencio. Pasa único y atómico de leer-y-aplicar:
// aprobaciones tardías que compitan con Complete no entran.
func (uc *SessionUseCase) Complete(ctx context.Context, sessionID, adminUserID string, cap domstocktake.Capability) (*CompletionSummary, error) {
	if !cap.CanStartSession() {
		return nil, domain.ErrForbidden
	}
	summary := &CompletionSummary{}
	var branchID string
	err := uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		entryRepo repository.CountEntryRepository,
		_ repository.ShelfRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		session, err := sessionRepo.GetByIDForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if !session.IsActive() {
			return domain.ErrSessionNotActive
		}
		branchID = session.BranchID

		entries, err := entryRepo.ListBySession(sessionID)
		if err != nil {
			return err
		}
		summary.TotalCounts = len(entries)

		byShelf := groupByShelf(entries)
		now := time.Now()
		var approved []*entity.ItemCountEntry
		for _, shelf := range sortedShelfNames(byShelf) {
			shelfEntries := byShelf[shelf]
			if domstocktake.DeriveShelfStatus(shelfEntries) != entity.VerificationApproved {
				summary.Warnings = append(summary.Warnings,
					fmt.Sprintf("estante %q omitido: verificación pendiente, inventario no ajustado", shelf))
				continue
			}
			approved = append(approved, shelfEntries...)
		}
		applied, err := uc.applyAdjustments(session, approved, stockRepo, movRepo, adminUserID, now)
		if err != nil {
			return err
		}
		summary.ItemsUpdated = applied

		session.Status = entity.SessionStatusCompleted
		session.EndedBy = &adminUserID
		session.EndedAt = &now
		session.ItemsUpdated = summary.ItemsUpdated
		session.TotalCounts = summary.TotalCounts
		session.Warnings = summary.Warnings
		return sessionRepo.Finish(session)
	})
	if err != nil {
		return nil, err
	}
	uc.locks.ReleaseSession(sessionID)
	uc.log.Session(branchID, sessionID).Info().
		Int("items_updated", summary.ItemsUpdated).
		Int("total_counts", summary.TotalCounts).
		Int("warnings", len(summary.Warnings)).
		Msg("sesión de conteo completada")
	return summary, nil
}

// applyAdjustments aplica las correcciones de los conteos aprobados: un único
// movimiento por (artículo, lote). El conteo físico total de un artículo puede
// repartirse en varias entradas (unidades mixtas, varios estantes), así que
// primero se suma todo lo contado y el snapshot del sistema se resta UNA sola
// vez: delta = Σ contado − snapshot. Las entradas del mismo artículo comparten
// el snapshot porque la sucursal está congelada durante la sesión; se toma el
// de la primera. Bloquea la fila de stock (SELECT FOR UPDATE) antes de aplicar.
func (uc *SessionUseCase) applyAdjustments(
	session *entity.StockTakeSession,
	entries []*entity.ItemCountEntry,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
	adminUserID string,
	now time.Time,
) (int, error) {
	type itemBatch struct {
		itemID string
		batch  string
	}
	totals := make(map[itemBatch]*adjustment)
	var order []itemBatch
	for _, e := range entries {
		key := itemBatch{itemID: e.ItemID}
		if e.BatchNumber != nil {
			key.batch = *e.BatchNumber
		}
		adj, ok := totals[key]
		if !ok {
			adj = &adjustment{batch: e.BatchNumber, snapshot: e.SystemQuantity}
			totals[key] = adj
			order = append(order, key)
		}
		adj.counted = adj.counted.Add(e.CountedQuantity)
	}

	applied := 0
	for _, key := range order {
		adj := totals[key]
		delta := adj.counted.Sub(adj.snapshot)
		if delta.IsZero() {
			continue // el conteo coincide con el sistema, nada que corregir
		}
		stock, err := stockRepo.GetForUpdate(key.itemID, session.BranchID)
		if err != nil {
			return applied, err
		}
		stock.Quantity = stock.Quantity.Add(delta)
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return applied, err
		}
		mov := &entity.InventoryMovement{
			ID:            uuid.New().String(),
			TransactionID: session.ID,
			ItemID:        key.itemID,
			BranchID:      session.BranchID,
			BatchNumber:   adj.batch,
			Type:          entity.MovementTypeAdjustment,
			Quantity:      delta,
			Date:          now,
			CreatedAt:     now,
			CreatedBy:     adminUserID,
		}
		if err := movRepo.Create(mov); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

type adjustment struct {
	batch    *string
	counted  decimal.Decimal
	snapshot decimal.Decimal
}

func groupByShelf(entries []*entity.ItemCountEntry) map[string][]*entity.ItemCountEntry {
	byShelf := make(map[string][]*entity.ItemCountEntry)
	for _, e := range entries {
		byShelf[e.ShelfLocation] = append(byShelf[e.ShelfLocation], e)
	}
	return byShelf
}

// sortedShelfNames orden estable para advertencias y ajustes reproducibles.
func sortedShelfNames(byShelf map[string][]*entity.ItemCountEntry) []string {
	names := make([]string, 0, len(byShelf))
	for name := range byShelf {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
