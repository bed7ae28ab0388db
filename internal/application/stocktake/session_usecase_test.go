package stocktake_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conteo-api/internal/application/stocktake"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	domstocktake "github.com/jhoicas/conteo-api/internal/domain/stocktake"
	"github.com/jhoicas/conteo-api/internal/infrastructure/memory"
	"github.com/jhoicas/conteo-api/pkg/logger"
)

const (
	testBranch = "branch-1"
	testAdmin  = "admin-1"
)

// env cablea los casos de uso contra fakes y un registro de bloqueos real.
type env struct {
	sessions *fakeSessionRepo
	entries  *fakeEntryRepo
	shelves  *fakeShelfRepo
	stock    *fakeStockRepo
	moves    *fakeMovementRepo
	drafts   *fakeDraftRepo
	items    *fakeItemRepo
	locks    *memory.LockRegistry

	sessionUC      *stocktake.SessionUseCase
	countUC        *stocktake.CountUseCase
	verificationUC *stocktake.VerificationUseCase
	shelfUC        *stocktake.ShelfUseCase
	progressUC     *stocktake.ProgressUseCase
	lockUC         *stocktake.LockUseCase
}

func newEnv(items ...*entity.Item) *env {
	e := &env{
		sessions: newFakeSessionRepo(),
		entries:  newFakeEntryRepo(),
		shelves:  &fakeShelfRepo{},
		stock:    newFakeStockRepo(),
		moves:    &fakeMovementRepo{},
		drafts:   newFakeDraftRepo(),
		items:    newFakeItemRepo(items...),
		locks:    memory.NewLockRegistry(3 * time.Minute),
	}
	tx := &fakeTxRunner{
		sessions: e.sessions,
		entries:  e.entries,
		shelves:  e.shelves,
		stock:    e.stock,
		moves:    e.moves,
	}
	branches := newFakeBranchRepo(&entity.Branch{ID: testBranch, CompanyID: "co-1", Status: "active"})
	log := logger.New(logger.Config{Env: "production", Level: "error"})

	e.sessionUC = stocktake.NewSessionUseCase(tx, e.sessions, branches, e.drafts, e.moves, e.locks, log)
	e.countUC = stocktake.NewCountUseCase(e.sessions, e.entries, e.shelves, e.items, e.stock, e.locks)
	e.verificationUC = stocktake.NewVerificationUseCase(e.sessions, e.entries)
	e.shelfUC = stocktake.NewShelfUseCase(e.sessions, e.entries, e.shelves)
	e.progressUC = stocktake.NewProgressUseCase(e.sessions, e.entries, e.items)
	e.lockUC = stocktake.NewLockUseCase(e.sessions, &fakeUserRepo{names: map[string]string{"ana": "Ana"}}, e.locks)
	return e
}

func (e *env) startSession(t *testing.T) *entity.StockTakeSession {
	t.Helper()
	session, err := e.sessionUC.Start(context.Background(), testBranch, testAdmin, domstocktake.CapabilityAdmin)
	require.NoError(t, err)
	return session
}

func simpleItem(id string) *entity.Item {
	return &entity.Item{
		ID:          id,
		CompanyID:   "co-1",
		BranchID:    testBranch,
		SKU:         "SKU-" + id,
		Name:        "Artículo " + id,
		UnitMeasure: "unidad",
		Units: []entity.ItemUnit{
			{Name: "unidad", Multiplier: decimal.NewFromInt(1)},
			{Name: "caja", Multiplier: decimal.NewFromInt(10)},
		},
	}
}

// ────────────────────────────── Start ──────────────────────────────

func TestStart_CreaSesionActiva(t *testing.T) {
	e := newEnv()
	session := e.startSession(t)

	assert.Equal(t, entity.SessionStatusActive, session.Status)
	assert.Equal(t, testBranch, session.BranchID)
	assert.Equal(t, testAdmin, session.StartedBy)
	assert.NotEmpty(t, session.ID)
}

func TestStart_SoloAdmin(t *testing.T) {
	e := newEnv()
	for _, cap := range []domstocktake.Capability{
		domstocktake.CapabilityNone,
		domstocktake.CapabilityCounter,
		domstocktake.CapabilityVerifier,
	} {
		_, err := e.sessionUC.Start(context.Background(), testBranch, "user-1", cap)
		assert.ErrorIs(t, err, domain.ErrForbidden, "capacidad %s no debe iniciar sesiones", cap)
	}
}

func TestStart_BorradoresBloqueanConDesglose(t *testing.T) {
	e := newEnv()
	e.drafts.summaries[testBranch] = entity.DraftSummary{
		BranchID:         testBranch,
		SalesInvoices:    2,
		PurchaseInvoices: 1,
		CreditNotes:      3,
	}

	_, err := e.sessionUC.Start(context.Background(), testBranch, testAdmin, domstocktake.CapabilityAdmin)

	var blocking *domain.DraftsBlockingError
	require.True(t, errors.As(err, &blocking), "debe devolver el error tipado con el desglose")
	assert.Equal(t, 2, blocking.SalesInvoices)
	assert.Equal(t, 1, blocking.PurchaseInvoices)
	assert.Equal(t, 3, blocking.CreditNotes)
	assert.Equal(t, 6, blocking.Total())
}

func TestStart_UnaSolaSesionActivaPorSucursal(t *testing.T) {
	e := newEnv()
	e.startSession(t)

	_, err := e.sessionUC.Start(context.Background(), testBranch, testAdmin, domstocktake.CapabilityAdmin)
	assert.ErrorIs(t, err, domain.ErrSessionExists)
}

func TestStart_SucursalInexistente(t *testing.T) {
	e := newEnv()
	_, err := e.sessionUC.Start(context.Background(), "branch-fantasma", testAdmin, domstocktake.CapabilityAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ────────────────────────────── Active ──────────────────────────────

func TestActive_DevuelveLaSesionVigente(t *testing.T) {
	e := newEnv()
	started := e.startSession(t)

	active, err := e.sessionUC.Active(context.Background(), testBranch)
	require.NoError(t, err)
	assert.Equal(t, started.ID, active.ID)

	_, err = e.sessionUC.Active(context.Background(), "otra-sucursal")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistory_ConservaSesionesTerminales(t *testing.T) {
	e := newEnv()
	first := e.startSession(t)
	_, err := e.sessionUC.Cancel(context.Background(), first.ID, testAdmin, domstocktake.CapabilityAdmin)
	require.NoError(t, err)
	second := e.startSession(t)

	history, err := e.sessionUC.History(context.Background(), testBranch, 20, 0)
	require.NoError(t, err)
	require.Len(t, history, 2, "las sesiones canceladas siguen en el historial")

	ids := []string{history[0].ID, history[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)

	_, err = e.sessionUC.History(context.Background(), "", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ────────────────────────────── Cancel ──────────────────────────────

func TestCancel_BorraTodoYDejaStockIntacto(t *testing.T) {
	item := simpleItem("item-1")
	e := newEnv(item)
	e.stock.Upsert(&entity.Stock{ItemID: item.ID, BranchID: testBranch, Quantity: decimal.NewFromInt(50)})
	session := e.startSession(t)

	item2 := simpleItem("item-2")
	e.items.items[item2.ID] = item2
	saves := []stocktake.SaveCountInput{
		{SessionID: session.ID, ItemID: item.ID, ShelfLocation: "A1", UnitName: "unidad", Quantity: decimal.NewFromInt(1), CountedBy: "ana"},
		{SessionID: session.ID, ItemID: item.ID, ShelfLocation: "A2", UnitName: "caja", Quantity: decimal.NewFromInt(2), CountedBy: "ana"},
		{SessionID: session.ID, ItemID: item2.ID, ShelfLocation: "A3", UnitName: "unidad", Quantity: decimal.NewFromInt(7), CountedBy: "beto"},
	}
	for _, in := range saves {
		_, err := e.countUC.SaveCount(context.Background(), in)
		require.NoError(t, err)
	}
	// Uno de los conteos queda aprobado: cancelar borra igual.
	_, err := e.verificationUC.ApproveShelf(context.Background(), testBranch, "A1", "vera", domstocktake.CapabilityVerifier)
	require.NoError(t, err)

	_, err = e.lockUC.Acquire(context.Background(), session.ID, item.ID, "ana")
	require.NoError(t, err)

	deleted, err := e.sessionUC.Cancel(context.Background(), session.ID, testAdmin, domstocktake.CapabilityAdmin)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted, "deben borrarse los tres conteos sin importar su estado")

	remaining, _ := e.entries.ListBySession(session.ID)
	assert.Empty(t, remaining)
	assert.Empty(t, e.locks.List(session.ID), "cancelar descarta los bloqueos")
	assert.Empty(t, e.moves.movements, "cancelar jamás genera ajustes de inventario")

	stock, _ := e.stock.Get(item.ID, testBranch)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(50)), "el stock queda intacto")

	closed, _ := e.sessions.GetByID(session.ID)
	assert.Equal(t, entity.SessionStatusCancelled, closed.Status)

	// Tras cancelar se puede abrir una sesión nueva en la misma sucursal.
	_, err = e.sessionUC.Start(context.Background(), testBranch, testAdmin, domstocktake.CapabilityAdmin)
	assert.NoError(t, err)
}

func TestCancel_SesionYaTerminada(t *testing.T) {
	e := newEnv()
	session := e.startSession(t)
	_, err := e.sessionUC.Cancel(context.Background(), session.ID, testAdmin, domstocktake.CapabilityAdmin)
	require.NoError(t, err)

	_, err = e.sessionUC.Cancel(context.Background(), session.ID, testAdmin, domstocktake.CapabilityAdmin)
	assert.ErrorIs(t, err, domain.ErrSessionNotActive)
}

// ────────────────────────────── Complete ──────────────────────────────

func TestComplete_AplicaSoloEstantesAprobadosConAdvertencias(t *testing.T) {
	itemA := simpleItem("item-a")
	itemB := simpleItem("item-b")
	e := newEnv(itemA, itemB)
	e.stock.Upsert(&entity.Stock{ItemID: itemA.ID, BranchID: testBranch, Quantity: decimal.NewFromInt(100)})
	e.stock.Upsert(&entity.Stock{ItemID: itemB.ID, BranchID: testBranch, Quantity: decimal.NewFromInt(40)})
	session := e.startSession(t)

	// Estante A1: contado 90 contra 100 del sistema (faltante de 10).
	_, err := e.countUC.SaveCount(context.Background(), stocktake.SaveCountInput{
		SessionID: session.ID, ItemID: itemA.ID, ShelfLocation: "A1",
		UnitName: "unidad", Quantity: decimal.NewFromInt(90), CountedBy: "ana",
	})
	require.NoError(t, err)

	// Estante B1: contado 55 contra 40, pero queda sin verificar.
	_, err = e.countUC.SaveCount(context.Background(), stocktake.SaveCountInput{
		SessionID: session.ID, ItemID: itemB.ID, ShelfLocation: "B1",
		UnitName: "unidad", Quantity: decimal.NewFromInt(55), CountedBy: "beto",
	})
	require.NoError(t, err)

	_, err = e.verificationUC.ApproveShelf(context.Background(), testBranch, "A1", "vera", domstocktake.CapabilityVerifier)
	require.NoError(t, err)

	summary, err := e.sessionUC.Complete(context.Background(), session.ID, testAdmin, domstocktake.CapabilityAdmin)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalCounts)
	assert.Equal(t, 1, summary.ItemsUpdated, "solo el estante aprobado ajusta stock")
	require.Len(t, summary.Warnings, 1, "el estante sin verificar genera una advertencia")
	assert.Contains(t, summary.Warnings[0], "B1")

	stockA, _ := e.stock.Get(itemA.ID, testBranch)
	assert.True(t, stockA.Quantity.Equal(decimal.NewFromInt(90)), "100 + (90-100) = 90")

	stockB, _ := e.stock.Get(itemB.ID, testBranch)
	assert.True(t, stockB.Quantity.Equal(decimal.NewFromInt(40)), "el estante omitido no toca stock")

	movements, _ := e.moves.ListBySession(session.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, movements[0].Type)
	assert.Equal(t, session.ID, movements[0].TransactionID)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-10)))

	closed, _ := e.sessions.GetByID(session.ID)
	assert.Equal(t, entity.SessionStatusCompleted, closed.Status)
	assert.Empty(t, e.locks.List(session.ID))

	// La consulta de auditoría expone los mismos ajustes.
	audited, err := e.sessionUC.Movements(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, audited, 1)
	assert.True(t, audited[0].Quantity.Equal(decimal.NewFromInt(-10)))

	_, err = e.sessionUC.Movements(context.Background(), "sesion-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComplete_DeltaCeroNoGeneraMovimiento(t *testing.T) {
	item := simpleItem("item-1")
	e := newEnv(item)
	e.stock.Upsert(&entity.Stock{ItemID: item.ID, BranchID: testBranch, Quantity: decimal.NewFromInt(30)})
	session := e.startSession(t)

	_, err := e.countUC.SaveCount(context.Background(), stocktake.SaveCountInput{
		SessionID: session.ID, ItemID: item.ID, ShelfLocation: "A1",
		UnitName: "unidad", Quantity: decimal.NewFromInt(30), CountedBy: "ana",
	})
	require.NoError(t, err)
	_, err = e.verificationUC.ApproveShelf(context.Background(), testBranch, "A1", "vera", domstocktake.CapabilityVerifier)
	require.NoError(t, err)

	summary, err := e.sessionUC.Complete(context.Background(), session.ID, testAdmin, domstocktake.CapabilityAdmin)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ItemsUpdated)
	assert.Empty(t, e.moves.movements, "conteo igual al sistema no produce ajuste")
}

func TestComplete_AgregaVariasUnidadesDelMismoArticulo(t *testing.T) {
	item := simpleItem("item-1")
	e := newEnv(item)
	e.stock.Upsert(&entity.Stock{ItemID: item.ID, BranchID: testBranch, Quantity: decimal.NewFromInt(100)})
	session := e.startSession(t)

	// 5 unidades sueltas + 12 cajas de 10 = 125 contadas contra 100.
	// El snapshot del sistema se toma en cada conteo; la varianza agregada debe
	// computarse por artículo, no por fila.
	_, err := e.countUC.SaveCount(context.Background(), stocktake.SaveCountInput{
		SessionID: session.ID, ItemID: item.ID, ShelfLocation: "A1",
		UnitName: "unidad", Quantity: decimal.NewFromInt(5), CountedBy: "ana",
	})
	require.NoError(t, err)
	_, err = e.countUC.SaveCount(context.Background(), stocktake.SaveCountInput{
		SessionID: session.ID, ItemID: item.ID, ShelfLocation: "A1",
		UnitName: "caja", Quantity: decimal.NewFromInt(12), CountedBy: "ana",
	})
	require.NoError(t, err)

	_, err = e.verificationUC.ApproveShelf(context.Background(), testBranch, "A1", "vera", domstocktake.CapabilityVerifier)
	require.NoError(t, err)

	summary, err := e.sessionUC.Complete(context.Background(), session.ID, testAdmin, domstocktake.CapabilityAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemsUpdated, "un solo ajuste por (artículo, lote)")

	// Físico total = 5 + 120 = 125; el snapshot de 100 se resta una sola vez:
	// delta = 125 - 100 = +25.
	stock, _ := e.stock.Get(item.ID, testBranch)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(125)), "el contador halló 125 unidades físicas, obtenido %s", stock.Quantity)

	movements, _ := e.moves.ListBySession(session.ID)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(25)))
}

func TestComplete_ArticuloEnVariosEstantesRestaSnapshotUnaVez(t *testing.T) {
	item := simpleItem("item-1")
	e := newEnv(item)
	e.stock.Upsert(&entity.Stock{ItemID: item.ID, BranchID: testBranch, Quantity: decimal.NewFromInt(100)})
	session := e.startSession(t)

	// El mismo artículo repartido en dos estantes: 40 en A1 y 70 en B1.
	// Físico total 110; delta = 110 - 100 = +10, no (40-100)+(70-100).
	_, err := e.countUC.SaveCount(context.Background(), stocktake.SaveCountInput{
		SessionID: session.ID, ItemID: item.ID, ShelfLocation: "A1",
		UnitName: "unidad", Quantity: decimal.NewFromInt(40), CountedBy: "ana",
	})
	require.NoError(t, err)
	_, err = e.countUC.SaveCount(context.Background(), stocktake.SaveCountInput{
		SessionID: session.ID, ItemID: item.ID, ShelfLocation: "B1",
		UnitName: "unidad", Quantity: decimal.NewFromInt(70), CountedBy: "beto",
	})
	require.NoError(t, err)

	for _, shelf := range []string{"A1", "B1"} {
		_, err = e.verificationUC.ApproveShelf(context.Background(), testBranch, shelf, "vera", domstocktake.CapabilityVerifier)
		require.NoError(t, err)
	}

	summary, err := e.sessionUC.Complete(context.Background(), session.ID, testAdmin, domstocktake.CapabilityAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemsUpdated)

	stock, _ := e.stock.Get(item.ID, testBranch)
	assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(110)), "40 + 70 contados contra snapshot 100, obtenido %s", stock.Quantity)

	movements, _ := e.moves.ListBySession(session.ID)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(10)))
}

func TestComplete_SoloAdmin(t *testing.T) {
	e := newEnv()
	session := e.startSession(t)
	_, err := e.sessionUC.Complete(context.Background(), session.ID, "vera", domstocktake.CapabilityVerifier)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
