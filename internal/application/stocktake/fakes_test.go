package stocktake_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
	domstocktake "github.com/jhoicas/conteo-api/internal/domain/stocktake"
)

// Fakes en memoria de los puertos de persistencia. Replican los contratos que
// documentan las interfaces (unicidad de sesión activa, idempotencia de
// aprobación) sin tocar PostgreSQL.

// ────────────────────────────── sesiones ──────────────────────────────

type fakeSessionRepo struct {
	sessions map[string]*entity.StockTakeSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.StockTakeSession)}
}

func (f *fakeSessionRepo) Create(s *entity.StockTakeSession) error {
	for _, existing := range f.sessions {
		if existing.BranchID == s.BranchID && existing.Status == entity.SessionStatusActive {
			return domain.ErrSessionExists
		}
	}
	copied := *s
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeSessionRepo) GetByID(id string) (*entity.StockTakeSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionRepo) GetByIDForUpdate(id string) (*entity.StockTakeSession, error) {
	return f.GetByID(id)
}

func (f *fakeSessionRepo) GetActiveByBranch(branchID string) (*entity.StockTakeSession, error) {
	for _, s := range f.sessions {
		if s.BranchID == branchID && s.Status == entity.SessionStatusActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) Finish(s *entity.StockTakeSession) error {
	copied := *s
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeSessionRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.StockTakeSession, error) {
	var out []*entity.StockTakeSession
	for _, s := range f.sessions {
		if s.BranchID == branchID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

// ────────────────────────────── conteos ──────────────────────────────

type fakeEntryRepo struct {
	entries map[string]*entity.ItemCountEntry
	order   []string
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]*entity.ItemCountEntry)}
}

func (f *fakeEntryRepo) Create(e *entity.ItemCountEntry) error {
	for _, existing := range f.entries {
		if existing.SessionID == e.SessionID && existing.ItemID == e.ItemID &&
			existing.UnitName == e.UnitName && batchKey(existing.BatchNumber) == batchKey(e.BatchNumber) {
			return domain.ErrConflict
		}
	}
	copied := *e
	f.entries[e.ID] = &copied
	f.order = append(f.order, e.ID)
	return nil
}

func batchKey(b *string) string {
	if b == nil {
		return ""
	}
	return *b
}

func (f *fakeEntryRepo) GetByID(id string) (*entity.ItemCountEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEntryRepo) Update(e *entity.ItemCountEntry) error {
	if _, ok := f.entries[e.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *e
	f.entries[e.ID] = &copied
	return nil
}

func (f *fakeEntryRepo) Delete(id string) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeEntryRepo) list(match func(*entity.ItemCountEntry) bool) []*entity.ItemCountEntry {
	var out []*entity.ItemCountEntry
	for _, id := range f.order {
		e, ok := f.entries[id]
		if !ok || !match(e) {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out
}

func (f *fakeEntryRepo) ListBySession(sessionID string) ([]*entity.ItemCountEntry, error) {
	return f.list(func(e *entity.ItemCountEntry) bool { return e.SessionID == sessionID }), nil
}

func (f *fakeEntryRepo) ListByShelf(sessionID, shelf string) ([]*entity.ItemCountEntry, error) {
	return f.list(func(e *entity.ItemCountEntry) bool {
		return e.SessionID == sessionID && e.ShelfLocation == shelf
	}), nil
}

func (f *fakeEntryRepo) ListByUser(sessionID, userID string) ([]*entity.ItemCountEntry, error) {
	return f.list(func(e *entity.ItemCountEntry) bool {
		return e.SessionID == sessionID && e.CountedBy == userID
	}), nil
}

func (f *fakeEntryRepo) DeleteBySession(sessionID string) (int, error) {
	deleted := 0
	for id, e := range f.entries {
		if e.SessionID == sessionID {
			delete(f.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeEntryRepo) ApproveShelf(sessionID, shelf, verifierID string, at time.Time) (int, error) {
	n := 0
	for _, e := range f.entries {
		if e.SessionID == sessionID && e.ShelfLocation == shelf && e.VerificationStatus == entity.VerificationPending {
			e.VerificationStatus = entity.VerificationApproved
			e.VerifiedBy = &verifierID
			e.VerifiedAt = &at
			n++
		}
	}
	return n, nil
}

func (f *fakeEntryRepo) RejectShelf(sessionID, shelf, verifierID, reason string, at time.Time) (int, error) {
	n := 0
	for _, e := range f.entries {
		if e.SessionID == sessionID && e.ShelfLocation == shelf && e.VerificationStatus != entity.VerificationApproved {
			e.VerificationStatus = entity.VerificationRejected
			e.RejectionReason = &reason
			e.VerifiedBy = &verifierID
			e.VerifiedAt = &at
			n++
		}
	}
	return n, nil
}

func (f *fakeEntryRepo) DistinctItems(sessionID string) (int, error) {
	seen := make(map[string]bool)
	for _, e := range f.entries {
		if e.SessionID == sessionID {
			seen[e.ItemID] = true
		}
	}
	return len(seen), nil
}

// ────────────────────────────── estantes ──────────────────────────────

type fakeShelfRepo struct {
	shelves []*entity.Shelf
}

func (f *fakeShelfRepo) Register(s *entity.Shelf) error {
	key := domstocktake.NormalizeShelfKey(s.Name)
	for _, existing := range f.shelves {
		if existing.SessionID == s.SessionID && domstocktake.NormalizeShelfKey(existing.Name) == key {
			return domain.ErrDuplicateShelf
		}
	}
	copied := *s
	f.shelves = append(f.shelves, &copied)
	return nil
}

func (f *fakeShelfRepo) ListBySession(sessionID string) ([]*entity.Shelf, error) {
	var out []*entity.Shelf
	for _, s := range f.shelves {
		if s.SessionID == sessionID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeShelfRepo) DeleteBySession(sessionID string) error {
	kept := f.shelves[:0]
	for _, s := range f.shelves {
		if s.SessionID != sessionID {
			kept = append(kept, s)
		}
	}
	f.shelves = kept
	return nil
}

// ────────────────────────────── catálogo ──────────────────────────────

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func newFakeItemRepo(items ...*entity.Item) *fakeItemRepo {
	f := &fakeItemRepo{items: make(map[string]*entity.Item)}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return it, nil
}

func (f *fakeItemRepo) Search(query, companyID, branchID string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	q := strings.ToLower(query)
	for _, it := range f.items {
		if strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(strings.ToLower(it.SKU), q) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) HasTransactions(itemID, branchID string) (bool, error) {
	return false, nil
}

func (f *fakeItemRepo) CountByBranch(branchID string) (int, error) {
	return len(f.items), nil
}

// ────────────────────────────── stock ──────────────────────────────

type fakeStockRepo struct {
	stock map[string]*entity.Stock
}

func newFakeStockRepo(rows ...*entity.Stock) *fakeStockRepo {
	f := &fakeStockRepo{stock: make(map[string]*entity.Stock)}
	for _, s := range rows {
		f.stock[s.ItemID+"|"+s.BranchID] = s
	}
	return f
}

func (f *fakeStockRepo) Get(itemID, branchID string) (*entity.Stock, error) {
	s, ok := f.stock[itemID+"|"+branchID]
	if !ok {
		return &entity.Stock{ItemID: itemID, BranchID: branchID}, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStockRepo) GetForUpdate(itemID, branchID string) (*entity.Stock, error) {
	return f.Get(itemID, branchID)
}

func (f *fakeStockRepo) Upsert(s *entity.Stock) error {
	copied := *s
	f.stock[s.ItemID+"|"+s.BranchID] = &copied
	return nil
}

// ────────────────────────────── movimientos ──────────────────────────────

type fakeMovementRepo struct {
	movements []*entity.InventoryMovement
}

func (f *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	copied := *m
	f.movements = append(f.movements, &copied)
	return nil
}

func (f *fakeMovementRepo) ListBySession(sessionID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range f.movements {
		if m.TransactionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ────────────────────────────── sucursales ──────────────────────────────

type fakeBranchRepo struct {
	branches map[string]*entity.Branch
}

func newFakeBranchRepo(branches ...*entity.Branch) *fakeBranchRepo {
	f := &fakeBranchRepo{branches: make(map[string]*entity.Branch)}
	for _, b := range branches {
		f.branches[b.ID] = b
	}
	return f
}

func (f *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	b, ok := f.branches[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (f *fakeBranchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range f.branches {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

// ────────────────────────────── borradores ──────────────────────────────

type fakeDraftRepo struct {
	summaries map[string]entity.DraftSummary
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{summaries: make(map[string]entity.DraftSummary)}
}

func (f *fakeDraftRepo) CountDrafts(branchID string) (entity.DraftSummary, error) {
	s, ok := f.summaries[branchID]
	if !ok {
		return entity.DraftSummary{BranchID: branchID}, nil
	}
	return s, nil
}

// ────────────────────────────── usuarios ──────────────────────────────

type fakeUserRepo struct {
	names map[string]string
}

func (f *fakeUserRepo) Create(u *entity.User) error { return nil }

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) { return nil, nil }

func (f *fakeUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) { return nil, nil }

func (f *fakeUserRepo) DisplayName(id string) (string, error) {
	if f.names == nil {
		return "", nil
	}
	return f.names[id], nil
}

// ────────────────────────────── tx runner ──────────────────────────────

// fakeTxRunner ejecuta la función directamente sobre los fakes; la atomicidad
// real la cubren los tests de integración del paquete postgres.
type fakeTxRunner struct {
	sessions *fakeSessionRepo
	entries  *fakeEntryRepo
	shelves  *fakeShelfRepo
	stock    *fakeStockRepo
	moves    *fakeMovementRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.SessionRepository,
	repository.CountEntryRepository,
	repository.ShelfRepository,
	repository.StockRepository,
	repository.InventoryMovementRepository,
) error) error {
	return fn(f.sessions, f.entries, f.shelves, f.stock, f.moves)
}
