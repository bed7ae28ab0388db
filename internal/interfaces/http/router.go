package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/auth"
	"github.com/jhoicas/conteo-api/internal/application/stocktake"
	domstocktake "github.com/jhoicas/conteo-api/internal/domain/stocktake"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	SessionUC      *stocktake.SessionUseCase
	CountUC        *stocktake.CountUseCase
	ShelfUC        *stocktake.ShelfUseCase
	VerificationUC *stocktake.VerificationUseCase
	ProgressUC     *stocktake.ProgressUseCase
	LockUC         *stocktake.LockUseCase
	ItemUC         *stocktake.ItemUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sucursales de la empresa del token (selector del cliente)
	protected.Get("/branches", authHandler.Branches)

	// Catálogo de artículos (protegido, solo lectura)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.Search)
	items.Get("/:id", itemHandler.GetByID)

	// Conteo físico (protegido)
	stockTake := protected.Group("/stock-take")

	// Guardas por capacidad: lectura para cualquier rol autenticado, mutaciones
	// según el predicado del grupo. Los casos de uso vuelven a validar.
	adminOnly := RequireCapability(domstocktake.Capability.CanStartSession)
	verifierOnly := RequireCapability(domstocktake.Capability.CanVerify)
	counterOnly := RequireCapability(domstocktake.Capability.CanCount)

	sessions := stockTake.Group("/sessions")
	sessionHandler := NewSessionHandler(deps.SessionUC)
	sessions.Post("/", adminOnly, sessionHandler.Start)
	sessions.Get("/", sessionHandler.History)
	sessions.Get("/active", sessionHandler.Active)
	sessions.Get("/:id/movements", sessionHandler.Movements)
	sessions.Post("/:id/cancel", adminOnly, sessionHandler.Cancel)
	sessions.Post("/:id/complete", adminOnly, sessionHandler.Complete)

	counts := stockTake.Group("/counts")
	countHandler := NewCountHandler(deps.CountUC)
	counts.Post("/", counterOnly, countHandler.Save)
	counts.Get("/", countHandler.ListByShelf)
	counts.Get("/mine", countHandler.ListMine)
	counts.Put("/:id", counterOnly, countHandler.Update)
	counts.Delete("/:id", counterOnly, countHandler.Delete)

	shelves := stockTake.Group("/shelves")
	shelfHandler := NewShelfHandler(deps.ShelfUC, deps.VerificationUC)
	shelves.Post("/", counterOnly, shelfHandler.Open)
	shelves.Get("/", shelfHandler.List)
	shelves.Post("/approve", verifierOnly, shelfHandler.Approve)
	shelves.Post("/reject", verifierOnly, shelfHandler.Reject)

	locks := stockTake.Group("/locks")
	lockHandler := NewLockHandler(deps.LockUC)
	locks.Post("/", counterOnly, lockHandler.Acquire)
	locks.Get("/", lockHandler.List)
	locks.Post("/release", counterOnly, lockHandler.Release)

	progressHandler := NewProgressHandler(deps.ProgressUC)
	stockTake.Get("/progress", progressHandler.Get)
}
