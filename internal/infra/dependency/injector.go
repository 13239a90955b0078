// Package dependency provides dependency injection for the application.
package dependency

import (
	"gorm.io/gorm"

	"github.com/ecovekt/backend/config"
	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/application/usecase/catalog"
	"github.com/ecovekt/backend/internal/application/usecase/statistics"
	"github.com/ecovekt/backend/internal/application/usecase/wasteentry"
	"github.com/ecovekt/backend/internal/infra/server/router"
	"github.com/ecovekt/backend/internal/integration/adapters"
	"github.com/ecovekt/backend/internal/integration/entrypoint/controller"
	"github.com/ecovekt/backend/internal/integration/entrypoint/middleware"
	"github.com/ecovekt/backend/internal/integration/kvstore"
	"github.com/ecovekt/backend/internal/integration/localstore"
	"github.com/ecovekt/backend/internal/integration/persistence"
)

// Options carries the infrastructure the injector cannot build itself.
type Options struct {
	// PendingKV holds every user's pending list; nil falls back to memory.
	PendingKV adapter.KeyValueStore
	// Clock defaults to the system clock.
	Clock adapter.Clock
	// DBHealthCheck and RedisHealthCheck feed the health endpoint.
	DBHealthCheck    func() bool
	RedisHealthCheck func() bool
}

// Injector holds all application dependencies.
type Injector struct {
	Config            *config.Config
	DB                *gorm.DB
	Router            *router.Router
	TokenService      adapter.TokenService
	SubmitRateLimiter *middleware.RateLimiter
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, opts Options) *Injector {
	clock := opts.Clock
	if clock == nil {
		clock = adapters.NewSystemClock()
	}
	pendingKV := opts.PendingKV
	if pendingKV == nil {
		pendingKV = kvstore.NewMemoryStore()
	}

	// Create repositories and adapters
	documentRepo := persistence.NewDocumentRepositoryWithClock(db, clock)
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	identity := adapters.NewContextIdentityProvider()

	keys := localstore.Keys{
		Pending: cfg.Waste.PendingKey,
		Last:    cfg.Waste.LastEntryKey,
	}
	workflowFor := func(userID string) *wasteentry.Workflow {
		store := localstore.NewPendingEntryStore(kvstore.Namespaced(pendingKV, "user:"+userID), keys)
		return wasteentry.NewWorkflow(store, documentRepo, identity, clock).
			WithCollection(cfg.Waste.WasteCollection)
	}

	// Create catalog and statistics use cases
	listCategoriesUseCase := catalog.NewListWasteCategoriesUseCase(documentRepo).
		WithCollection(cfg.Waste.CatalogCollection)
	getSelectionUseCase := catalog.NewGetSelectedWasteUseCase(documentRepo, identity).
		WithCollection(cfg.Waste.UsersCollection)
	updateSelectionUseCase := catalog.NewUpdateSelectedWasteUseCase(documentRepo, identity, clock).
		WithCollection(cfg.Waste.UsersCollection)
	statisticsUseCase := statistics.NewGetWasteStatisticsUseCase(documentRepo, identity, clock, cfg.Waste.StatisticsWindow).
		WithCollection(cfg.Waste.WasteCollection)

	// Create controllers
	healthController := controller.NewHealthController(opts.DBHealthCheck, opts.RedisHealthCheck)
	documentController := controller.NewDocumentController(documentRepo)
	pendingController := controller.NewPendingController(workflowFor)
	catalogController := controller.NewCatalogController(listCategoriesUseCase, getSelectionUseCase, updateSelectionUseCase)
	statisticsController := controller.NewStatisticsController(statisticsUseCase)

	// Create middleware
	submitRateLimiter := middleware.NewRateLimiter(cfg.RateLimit.SubmitMaxAttempts, cfg.RateLimit.SubmitWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		documentController,
		pendingController,
		catalogController,
		statisticsController,
		submitRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:            cfg,
		DB:                db,
		Router:            r,
		TokenService:      tokenService,
		SubmitRateLimiter: submitRateLimiter,
	}
}
