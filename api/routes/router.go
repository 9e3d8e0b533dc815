package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adiwijaya-dev/shopdash-backend/api/controllers"
	"github.com/adiwijaya-dev/shopdash-backend/api/middleware"
	backupsvc "github.com/adiwijaya-dev/shopdash-backend/internal/backup"
	"github.com/adiwijaya-dev/shopdash-backend/internal/competitors"
	"github.com/adiwijaya-dev/shopdash-backend/internal/goals"
	"github.com/adiwijaya-dev/shopdash-backend/internal/pricing"
	"github.com/adiwijaya-dev/shopdash-backend/internal/products"
	"github.com/adiwijaya-dev/shopdash-backend/internal/sales"
	"github.com/adiwijaya-dev/shopdash-backend/internal/tasks"
	"github.com/adiwijaya-dev/shopdash-backend/internal/videolog"
	"github.com/adiwijaya-dev/shopdash-backend/internal/worklogs"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/redis"
)

// Services bundles everything the router mounts. Optional fields may be nil;
// their routes degrade gracefully or are skipped.
type Services struct {
	Auth     controllers.AuthService
	Verifier middleware.Authenticator
	Syncer   controllers.SyncBinder

	Sales       sales.Service
	Tasks       tasks.Service
	WorkLogs    worklogs.Service
	Products    products.Service
	Pricing     pricing.Service
	Competitors competitors.Service
	VideoLogs   videolog.Service
	Goals       goals.Service

	Backup     *backupsvc.Service
	Copywriter controllers.Copywriter
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// A typed nil must not reach the interface-typed consumers below.
	var redisPinger redis.Pinger
	var limiterStore *redis.Client
	if redisClient != nil {
		redisPinger = redisClient
		limiterStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	)

	passthrough := func(next http.Handler) http.Handler { return next }
	loginLimiter, registerLimiter := passthrough, passthrough
	if limiterStore != nil {
		loginLimiter = middleware.AuthRateLimit(loginPolicy, limiterStore, logg)
		registerLimiter = middleware.AuthRateLimit(registerPolicy, limiterStore, logg)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", controllers.AuthLogin(svcs.Auth, svcs.Syncer, logg))
		r.With(registerLimiter).Post("/register", controllers.AuthRegister(svcs.Auth, svcs.Syncer, logg))
		r.With(middleware.Auth(svcs.Verifier, logg)).Post("/logout", controllers.AuthLogout(svcs.Auth, svcs.Syncer, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(svcs.Verifier, logg))

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(svcs.Sales, logg))
			r.Post("/", controllers.SalesUpsert(svcs.Sales, logg))
			r.Post("/import", controllers.SalesImport(svcs.Sales, logg))
			r.Delete("/{id}", controllers.SalesDelete(svcs.Sales, logg))
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", controllers.TasksList(svcs.Tasks, logg))
			r.Post("/", controllers.TaskCreate(svcs.Tasks, logg))
			r.Get("/completions", controllers.CompletionsList(svcs.Tasks, logg))
			r.Post("/completions/toggle", controllers.CompletionToggle(svcs.Tasks, logg))
			r.Put("/{id}", controllers.TaskUpdate(svcs.Tasks, logg))
			r.Delete("/{id}", controllers.TaskDelete(svcs.Tasks, logg))
		})

		r.Route("/worklogs", func(r chi.Router) {
			r.Get("/", controllers.WorkLogsList(svcs.WorkLogs, logg))
			r.Post("/", controllers.WorkLogUpsert(svcs.WorkLogs, logg))
			r.Delete("/{id}", controllers.WorkLogDelete(svcs.WorkLogs, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(svcs.Products, logg))
			r.Post("/", controllers.ProductCreate(svcs.Products, logg))
			if svcs.Copywriter != nil {
				r.Post("/copy", controllers.ProductCopy(svcs.Copywriter, logg))
			}
			r.Put("/{id}", controllers.ProductUpdate(svcs.Products, logg))
			r.Delete("/{id}", controllers.ProductDelete(svcs.Products, logg))
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Get("/", controllers.PricingList(svcs.Pricing, logg))
			r.Post("/", controllers.PricingUpsert(svcs.Pricing, logg))
			r.Delete("/{id}", controllers.PricingDelete(svcs.Pricing, logg))
		})

		r.Route("/competitors", func(r chi.Router) {
			r.Get("/", controllers.CompetitorsList(svcs.Competitors, logg))
			r.Post("/", controllers.CompetitorCreate(svcs.Competitors, logg))
			r.Get("/lookup", controllers.CompetitorLookup(svcs.Competitors, logg))
			r.Put("/{id}", controllers.CompetitorUpdate(svcs.Competitors, logg))
			r.Delete("/{id}", controllers.CompetitorDelete(svcs.Competitors, logg))
		})

		r.Route("/videologs", func(r chi.Router) {
			r.Get("/", controllers.VideoLogsList(svcs.VideoLogs, logg))
			r.Post("/", controllers.VideoLogCreate(svcs.VideoLogs, logg))
			r.Put("/{id}", controllers.VideoLogUpdate(svcs.VideoLogs, logg))
			r.Delete("/{id}", controllers.VideoLogDelete(svcs.VideoLogs, logg))
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", controllers.GoalsList(svcs.Goals, logg))
			r.Post("/", controllers.GoalCreate(svcs.Goals, logg))
			r.Patch("/{id}/achieved", controllers.GoalSetAchieved(svcs.Goals, logg))
			r.Delete("/{id}", controllers.GoalDelete(svcs.Goals, logg))
		})

		r.Route("/backup", func(r chi.Router) {
			r.Post("/export", controllers.BackupExport(svcs.Backup, logg))
			r.Post("/import", controllers.BackupImport(svcs.Backup, logg))
		})
	})

	return r
}
