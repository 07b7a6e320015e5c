package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/guerrinha/stoq-api-golang/internal/admin"
	"github.com/guerrinha/stoq-api-golang/internal/catalog"
	"github.com/guerrinha/stoq-api-golang/internal/config"
	"github.com/guerrinha/stoq-api-golang/internal/dataclient"
	"github.com/guerrinha/stoq-api-golang/internal/db"
	"github.com/guerrinha/stoq-api-golang/internal/docs"
	"github.com/guerrinha/stoq-api-golang/internal/health"
	"github.com/guerrinha/stoq-api-golang/internal/httpx"
	"github.com/guerrinha/stoq-api-golang/internal/listings"
	"github.com/guerrinha/stoq-api-golang/internal/logging"
	"github.com/guerrinha/stoq-api-golang/internal/session"
)

// Indireções para os testes conseguirem simular falhas de subida.
var (
	loadEnvFn        = godotenv.Load
	loadConfigFn     = config.Load
	newPoolFn        = func(ctx context.Context, url string) (*pgxpool.Pool, error) { return db.NewPool(ctx, url) }
	newRedisFn       = session.NewRedis
	listenAndServeFn = http.ListenAndServe
	fatalFn          = func(err error) { log.Fatal(err) }
)

func main() {
	if err := run(context.Background()); err != nil {
		fatalFn(err)
	}
}

func run(ctx context.Context) error {
	// .env ausente não é erro; em produção as variáveis vêm do ambiente.
	_ = loadEnvFn()

	cfg, err := loadConfigFn()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		ServiceName: "stoq-api",
		Level:       logging.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})

	var data dataclient.API
	switch cfg.DataBackend {
	case config.BackendPostgres:
		pool, err := newPoolFn(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pool.Close()
		data = dataclient.NewPostgres(pool)
	default:
		data = dataclient.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey, logger)
	}

	var sessions session.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		redisStore, err := newRedisFn(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer redisStore.Close()
		sessions = redisStore
	default:
		sessions = session.NewMemory(cfg.SessionTTL)
	}

	router := newRouter(logger, data, sessions)

	addr := ":" + cfg.Port
	logger.Info().
		Str("addr", addr).
		Str("data_backend", cfg.DataBackend).
		Str("session_store", cfg.SessionStore).
		Msg("stoq-api no ar")

	return listenAndServeFn(addr, router)
}

func newRouter(logger zerolog.Logger, data dataclient.API, sessions session.Store) chi.Router {
	repository := listings.NewRepository(data)

	router := chi.NewRouter()

	// Middlewares base para rastreabilidade e estabilidade.
	// Sem middleware.Timeout: as operações contra a tabela remota esperam o
	// quanto for preciso, como o cliente original.
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpx.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(session.Middleware)

	// Erros de routing tratados no nível do router.
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	healthHandler := health.New(data)
	router.Get("/health", healthHandler.Health)
	router.Get("/ready", healthHandler.Ready)

	docs.RegisterRoutes(router)
	catalog.RegisterRoutes(router, catalog.NewHandler(catalog.NewService(repository, sessions, logger)))
	admin.RegisterRoutes(router, admin.NewHandler(admin.NewService(repository, sessions, logger)))

	return router
}
