// Command turnolink runs the TurnoLink multi-tenant API server. With the
// "admin" argument it runs one-off maintenance commands instead.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	cfhttp "github.com/turnolink/turnolink/internal/adapter/http"
	cfnats "github.com/turnolink/turnolink/internal/adapter/nats"
	"github.com/turnolink/turnolink/internal/adapter/natskv"
	otelx "github.com/turnolink/turnolink/internal/adapter/otel"
	"github.com/turnolink/turnolink/internal/adapter/postgres"
	"github.com/turnolink/turnolink/internal/adapter/prom"
	"github.com/turnolink/turnolink/internal/adapter/ristretto"
	"github.com/turnolink/turnolink/internal/adapter/tiered"
	"github.com/turnolink/turnolink/internal/config"
	"github.com/turnolink/turnolink/internal/logger"
	"github.com/turnolink/turnolink/internal/middleware"
	"github.com/turnolink/turnolink/internal/port/cache"
	"github.com/turnolink/turnolink/internal/port/messagequeue"
	"github.com/turnolink/turnolink/internal/resilience"
	"github.com/turnolink/turnolink/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	appLogger, logFlusher := logger.New(cfg.Logging)
	defer logFlusher.Close()
	slog.SetDefault(appLogger)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"auth_enabled", cfg.Auth.Enabled,
		"rls", cfg.Postgres.RLS,
		"pg_max_conns", cfg.Postgres.MaxConns,
	)
	if !cfg.Auth.Enabled {
		slog.Warn("authentication disabled: every request runs as a development superuser")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability ---

	shutdownOtel, err := otelx.Setup(ctx, cfg.OTEL)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(flushCtx); err != nil {
			slog.Warn("otel shutdown", "error", err)
		}
	}()

	metrics, err := otelx.NewMetrics()
	if err != nil {
		return fmt.Errorf("otel metrics: %w", err)
	}
	if err := metrics.ObserveLogDrops(logFlusher.Dropped); err != nil {
		return fmt.Errorf("otel log metrics: %w", err)
	}
	promMetrics := prom.New()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB)
	if err != nil {
		return fmt.Errorf("tenant cache: %w", err)
	}
	defer l1.Close()

	var (
		tenantCache cache.Cache = l1
		queue       messagequeue.Queue
	)
	if cfg.NATS.URL != "" {
		q, err := cfnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() {
			if err := q.Drain(); err != nil {
				slog.Warn("nats drain", "error", err)
			}
		}()
		queue = q

		kv, err := q.KeyValue(ctx, cfg.NATS.CacheBucket, cfg.Cache.TenantTTL)
		if err != nil {
			return fmt.Errorf("tenant cache l2: %w", err)
		}
		tenantCache = tiered.New(l1, natskv.New(kv), cfg.Cache.TenantTTL)
		slog.Info("nats connected", "cache_bucket", cfg.NATS.CacheBucket)
	} else {
		slog.Warn("nats disabled: mutation events are not published and the tenant cache is per-instance")
	}

	breaker := resilience.NewBreaker("events", cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	breaker.OnStateChange(func(name string, from, to resilience.State) {
		slog.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
	})
	promMetrics.ObserveBreaker("events", breaker)

	// --- Services ---

	store := postgres.NewStore(pool, cfg.Postgres.RLSEnforced())
	events := service.NewEventPublisher(queue, breaker, metrics)
	resolver := service.NewTenantResolver(store, tenantCache, cfg.Cache.TenantTTL, metrics)
	authSvc := service.NewAuthService(store, &cfg.Auth)

	if queue != nil {
		// Any instance changing a tenant invalidates every instance's copy.
		cancelSub, err := queue.Subscribe(ctx, messagequeue.SubjectTenantAll, resolver.HandleTenantEvent)
		if err != nil {
			return fmt.Errorf("tenant event subscriber: %w", err)
		}
		defer cancelSub()
	}

	handlers := &cfhttp.Handlers{
		Auth:         authSvc,
		Tenants:      service.NewTenantService(store, resolver, events),
		Customers:    service.NewCustomerService(store, events, metrics),
		Bookings:     service.NewBookingService(store, events, metrics),
		Schedules:    service.NewScheduleService(store, events, metrics),
		BlockedDates: service.NewBlockedDateService(store, events, metrics),
		Products:     service.NewProductService(store, events, metrics),
		Media:        service.NewMediaService(store, events, metrics),
	}

	// --- HTTP ---

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	limiter.OnLimited(promMetrics.RateLimited.Inc)
	stopCleanup := limiter.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(otelx.HTTPMiddleware(cfg.OTEL.ServiceName))
	r.Use(promMetrics.Middleware)
	r.Use(cfhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cfhttp.SecurityHeaders)
	r.Use(cfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(limiter.Handler)
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))

	r.Get("/health", healthHandler(store, queue))
	r.Handle("/metrics", promMetrics.Handler())

	cfhttp.MountRoutes(r, handlers,
		middleware.Auth(authSvc, cfg.Auth.Enabled),
		middleware.IsolationGate(resolver, metrics),
	)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler reports the reachability of the database and the bus. A
// down database makes the instance unhealthy; a down bus only degrades it.
func healthHandler(db pinger, queue messagequeue.Queue) http.HandlerFunc {
	type healthStatus struct {
		Status   string `json:"status"`
		Postgres string `json:"postgres"`
		NATS     string `json:"nats"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{Status: "ok", Postgres: "up", NATS: "disabled"}
		code := http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.Warn("health: postgres unreachable", "error", err)
			status.Status, status.Postgres = "unavailable", "down"
			code = http.StatusServiceUnavailable
		}
		if queue != nil {
			status.NATS = "up"
			if !queue.IsConnected() {
				status.NATS = "down"
				if code == http.StatusOK {
					status.Status = "degraded"
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}
