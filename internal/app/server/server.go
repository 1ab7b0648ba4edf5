package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hourbank/internal/domain/audit"
	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/ledger"
	"hourbank/internal/domain/overtime"
	"hourbank/internal/domain/personnel"
	"hourbank/internal/domain/reports"
	"hourbank/internal/domain/timeentry"
	"hourbank/internal/domain/unitconfig"
	"hourbank/internal/platform/config"
	"hourbank/internal/platform/db"
	"hourbank/internal/platform/jobs"
	"hourbank/internal/platform/lock"
	"hourbank/internal/platform/metrics"
	"hourbank/internal/transport/http/api"
	audithandler "hourbank/internal/transport/http/handlers/audit"
	authhandler "hourbank/internal/transport/http/handlers/auth"
	balanceshandler "hourbank/internal/transport/http/handlers/balances"
	configurationhandler "hourbank/internal/transport/http/handlers/configuration"
	employeeshandler "hourbank/internal/transport/http/handlers/employees"
	reportshandler "hourbank/internal/transport/http/handlers/reports"
	timeentrieshandler "hourbank/internal/transport/http/handlers/timeentries"
	"hourbank/internal/transport/http/middleware"
)

type Services struct {
	Auth      *auth.Service
	Configs   *unitconfig.Service
	Ledger    *ledger.Service
	Entries   *timeentry.Service
	Employees *personnel.Service
	Overtime  *overtime.Service
	Reports   *reports.Service
	Audit     audit.Recorder
}

type App struct {
	Config   config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Router   http.Handler
	Logger   *zap.Logger
	Services Services
	Jobs     *jobs.Service
	Metrics  *metrics.Collector
}

// New wires the application for cfg.StoreDriver. With the postgres driver it
// connects, migrates and seeds according to cfg; with the memory driver only
// seeding applies.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{Config: cfg, Logger: logger, Metrics: metrics.New()}

	var (
		configStore   unitconfig.StoreAPI
		ledgerStore   ledger.StoreAPI
		entryStore    timeentry.StoreAPI
		employeeStore personnel.StoreAPI
		userStore     auth.StoreAPI
		runStore      jobs.RunStore
	)
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		app.DB = pool
		if cfg.RunMigrations {
			if _, err := db.Migrate(ctx, pool, cfg.MigrationsDir, logger); err != nil {
				app.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		configStore = unitconfig.NewStore(pool)
		ledgerStore = ledger.NewStore(pool)
		entryStore = timeentry.NewStore(pool)
		employeeStore = personnel.NewStore(pool)
		userStore = auth.NewStore(pool)
		runStore = jobs.NewStore(pool)
		app.Services.Audit = audit.New(pool)
	default:
		configStore = unitconfig.NewMemoryStore()
		ledgerStore = ledger.NewMemoryStore()
		entryStore = timeentry.NewMemoryStore()
		employeeStore = personnel.NewMemoryStore()
		userStore = auth.NewMemoryStore()
		app.Services.Audit = audit.NewMemoryRecorder()
	}

	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = client.Close()
			app.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		app.Redis = client
		locker = lock.NewRedis(client, cfg.LockTTL)
	}

	s := &app.Services
	s.Auth = auth.NewService(userStore, cfg.JWTSecret, cfg.TokenTTL)
	s.Configs = unitconfig.NewService(configStore, unitconfig.Defaults{
		StandardMonthlyHours: cfg.DefaultStandardHours,
		OvertimePayPercent:   cfg.DefaultOvertimePercent,
	})
	s.Ledger = ledger.NewService(ledgerStore)
	s.Entries = timeentry.NewService(entryStore)
	s.Employees = personnel.NewService(employeeStore)
	s.Overtime = overtime.NewService(overtime.Deps{
		Configs:   s.Configs,
		Ledger:    s.Ledger,
		Entries:   s.Entries,
		Employees: s.Employees,
		Locker:    locker,
		Audit:     s.Audit,
		Logger:    logger.Named("overtime"),
	})
	s.Reports = reports.NewService(s.Overtime, s.Employees)

	if cfg.RunSeed {
		err := db.Seed(ctx, db.SeedDeps{
			Users:     s.Auth,
			Configs:   s.Configs,
			Employees: s.Employees,
			Logger:    logger,
		}, db.SeedOptions{
			AdminUsername: cfg.SeedAdminUsername,
			AdminPassword: cfg.SeedAdminPassword,
			UnitSeedFile:  cfg.UnitSeedFile,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app.Jobs = jobs.New(runStore, logger.Named("jobs"), cfg.JobQueueSize)
	app.Jobs.OnComplete(func(jobType string, err error) {
		if jobType == jobs.JobRecompute {
			app.Metrics.RecordRecompute(err)
		}
	})
	app.Router = app.routes()
	return app, nil
}

// ScheduleRecompute queues a rebuild of one employee's open balances.
func (a *App) ScheduleRecompute(employeeID string) {
	err := a.Jobs.Enqueue(jobs.JobRecompute, employeeID, func(ctx context.Context) (any, error) {
		rows, err := a.Services.Overtime.Rebuild(ctx, employeeID, nil)
		return map[string]any{"periods": len(rows)}, err
	})
	a.Metrics.RecordEnqueue(err == nil)
	if err != nil {
		a.Logger.Warn("recompute not queued", zap.String("employeeId", employeeID), zap.Error(err))
	}
}

// RecomputeNow rebuilds one employee's balances synchronously, recorded as a
// recompute job.
func (a *App) RecomputeNow(ctx context.Context, employeeID string) ([]balance.PeriodBalance, error) {
	out, err := a.Jobs.RunNow(ctx, jobs.JobRecompute, employeeID, func(ctx context.Context) (any, error) {
		return a.Services.Overtime.Rebuild(ctx, employeeID, nil)
	})
	if err != nil {
		return nil, err
	}
	rows, _ := out.([]balance.PeriodBalance)
	return rows, nil
}

func (a *App) routes() http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Logger(a.Logger, a.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.JSONBody(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", a.handleReady)
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		s := a.Services
		authhandler.NewHandler(s.Auth, a.Logger).RegisterRoutes(r)
		configurationhandler.NewHandler(s.Overtime, s.Configs, a.Logger).RegisterRoutes(r)
		balanceshandler.NewHandler(s.Overtime, s.Reports, a.Logger).RegisterRoutes(r)
		employeeshandler.NewHandler(s.Employees, s.Audit, a.Logger).RegisterRoutes(r)
		timeentrieshandler.NewHandler(s.Entries, s.Employees, a, a.Logger).RegisterRoutes(r)
		reportshandler.NewHandler(s.Reports, a.Logger).RegisterRoutes(r)
		audithandler.NewHandler(s.Audit, a.Logger).RegisterRoutes(r)
	})
	return router
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if a.DB != nil {
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Run serves HTTP and the job worker until ctx is cancelled, then shuts both
// down.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Jobs.Start(gctx)
		a.Jobs.Wait()
		return nil
	})
	g.Go(func() error {
		a.Logger.Info("server listening", zap.String("addr", a.Config.Addr), zap.String("storeDriver", a.Config.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := a.Config.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
