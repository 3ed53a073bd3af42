package app

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/ostvik/league-hub/internal/config"
	"github.com/ostvik/league-hub/internal/domain/invite"
	"github.com/ostvik/league-hub/internal/domain/profile"
	"github.com/ostvik/league-hub/internal/domain/rosterlock"
	"github.com/ostvik/league-hub/internal/domain/season"
	"github.com/ostvik/league-hub/internal/domain/squad"
	"github.com/ostvik/league-hub/internal/infrastructure/account/warden"
	"github.com/ostvik/league-hub/internal/infrastructure/jobqueue"
	cacherepo "github.com/ostvik/league-hub/internal/infrastructure/repository/cache"
	"github.com/ostvik/league-hub/internal/infrastructure/repository/memory"
	"github.com/ostvik/league-hub/internal/infrastructure/repository/postgres"
	"github.com/ostvik/league-hub/internal/interfaces/httpapi"
	basecache "github.com/ostvik/league-hub/internal/platform/cache"
	"github.com/ostvik/league-hub/internal/platform/database"
	idgen "github.com/ostvik/league-hub/internal/platform/id"
	"github.com/ostvik/league-hub/internal/platform/logging"
	"github.com/ostvik/league-hub/internal/platform/resilience"
	"github.com/ostvik/league-hub/internal/usecase"
)

// App bundles the HTTP server with the pieces the entrypoint drives
// directly: the invite sweeper and the optional delayed-job publisher.
type App struct {
	Server        *http.Server
	InviteService *usecase.InviteService
	Scheduler     *jobqueue.SchedulerPublisher

	db *database.DB
}

// New wires repositories, services, and the HTTP router. With a DB_URL
// configured it runs against Postgres; without one it falls back to the
// seeded in-memory store, which is what local development uses.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		seasonRepo  season.Repository
		lockRepo    rosterlock.Repository
		inviteRepo  invite.Repository
		squadRepo   squad.Repository
		profileRepo profile.Repository
		tx          usecase.TxManager
		appDB       *database.DB
	)

	if cfg.DBURL != "" {
		sqlDB, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}

		if cfg.AppEnv == config.EnvDev {
			if err := postgres.BootstrapSeed(ctx, sqlDB); err != nil {
				return nil, fmt.Errorf("bootstrap seed: %w", err)
			}
		}

		appDB = database.NewDB(sqlDB)
		txManager, err := database.NewTxManager(sqlDB)
		if err != nil {
			return nil, fmt.Errorf("build tx manager: %w", err)
		}
		tx = txManager

		seasonRepo = postgres.NewSeasonRepository(appDB)
		lockRepo = postgres.NewRosterLockRepository(appDB)
		inviteRepo = postgres.NewSquadInviteRepository(appDB)
		squadRepo = postgres.NewSquadRepository(appDB)
		profileRepo = postgres.NewProfileRepository(appDB)

		logger.Info("storage backend selected", "backend", "postgres", "db", dbNameFromURL(cfg.DBURL))
	} else {
		seasonRepo = memory.NewSeasonRepository(memory.SeedSeasons())
		lockRepo = memory.NewRosterLockRepository()
		inviteRepo = memory.NewSquadInviteRepository()
		squadRepo = memory.NewSquadRepository(memory.SeedSquads())
		profileRepo = memory.NewProfileRepository(memory.SeedProfiles())
		tx = memory.NewTxManager()

		logger.Info("storage backend selected", "backend", "memory")
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		seasonRepo = cacherepo.NewSeasonRepository(seasonRepo, store)
		lockRepo = cacherepo.NewRosterLockRepository(lockRepo, store)
		squadRepo = cacherepo.NewSquadRepository(squadRepo, store)
		profileRepo = cacherepo.NewProfileRepository(profileRepo, store)
	}

	wardenClient := warden.NewClient(
		&http.Client{Timeout: cfg.WardenTimeout},
		cfg.WardenBaseURL,
		cfg.WardenAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.WardenCircuitEnabled,
			FailureThreshold: cfg.WardenCircuitFailureCount,
			OpenTimeout:      cfg.WardenCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WardenCircuitHalfOpenMaxReq,
		},
		logger,
	)

	idGenerator := idgen.NewRandomGenerator()

	statusSvc := usecase.NewLockStatusService(seasonRepo, lockRepo, inviteRepo, squadRepo, profileRepo, logger)
	inviteSvc := usecase.NewInviteService(inviteRepo, statusSvc, idGenerator, cfg.InviteTTL, logger)
	lockSvc := usecase.NewLockService(seasonRepo, lockRepo, inviteRepo, tx, wardenClient, idGenerator, logger)
	maintenanceSvc := usecase.NewMaintenanceService(seasonRepo, lockRepo, inviteRepo, logger)

	var scheduler *jobqueue.SchedulerPublisher
	if cfg.SchedulerEnabled {
		scheduler = jobqueue.NewSchedulerPublisher(jobqueue.SchedulerPublisherConfig{
			BaseURL:          cfg.SchedulerBaseURL,
			Token:            cfg.SchedulerToken,
			TargetBaseURL:    cfg.SchedulerTargetBaseURL,
			Retries:          cfg.SchedulerRetries,
			InternalJobToken: cfg.InternalJobToken,
			Breaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SchedulerCircuitEnabled,
				FailureThreshold: cfg.SchedulerCircuitFailureCount,
				OpenTimeout:      cfg.SchedulerCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SchedulerCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	handler := httpapi.NewHandler(lockSvc, statusSvc, inviteSvc, maintenanceSvc, logger)
	router := httpapi.NewRouter(handler, wardenClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:        server,
		InviteService: inviteSvc,
		Scheduler:     scheduler,
		db:            appDB,
	}, nil
}

// Close releases resources that outlive the HTTP server.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
