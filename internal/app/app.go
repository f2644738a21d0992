package app

import (
	"fmt"
	"net/http"

	_ "github.com/lib/pq"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/fixturelab/fixture-sync/external/apifootball"
	"github.com/fixturelab/fixture-sync/internal/config"
	"github.com/fixturelab/fixture-sync/internal/infrastructure/repository/postgres"
	"github.com/fixturelab/fixture-sync/internal/interfaces/httpapi"
	"github.com/fixturelab/fixture-sync/internal/platform/logging"
	"github.com/fixturelab/fixture-sync/internal/platform/resilience"
	"github.com/fixturelab/fixture-sync/internal/usecase"
)

// NewHTTPServer wires the full ingestion stack. The returned cleanup closes
// the database pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL: cfg.APIFootballBaseURL,
		Key:     cfg.APIFootballKey,
		Timeout: cfg.APIFootballTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	syncSvc := usecase.NewSyncService(
		cfg,
		provider,
		postgres.NewLeagueRepository(db),
		postgres.NewTeamRepository(db),
		postgres.NewMatchRepository(db),
		logger,
	)

	handler := httpapi.NewHandler(syncSvc, logger)
	router := httpapi.NewMux(handler, cfg.SyncSecret, logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}
