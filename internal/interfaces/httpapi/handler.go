package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fixturelab/fixture-sync/internal/platform/logging"
	"github.com/fixturelab/fixture-sync/internal/usecase"
)

type Handler struct {
	sync     *usecase.SyncService
	validate *validator.Validate
	logger   *logging.Logger
}

func NewHandler(sync *usecase.SyncService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		sync:     sync,
		validate: validator.New(),
		logger:   logger,
	}
}

type syncQuery struct {
	League   string `validate:"required"`
	Date     string `validate:"omitempty,datetime=2006-01-02"`
	Days     int    `validate:"omitempty,min=1,max=14"`
	Season   int    `validate:"omitempty,min=1900"`
	Timezone string
	Debug    bool
}

// SyncLeague handles GET /v1/sync. It triggers one ingestion run and returns
// the created/updated/skipped accounting.
func (h *Handler) SyncLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncLeague")
	defer span.End()

	query, err := parseSyncQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validate.Struct(query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	summary, err := h.sync.Run(ctx, usecase.RunRequest{
		League:   query.League,
		Date:     query.Date,
		Days:     query.Days,
		Season:   query.Season,
		Timezone: query.Timezone,
		Debug:    query.Debug,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "sync run failed", "league", query.League, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, summaryEnvelope(summary))
}

// RunSyncAllJob handles POST /v1/internal/jobs/sync-all. It fans out over
// every configured league.
func (h *Handler) RunSyncAllJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncAllJob")
	defer span.End()

	query, err := parseSyncQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.sync.RunAll(ctx, usecase.RunRequest{
		Date:     query.Date,
		Days:     query.Days,
		Timezone: query.Timezone,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "sync-all job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, runAllEnvelope(result))
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseSyncQuery(r *http.Request) (syncQuery, error) {
	values := r.URL.Query()
	out := syncQuery{
		League:   strings.TrimSpace(values.Get("league")),
		Date:     strings.TrimSpace(values.Get("date")),
		Timezone: strings.TrimSpace(values.Get("timezone")),
	}

	if raw := strings.TrimSpace(values.Get("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return syncQuery{}, fmt.Errorf("%w: invalid days %q", usecase.ErrInvalidInput, raw)
		}
		out.Days = days
	}
	if raw := strings.TrimSpace(values.Get("season")); raw != "" {
		season, err := strconv.Atoi(raw)
		if err != nil {
			return syncQuery{}, fmt.Errorf("%w: invalid season %q", usecase.ErrInvalidInput, raw)
		}
		out.Season = season
	}
	if raw := strings.TrimSpace(values.Get("debug")); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return syncQuery{}, fmt.Errorf("%w: invalid debug %q", usecase.ErrInvalidInput, raw)
		}
		out.Debug = debug
	}

	return out, nil
}
