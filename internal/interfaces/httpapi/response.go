package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/fixturelab/fixture-sync/internal/usecase"
)

type syncEnvelope struct {
	OK      bool          `json:"ok"`
	League  string        `json:"league,omitempty"`
	Season  int           `json:"season,omitempty"`
	From    string        `json:"from,omitempty"`
	To      string        `json:"to,omitempty"`
	Fetched int           `json:"fetched"`
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Skipped int           `json:"skipped"`
	Errors  []string      `json:"errors,omitempty"`
	Debug   *debugPayload `json:"debug,omitempty"`
}

type debugPayload struct {
	ProviderLeagueID int64  `json:"provider_league_id"`
	Timezone         string `json:"timezone"`
	WindowClamped    bool   `json:"window_clamped"`
}

type errorEnvelope struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type syncAllEnvelope struct {
	OK      bool             `json:"ok"`
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Skipped int              `json:"skipped"`
	Failed  int              `json:"failed"`
	Leagues []leagueRunEntry `json:"leagues"`
}

type leagueRunEntry struct {
	League  string `json:"league"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	message := err.Error()
	if mapped.HTTPStatus == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(ctx, w, mapped.HTTPStatus, errorEnvelope{
		OK:     false,
		Error:  message,
		Reason: mapped.Reason,
	})
}

func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput"}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound"}
	case errors.Is(err, usecase.ErrUpstream):
		return mappedError{HTTPStatus: http.StatusBadGateway, Reason: "upstreamFailure"}
	case errors.Is(err, usecase.ErrTransport):
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "transportFailure"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError"}
	}
}

func summaryEnvelope(summary usecase.Summary) syncEnvelope {
	out := syncEnvelope{
		OK:      true,
		League:  summary.League,
		Season:  summary.Season,
		From:    summary.From,
		To:      summary.To,
		Fetched: summary.Fetched,
		Created: summary.Created,
		Updated: summary.Updated,
		Skipped: summary.Skipped,
		Errors:  summary.Errors,
	}
	if summary.Debug != nil {
		out.Debug = &debugPayload{
			ProviderLeagueID: summary.Debug.ProviderLeagueID,
			Timezone:         summary.Debug.Timezone,
			WindowClamped:    summary.Debug.WindowClamped,
		}
	}
	return out
}

func runAllEnvelope(result usecase.RunAllResult) syncAllEnvelope {
	leagues := make([]leagueRunEntry, 0, len(result.Leagues))
	for _, row := range result.Leagues {
		leagues = append(leagues, leagueRunEntry{
			League:  row.League,
			Created: row.Summary.Created,
			Updated: row.Summary.Updated,
			Skipped: row.Summary.Skipped,
			Error:   row.Err,
		})
	}
	return syncAllEnvelope{
		OK:      true,
		Created: result.Created,
		Updated: result.Updated,
		Skipped: result.Skipped,
		Failed:  result.Failed,
		Leagues: leagues,
	}
}
