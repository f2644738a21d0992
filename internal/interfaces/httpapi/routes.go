package httpapi

import (
	"net/http"

	"github.com/fixturelab/fixture-sync/internal/platform/logging"
)

// NewMux assembles the route table with the shared-secret guard on the
// trigger endpoints.
func NewMux(handler *Handler, syncSecret string, logger *logging.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /v1/sync", RequireSyncSecret(syncSecret, http.HandlerFunc(handler.SyncLeague)))
	mux.Handle("POST /v1/internal/jobs/sync-all", RequireSyncSecret(syncSecret, http.HandlerFunc(handler.RunSyncAllJob)))

	return RequestTracing(RequestLogging(logger, mux))
}
