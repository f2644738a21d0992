package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fixturelab/fixture-sync/internal/config"
	"github.com/fixturelab/fixture-sync/internal/domain/league"
	"github.com/fixturelab/fixture-sync/internal/domain/match"
	"github.com/fixturelab/fixture-sync/internal/domain/team"
	"github.com/fixturelab/fixture-sync/internal/platform/logging"
	"github.com/fixturelab/fixture-sync/internal/usecase"
)

type stubProvider struct {
	fixtures []usecase.ExternalFixture
	err      error
}

func (p *stubProvider) FetchFixtures(context.Context, usecase.FixtureQuery) ([]usecase.ExternalFixture, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.fixtures, nil
}

type memLeagueRepo struct {
	nextID int64
	byExt  map[string]league.League
}

func (r *memLeagueRepo) Upsert(_ context.Context, item league.League) (int64, bool, error) {
	if existing, ok := r.byExt[item.ExternalID]; ok {
		return existing.ID, false, nil
	}
	r.nextID++
	item.ID = r.nextID
	r.byExt[item.ExternalID] = item
	return item.ID, true, nil
}

func (r *memLeagueRepo) GetByExternalID(_ context.Context, externalID string) (league.League, bool, error) {
	item, ok := r.byExt[externalID]
	return item, ok, nil
}

type memTeamRepo struct {
	nextID int64
	byExt  map[string]team.Team
}

func (r *memTeamRepo) Upsert(_ context.Context, item team.Team) (int64, bool, error) {
	if existing, ok := r.byExt[item.ExternalID]; ok {
		return existing.ID, false, nil
	}
	r.nextID++
	item.ID = r.nextID
	r.byExt[item.ExternalID] = item
	return item.ID, true, nil
}

func (r *memTeamRepo) GetByExternalID(_ context.Context, externalID string) (team.Team, bool, error) {
	item, ok := r.byExt[externalID]
	return item, ok, nil
}

type memMatchRepo struct {
	nextID int64
	byExt  map[string]match.Match
}

func (r *memMatchRepo) Upsert(_ context.Context, item match.Match) (match.UpsertOutcome, error) {
	if existing, ok := r.byExt[item.ExternalID]; ok {
		r.byExt[item.ExternalID] = item
		return match.UpsertOutcome{ExternalID: item.ExternalID, ID: existing.ID}, nil
	}
	r.nextID++
	item.ID = r.nextID
	r.byExt[item.ExternalID] = item
	return match.UpsertOutcome{ExternalID: item.ExternalID, ID: item.ID, Created: true}, nil
}

func (r *memMatchRepo) UpsertMany(ctx context.Context, items []match.Match) ([]match.UpsertOutcome, error) {
	out := make([]match.UpsertOutcome, 0, len(items))
	for _, item := range items {
		outcome, _ := r.Upsert(ctx, item)
		out = append(out, outcome)
	}
	return out, nil
}

func (r *memMatchRepo) GetByExternalID(_ context.Context, externalID string) (match.Match, bool, error) {
	item, ok := r.byExt[externalID]
	return item, ok, nil
}

func newTestMux(provider usecase.FixtureProvider, secret string) http.Handler {
	start := time.Date(2025, 3, 29, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)
	cfg := config.Config{
		DefaultTimezone: "America/Sao_Paulo",
		SyncMaxWorkers:  2,
		Leagues: map[string]config.LeagueConfig{
			"br-serie-a": {
				Slug:        "br-serie-a",
				ProviderID:  71,
				Season:      2025,
				SeasonStart: &start,
				SeasonEnd:   &end,
			},
		},
	}

	svc := usecase.NewSyncService(
		cfg,
		provider,
		&memLeagueRepo{byExt: make(map[string]league.League)},
		&memTeamRepo{byExt: make(map[string]team.Team)},
		&memMatchRepo{byExt: make(map[string]match.Match)},
		logging.NewNop(),
	)
	return NewMux(NewHandler(svc, logging.NewNop()), secret, logging.NewNop())
}

func sampleFixture() usecase.ExternalFixture {
	return usecase.ExternalFixture{
		ExternalID:       999,
		LeagueExternalID: 71,
		LeagueName:       "Serie A",
		Season:           2025,
		StatusCode:       "FT",
		KickoffTimestamp: 1746903600,
		HomeTeam:         usecase.ExternalTeam{ExternalID: 10, Name: "Flamengo"},
		AwayTeam:         usecase.ExternalTeam{ExternalID: 20, Name: "Palmeiras"},
		RawJSON:          `{"fixture":{"id":999}}`,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := sonic.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func TestSyncLeague_Success(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&stubProvider{fixtures: []usecase.ExternalFixture{sampleFixture()}}, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/sync?league=br-serie-a&date=2025-05-10&debug=true", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var body syncEnvelope
	decodeBody(t, rec, &body)
	if !body.OK {
		t.Fatalf("ok=false: %+v", body)
	}
	if body.Created != 1 || body.Updated != 0 || body.Skipped != 0 {
		t.Fatalf("counts=%+v, want created=1", body)
	}
	if body.League != "br-serie-a" || body.Season != 2025 {
		t.Fatalf("identity=%+v", body)
	}
	if body.Debug == nil || body.Debug.ProviderLeagueID != 71 {
		t.Fatalf("debug=%+v", body.Debug)
	}
}

func TestSyncLeague_UnknownLeagueIs400(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&stubProvider{}, "")
	req := httptest.NewRequest(http.MethodGet, "/v1/sync?league=nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
	var body errorEnvelope
	decodeBody(t, rec, &body)
	if body.OK || body.Reason != "invalidInput" {
		t.Fatalf("body=%+v", body)
	}
}

func TestSyncLeague_MissingLeagueParam(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&stubProvider{}, "")
	req := httptest.NewRequest(http.MethodGet, "/v1/sync", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
}

func TestSyncLeague_UpstreamFailureIs502(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&stubProvider{err: usecase.ErrUpstream}, "")
	req := httptest.NewRequest(http.MethodGet, "/v1/sync?league=br-serie-a&date=2025-05-10", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status=%d, want 502", rec.Code)
	}
	var body errorEnvelope
	decodeBody(t, rec, &body)
	if body.Reason != "upstreamFailure" {
		t.Fatalf("reason=%q", body.Reason)
	}
}

func TestSyncLeague_TransportFailureIs500(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&stubProvider{err: usecase.ErrTransport}, "")
	req := httptest.NewRequest(http.MethodGet, "/v1/sync?league=br-serie-a&date=2025-05-10", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", rec.Code)
	}
	var body errorEnvelope
	decodeBody(t, rec, &body)
	if body.Reason != "transportFailure" {
		t.Fatalf("reason=%q", body.Reason)
	}
	if body.Error != "internal server error" {
		t.Fatalf("transport detail leaked: %q", body.Error)
	}
}

func TestSyncSecret_Guard(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&stubProvider{fixtures: []usecase.ExternalFixture{sampleFixture()}}, "topsecret")

	req := httptest.NewRequest(http.MethodGet, "/v1/sync?league=br-serie-a&date=2025-05-10", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401 without secret", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/sync?league=br-serie-a&date=2025-05-10", nil)
	req.Header.Set("X-Sync-Secret", "wrong")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401 with wrong secret", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/sync?league=br-serie-a&date=2025-05-10", nil)
	req.Header.Set("X-Sync-Secret", "topsecret")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200 with correct secret", rec.Code)
	}
}

func TestRunSyncAllJob(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&stubProvider{fixtures: []usecase.ExternalFixture{sampleFixture()}}, "")
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-all?date=2025-05-10", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var body syncAllEnvelope
	decodeBody(t, rec, &body)
	if !body.OK || len(body.Leagues) != 1 {
		t.Fatalf("body=%+v", body)
	}
	if body.Created != 1 || body.Failed != 0 {
		t.Fatalf("counts=%+v", body)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&stubProvider{}, "secret")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("body=%s", rec.Body.String())
	}
}
