package apifootball

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fixturelab/fixture-sync/internal/platform/logging"
	"github.com/fixturelab/fixture-sync/internal/usecase"
)

func fixtureJSON(id int64, status string) string {
	return fmt.Sprintf(`{
		"fixture": {
			"id": %d,
			"timezone": "UTC",
			"date": "2025-05-10T19:00:00+00:00",
			"timestamp": 1746903600,
			"venue": {"id": 1, "name": "Maracanã", "city": "Rio de Janeiro"},
			"status": {"long": "", "short": %q, "elapsed": 0}
		},
		"league": {"id": 71, "name": "Serie A", "country": "Brazil", "season": 2025, "round": "Regular Season - 8"},
		"teams": {
			"home": {"id": 10, "name": "Flamengo", "logo": "https://media.example/10.png"},
			"away": {"id": 20, "name": "Palmeiras", "logo": "https://media.example/20.png"}
		},
		"goals": {"home": null, "away": null}
	}`, id, status)
}

func pageBody(fixtures []string, current, total int) string {
	return fmt.Sprintf(`{"errors": [], "results": %d, "paging": {"current": %d, "total": %d}, "response": [%s]}`,
		len(fixtures), current, total, strings.Join(fixtures, ","))
}

func TestFetchFixtures_PaginatesWithStableParams(t *testing.T) {
	t.Parallel()

	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-apisports-key"); got != "secret-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		requests = append(requests, r.URL.RawQuery)

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "", "1":
			fmt.Fprint(w, pageBody([]string{fixtureJSON(1001, "NS")}, 1, 3))
		case "2":
			fmt.Fprint(w, pageBody([]string{fixtureJSON(1002, "FT")}, 2, 3))
		case "3":
			fmt.Fprint(w, pageBody([]string{fixtureJSON(1003, "PST")}, 3, 3))
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Key:     "secret-key",
		Logger:  logging.NewNop(),
	})

	fixtures, err := client.FetchFixtures(context.Background(), usecase.FixtureQuery{
		LeagueID: 71,
		Season:   2025,
		From:     "2025-05-10",
		To:       "2025-05-12",
		Timezone: "America/Sao_Paulo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("got %d requests, want 3", len(requests))
	}
	if len(fixtures) != 3 {
		t.Fatalf("got %d fixtures, want 3", len(fixtures))
	}

	base := requests[0]
	for i, raw := range requests[1:] {
		stripped := strings.ReplaceAll(raw, fmt.Sprintf("&page=%d", i+2), "")
		stripped = strings.ReplaceAll(stripped, fmt.Sprintf("page=%d&", i+2), "")
		if stripped != base {
			t.Fatalf("page %d params diverged: %q vs %q", i+2, raw, base)
		}
	}

	first := fixtures[0]
	if first.ExternalID != 1001 {
		t.Fatalf("external id=%d, want 1001", first.ExternalID)
	}
	if first.LeagueExternalID != 71 || first.Season != 2025 {
		t.Fatalf("league=%d season=%d, want 71/2025", first.LeagueExternalID, first.Season)
	}
	if first.HomeTeam.Name != "Flamengo" || first.AwayTeam.ExternalID != 20 {
		t.Fatalf("teams mapped wrong: %+v", first)
	}
	if first.Venue != "Maracanã" {
		t.Fatalf("venue=%q", first.Venue)
	}
	if first.KickoffTimestamp != 1746903600 {
		t.Fatalf("timestamp=%d", first.KickoffTimestamp)
	}
	if !strings.Contains(first.RawJSON, `"id": 1001`) {
		t.Fatalf("raw payload not captured: %s", first.RawJSON)
	}
}

func TestFetchFixtures_EmptyFirstPage(t *testing.T) {
	t.Parallel()

	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		fmt.Fprint(w, pageBody(nil, 1, 1))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Key: "k", Logger: logging.NewNop()})
	fixtures, err := client.FetchFixtures(context.Background(), usecase.FixtureQuery{LeagueID: 71, Season: 2025, Date: "2025-05-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fixtures) != 0 {
		t.Fatalf("got %d fixtures, want none", len(fixtures))
	}
	if requestCount != 1 {
		t.Fatalf("got %d requests, want 1", requestCount)
	}
}

func TestFetchFixtures_ProviderErrorMap(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors": {"token": "Invalid API key."}, "results": 0, "paging": {"current": 1, "total": 1}, "response": []}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Key: "bad", Logger: logging.NewNop()})
	_, err := client.FetchFixtures(context.Background(), usecase.FixtureQuery{LeagueID: 71, Season: 2025})
	if !errors.Is(err, usecase.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid API key.") {
		t.Fatalf("error lost provider message: %v", err)
	}
}

func TestFetchFixtures_Non2xxStatusIsTransport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Key: "k", Logger: logging.NewNop()})
	_, err := client.FetchFixtures(context.Background(), usecase.FixtureQuery{LeagueID: 71, Season: 2025})
	if !errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if errors.Is(err, usecase.ErrUpstream) {
		t.Fatalf("non-2xx must not carry the upstream sentinel: %v", err)
	}
	if !strings.Contains(err.Error(), "status=429") {
		t.Fatalf("error missing status: %v", err)
	}
}

func TestFetchFixtures_SendFailureIsTransport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Key: "k", Logger: logging.NewNop()})
	_, err := client.FetchFixtures(context.Background(), usecase.FixtureQuery{LeagueID: 71, Season: 2025})
	if !errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if errors.Is(err, usecase.ErrUpstream) {
		t.Fatalf("connection failure must not carry the upstream sentinel: %v", err)
	}
}

func TestFetchFixtures_RejectsInvalidQuery(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://localhost:0", Key: "k", Logger: logging.NewNop()})
	if _, err := client.FetchFixtures(context.Background(), usecase.FixtureQuery{Season: 2025}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := client.FetchFixtures(context.Background(), usecase.FixtureQuery{LeagueID: 71}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
