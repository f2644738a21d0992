package config

import (
	"testing"
	"time"
)

func TestParseLeagueConfig_FullEntry(t *testing.T) {
	t.Parallel()

	leagues, err := parseLeagueConfig("br-serie-a=71:2025:2025-03-29..2025-12-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	league, ok := leagues["br-serie-a"]
	if !ok {
		t.Fatal("expected br-serie-a entry")
	}
	if league.ProviderID != 71 {
		t.Fatalf("provider id=%d, want 71", league.ProviderID)
	}
	if league.Season != 2025 {
		t.Fatalf("season=%d, want 2025", league.Season)
	}
	if league.SeasonStart == nil || league.SeasonEnd == nil {
		t.Fatal("expected season window bounds")
	}
	wantStart := time.Date(2025, 3, 29, 0, 0, 0, 0, time.UTC)
	if !league.SeasonStart.Equal(wantStart) {
		t.Fatalf("start=%s, want %s", league.SeasonStart, wantStart)
	}
}

func TestParseLeagueConfig_WindowOptional(t *testing.T) {
	t.Parallel()

	leagues, err := parseLeagueConfig("premier-league=39:2025, la-liga=140:2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leagues) != 2 {
		t.Fatalf("got %d leagues, want 2", len(leagues))
	}
	if leagues["premier-league"].SeasonStart != nil {
		t.Fatal("expected nil season start when window omitted")
	}
}

func TestParseLeagueConfig_Rejects(t *testing.T) {
	t.Parallel()

	cases := []string{
		"br-serie-a",
		"br-serie-a=71",
		"br-serie-a=0:2025",
		"br-serie-a=71:1800",
		"br-serie-a=71:2025:2025-12-07..2025-03-29",
		"a=71:2025,a=72:2025",
	}
	for _, raw := range cases {
		if _, err := parseLeagueConfig(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestLeagueBySelector(t *testing.T) {
	t.Parallel()

	cfg := Config{Leagues: map[string]LeagueConfig{
		"br-serie-a": {Slug: "br-serie-a", ProviderID: 71, Season: 2025},
	}}

	if league, ok := cfg.LeagueBySelector("br-serie-a"); !ok || league.ProviderID != 71 {
		t.Fatalf("slug lookup failed: %+v ok=%v", league, ok)
	}
	if league, ok := cfg.LeagueBySelector("71"); !ok || league.Slug != "br-serie-a" {
		t.Fatalf("numeric lookup failed: %+v ok=%v", league, ok)
	}
	if _, ok := cfg.LeagueBySelector("unknown"); ok {
		t.Fatal("expected miss for unknown selector")
	}
}
