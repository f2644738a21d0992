package usecase

import "context"

// ExternalTeam is one side of an upstream fixture.
type ExternalTeam struct {
	ExternalID int64
	Name       string
	LogoURL    string
}

// ExternalFixture is a provider fixture flattened for ingestion. RawJSON
// carries the original element for audit storage.
type ExternalFixture struct {
	ExternalID       int64
	LeagueExternalID int64
	LeagueName       string
	LeagueCountry    string
	Season           int
	Round            string
	Venue            string
	StatusCode       string
	KickoffTimestamp int64
	KickoffISO       string
	HomeTeam         ExternalTeam
	AwayTeam         ExternalTeam
	RawJSON          string
}

// FixtureQuery selects fixtures upstream. Date and From/To are exclusive;
// all three use YYYY-MM-DD in the query timezone.
type FixtureQuery struct {
	LeagueID int64
	Season   int
	Date     string
	From     string
	To       string
	Timezone string
}

// FixtureProvider abstracts the upstream fixtures API.
type FixtureProvider interface {
	FetchFixtures(ctx context.Context, query FixtureQuery) ([]ExternalFixture, error)
}
