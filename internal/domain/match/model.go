package match

import (
	"fmt"
	"time"
)

// Match is one fixture row. ExternalID is the idempotency key: exactly one row
// exists per external id no matter how many times the pipeline runs. Home/away
// team ids stay nil when the provider omitted the team's external id.
type Match struct {
	ID         int64
	ExternalID string
	LeagueID   int64
	HomeTeamID *int64
	AwayTeamID *int64
	Venue      string
	KickoffAt  time.Time
	Status     Status
	Round      string
	Season     int
	Payload    string
	UpdatedAt  time.Time
}

func (m Match) Validate() error {
	if m.ExternalID == "" {
		return fmt.Errorf("match external id is required")
	}
	if m.LeagueID <= 0 {
		return fmt.Errorf("match league id is required")
	}
	if m.KickoffAt.IsZero() {
		return fmt.Errorf("match kickoff_at is required")
	}

	return nil
}
