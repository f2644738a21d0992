package postgres

import (
	"database/sql"
	"time"

	"github.com/fixturelab/fixture-sync/internal/domain/league"
	"github.com/fixturelab/fixture-sync/internal/domain/match"
	"github.com/fixturelab/fixture-sync/internal/domain/team"
)

type leagueRow struct {
	ID         int64          `db:"id"`
	ExternalID string         `db:"external_id"`
	Name       string         `db:"name"`
	Slug       sql.NullString `db:"slug"`
	Country    sql.NullString `db:"country"`
}

func leagueInsertRow(item league.League) leagueInsert {
	return leagueInsert{
		ExternalID: item.ExternalID,
		Name:       item.Name,
		Slug:       nullString(item.Slug),
		Country:    nullString(item.Country),
	}
}

// leagueInsert omits the id column so InsertModel only binds writable columns.
type leagueInsert struct {
	ExternalID string         `db:"external_id"`
	Name       string         `db:"name"`
	Slug       sql.NullString `db:"slug"`
	Country    sql.NullString `db:"country"`
}

func (r leagueRow) toDomain() league.League {
	return league.League{
		ID:         r.ID,
		ExternalID: r.ExternalID,
		Name:       r.Name,
		Slug:       r.Slug.String,
		Country:    r.Country.String,
	}
}

type teamRow struct {
	ID         int64          `db:"id"`
	ExternalID string         `db:"external_id"`
	Name       string         `db:"name"`
	Slug       sql.NullString `db:"slug"`
	LogoURL    sql.NullString `db:"logo_url"`
}

type teamInsert struct {
	ExternalID string         `db:"external_id"`
	Name       string         `db:"name"`
	Slug       sql.NullString `db:"slug"`
	LogoURL    sql.NullString `db:"logo_url"`
}

func teamInsertRow(item team.Team) teamInsert {
	return teamInsert{
		ExternalID: item.ExternalID,
		Name:       item.Name,
		Slug:       nullString(item.Slug),
		LogoURL:    nullString(item.LogoURL),
	}
}

func (r teamRow) toDomain() team.Team {
	return team.Team{
		ID:         r.ID,
		ExternalID: r.ExternalID,
		Name:       r.Name,
		Slug:       r.Slug.String,
		LogoURL:    r.LogoURL.String,
	}
}

type matchRow struct {
	ID         int64          `db:"id"`
	ExternalID string         `db:"external_id"`
	LeagueID   int64          `db:"league_id"`
	HomeTeamID sql.NullInt64  `db:"home_team_id"`
	AwayTeamID sql.NullInt64  `db:"away_team_id"`
	Venue      sql.NullString `db:"venue"`
	KickoffAt  time.Time      `db:"kickoff_at"`
	Status     string         `db:"status"`
	Round      sql.NullString `db:"round"`
	Season     int            `db:"season"`
	Payload    sql.NullString `db:"payload"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type matchInsert struct {
	ExternalID string         `db:"external_id"`
	LeagueID   int64          `db:"league_id"`
	HomeTeamID sql.NullInt64  `db:"home_team_id"`
	AwayTeamID sql.NullInt64  `db:"away_team_id"`
	Venue      sql.NullString `db:"venue"`
	KickoffAt  time.Time      `db:"kickoff_at"`
	Status     string         `db:"status"`
	Round      sql.NullString `db:"round"`
	Season     int            `db:"season"`
	Payload    sql.NullString `db:"payload"`
}

func matchInsertRow(item match.Match) matchInsert {
	return matchInsert{
		ExternalID: item.ExternalID,
		LeagueID:   item.LeagueID,
		HomeTeamID: nullInt64(item.HomeTeamID),
		AwayTeamID: nullInt64(item.AwayTeamID),
		Venue:      nullString(item.Venue),
		KickoffAt:  item.KickoffAt.UTC(),
		Status:     string(item.Status),
		Round:      nullString(item.Round),
		Season:     item.Season,
		Payload:    nullString(item.Payload),
	}
}

func (r matchRow) toDomain() match.Match {
	return match.Match{
		ID:         r.ID,
		ExternalID: r.ExternalID,
		LeagueID:   r.LeagueID,
		HomeTeamID: int64Ptr(r.HomeTeamID),
		AwayTeamID: int64Ptr(r.AwayTeamID),
		Venue:      r.Venue.String,
		KickoffAt:  r.KickoffAt.UTC(),
		Status:     match.Status(r.Status),
		Round:      r.Round.String,
		Season:     r.Season,
		Payload:    r.Payload.String,
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}
