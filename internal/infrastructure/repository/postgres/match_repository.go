package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fixturelab/fixture-sync/internal/domain/match"
	"github.com/fixturelab/fixture-sync/internal/platform/querybuilder"
)

const matchUpsertSuffix = `ON CONFLICT (external_id) DO UPDATE SET
league_id = EXCLUDED.league_id,
home_team_id = EXCLUDED.home_team_id,
away_team_id = EXCLUDED.away_team_id,
venue = EXCLUDED.venue,
kickoff_at = EXCLUDED.kickoff_at,
status = EXCLUDED.status,
round = EXCLUDED.round,
season = EXCLUDED.season,
payload = EXCLUDED.payload,
updated_at = now()
RETURNING id, (xmax = 0) AS inserted`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.UpsertOutcome, error) {
	outcome := match.UpsertOutcome{ExternalID: item.ExternalID}
	if err := item.Validate(); err != nil {
		outcome.Err = err
		return outcome, err
	}

	query, args, err := querybuilder.InsertModel("matches", matchInsertRow(item), matchUpsertSuffix)
	if err != nil {
		err = fmt.Errorf("build match upsert: %w", err)
		outcome.Err = err
		return outcome, err
	}

	var out upsertResult
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&out); err != nil {
		err = fmt.Errorf("upsert match external_id=%s: %w", item.ExternalID, err)
		outcome.Err = err
		return outcome, err
	}

	outcome.ID = out.ID
	outcome.Created = out.Inserted
	return outcome, nil
}

// UpsertMany writes a batch inside one transaction. When the transaction
// fails it degrades to per-row upserts so a single poison row cannot sink
// the whole page; per-row failures land in the outcome's Err field.
func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) ([]match.UpsertOutcome, error) {
	if len(items) == 0 {
		return nil, nil
	}

	outcomes, err := r.upsertManyTx(ctx, items)
	if err == nil {
		return outcomes, nil
	}

	outcomes = make([]match.UpsertOutcome, 0, len(items))
	for _, item := range items {
		outcome, _ := r.Upsert(ctx, item)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (r *MatchRepository) upsertManyTx(ctx context.Context, items []match.Match) ([]match.UpsertOutcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin match batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	outcomes := make([]match.UpsertOutcome, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}

		query, args, err := querybuilder.InsertModel("matches", matchInsertRow(item), matchUpsertSuffix)
		if err != nil {
			return nil, fmt.Errorf("build match upsert: %w", err)
		}

		var out upsertResult
		if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&out); err != nil {
			return nil, fmt.Errorf("upsert match external_id=%s: %w", item.ExternalID, err)
		}
		outcomes = append(outcomes, match.UpsertOutcome{
			ExternalID: item.ExternalID,
			ID:         out.ID,
			Created:    out.Inserted,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit match batch: %w", err)
	}
	return outcomes, nil
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID string) (match.Match, bool, error) {
	query, args, err := querybuilder.Select(
		"id", "external_id", "league_id", "home_team_id", "away_team_id",
		"venue", "kickoff_at", "status", "round", "season", "payload", "updated_at",
	).
		From("matches").
		Where(querybuilder.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build match query: %w", err)
	}

	var row matchRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match external_id=%s: %w", externalID, err)
	}
	return row.toDomain(), true, nil
}
