package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fixturelab/fixture-sync/internal/domain/league"
	"github.com/fixturelab/fixture-sync/internal/platform/querybuilder"
)

const leagueUpsertSuffix = `ON CONFLICT (external_id) DO UPDATE SET
name = EXCLUDED.name,
slug = EXCLUDED.slug,
country = EXCLUDED.country,
updated_at = now()
RETURNING id, (xmax = 0) AS inserted`

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

// Upsert writes the league keyed on its provider external id and reports
// whether the row was created.
func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) (int64, bool, error) {
	if err := item.Validate(); err != nil {
		return 0, false, err
	}

	query, args, err := querybuilder.InsertModel("leagues", leagueInsertRow(item), leagueUpsertSuffix)
	if err != nil {
		return 0, false, fmt.Errorf("build league upsert: %w", err)
	}

	var out upsertResult
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&out); err != nil {
		return 0, false, fmt.Errorf("upsert league external_id=%s: %w", item.ExternalID, err)
	}
	return out.ID, out.Inserted, nil
}

func (r *LeagueRepository) GetByExternalID(ctx context.Context, externalID string) (league.League, bool, error) {
	query, args, err := querybuilder.Select("id", "external_id", "name", "slug", "country").
		From("leagues").
		Where(querybuilder.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build league query: %w", err)
	}

	var row leagueRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league external_id=%s: %w", externalID, err)
	}
	return row.toDomain(), true, nil
}

type upsertResult struct {
	ID       int64 `db:"id"`
	Inserted bool  `db:"inserted"`
}
