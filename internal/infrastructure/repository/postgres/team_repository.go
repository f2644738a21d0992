package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fixturelab/fixture-sync/internal/domain/team"
	"github.com/fixturelab/fixture-sync/internal/platform/querybuilder"
)

const teamUpsertSuffix = `ON CONFLICT (external_id) DO UPDATE SET
name = EXCLUDED.name,
slug = EXCLUDED.slug,
logo_url = EXCLUDED.logo_url,
updated_at = now()
RETURNING id, (xmax = 0) AS inserted`

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) (int64, bool, error) {
	if err := item.Validate(); err != nil {
		return 0, false, err
	}

	query, args, err := querybuilder.InsertModel("teams", teamInsertRow(item), teamUpsertSuffix)
	if err != nil {
		return 0, false, fmt.Errorf("build team upsert: %w", err)
	}

	var out upsertResult
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&out); err != nil {
		return 0, false, fmt.Errorf("upsert team external_id=%s: %w", item.ExternalID, err)
	}
	return out.ID, out.Inserted, nil
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID string) (team.Team, bool, error) {
	query, args, err := querybuilder.Select("id", "external_id", "name", "slug", "logo_url").
		From("teams").
		Where(querybuilder.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build team query: %w", err)
	}

	var row teamRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team external_id=%s: %w", externalID, err)
	}
	return row.toDomain(), true, nil
}
