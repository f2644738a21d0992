package querybuilder

import "testing"

func TestSelect_WhereAndOrder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "external_id").From("matches").
		Where(Eq("league_id", int64(7))).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "SELECT id, external_id FROM matches WHERE league_id = $1 ORDER BY kickoff_at, id"
	if query != want {
		t.Fatalf("query=%q, want %q", query, want)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Fatalf("args=%v, want [7]", args)
	}
}

func TestInsertModel_BuildsUpsertWithSuffix(t *testing.T) {
	t.Parallel()

	type row struct {
		ExternalID string `db:"external_id"`
		Name       string `db:"name"`
		ignored    string `db:"-"`
	}

	query, args, err := InsertModel("leagues", row{ExternalID: "71", Name: "Serie A"},
		"ON CONFLICT (external_id) DO UPDATE SET name = EXCLUDED.name RETURNING id, (xmax = 0) AS inserted")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "INSERT INTO leagues (external_id, name) VALUES ($1, $2) " +
		"ON CONFLICT (external_id) DO UPDATE SET name = EXCLUDED.name RETURNING id, (xmax = 0) AS inserted"
	if query != want {
		t.Fatalf("query=%q, want %q", query, want)
	}
	if len(args) != 2 || args[0] != "71" || args[1] != "Serie A" {
		t.Fatalf("args=%v", args)
	}
}
