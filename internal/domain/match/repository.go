package match

import "context"

// UpsertOutcome reports what the store did with one candidate row. Created comes
// from the store's own change indicator, not from timestamp comparison, so
// re-runs classify reliably.
type UpsertOutcome struct {
	ExternalID string
	ID         int64
	Created    bool
	Err        error
}

// Repository describes match persistence needs from use cases. UpsertMany writes
// a closed batch: it attempts one transactional upsert and degrades to per-row
// writes when the batch fails, so one bad row cannot sink the rest.
type Repository interface {
	Upsert(ctx context.Context, item Match) (UpsertOutcome, error)
	UpsertMany(ctx context.Context, items []Match) ([]UpsertOutcome, error)
	GetByExternalID(ctx context.Context, externalID string) (Match, bool, error)
}
