package league

import "context"

// Repository describes league persistence needs from use cases. Upsert inserts or
// updates by external id and reports whether a new row was created.
type Repository interface {
	Upsert(ctx context.Context, item League) (int64, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (League, bool, error)
}
