package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, item Team) (int64, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Team, bool, error)
}
