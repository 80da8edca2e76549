package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	FindByExternalID(ctx context.Context, externalID int64, season int) (League, bool, error)
	Insert(ctx context.Context, row League) error
	Update(ctx context.Context, row League, changed []string) error
}
