package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	FindByExternalID(ctx context.Context, externalID int64, season int) (Player, bool, error)
	Insert(ctx context.Context, row Player) error
	Update(ctx context.Context, row Player, changed []string) error
	ListBySeason(ctx context.Context, season int, limit, offset int) ([]Player, error)
}
