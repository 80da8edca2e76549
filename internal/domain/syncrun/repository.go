package syncrun

import "context"

// Repository describes sync run persistence needs from use cases.
type Repository interface {
	Insert(ctx context.Context, row Run) error
	Update(ctx context.Context, row Run) error
	GetByID(ctx context.Context, id string) (Run, bool, error)
	FindLatestByKey(ctx context.Context, leagueExternalID int64, season int) (Run, bool, error)
}
