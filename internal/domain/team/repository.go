package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	FindByExternalID(ctx context.Context, externalID int64, season int) (Team, bool, error)
	Insert(ctx context.Context, row Team) error
	Update(ctx context.Context, row Team, changed []string) error
	ListBySeason(ctx context.Context, leagueID string, season int) ([]Team, error)
}
