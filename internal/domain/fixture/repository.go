package fixture

import "context"

// Repository describes fixture persistence needs from use cases.
type Repository interface {
	FindByExternalID(ctx context.Context, externalID int64) (Fixture, bool, error)
	Insert(ctx context.Context, row Fixture) error
	Update(ctx context.Context, row Fixture, changed []string) error
	ListBySeason(ctx context.Context, leagueID string, season int) ([]Fixture, error)
}
