package playerstat

import "context"

// Repository describes fixture player stat persistence needs from use
// cases.
type Repository interface {
	FindByFixtureAndPlayer(ctx context.Context, fixtureID, playerID string) (PlayerFixtureStat, bool, error)
	Insert(ctx context.Context, row PlayerFixtureStat) error
	Update(ctx context.Context, row PlayerFixtureStat, changed []string) error
}
