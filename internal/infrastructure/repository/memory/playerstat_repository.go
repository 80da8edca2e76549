package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matchpulse/football-data-sync/internal/domain/playerstat"
)

type statKey struct {
	fixtureID string
	playerID  string
}

type PlayerStatRepository struct {
	mu    sync.RWMutex
	byID  map[string]playerstat.PlayerFixtureStat
	byKey map[statKey]string
}

func NewPlayerStatRepository() *PlayerStatRepository {
	return &PlayerStatRepository{
		byID:  make(map[string]playerstat.PlayerFixtureStat),
		byKey: make(map[statKey]string),
	}
}

func (r *PlayerStatRepository) FindByFixtureAndPlayer(_ context.Context, fixtureID, playerID string) (playerstat.PlayerFixtureStat, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[statKey{fixtureID: fixtureID, playerID: playerID}]
	if !ok {
		return playerstat.PlayerFixtureStat{}, false, nil
	}

	return r.byID[id], true, nil
}

func (r *PlayerStatRepository) Insert(_ context.Context, row playerstat.PlayerFixtureStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := statKey{fixtureID: row.FixtureID, playerID: row.PlayerID}
	if _, exists := r.byKey[key]; exists {
		return fmt.Errorf("stat fixture=%s player=%s already exists", row.FixtureID, row.PlayerID)
	}

	r.byID[row.ID] = row
	r.byKey[key] = row.ID

	return nil
}

func (r *PlayerStatRepository) Update(_ context.Context, row playerstat.PlayerFixtureStat, _ []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[row.ID]; !exists {
		return fmt.Errorf("stat %s does not exist", row.ID)
	}
	r.byID[row.ID] = row

	return nil
}
