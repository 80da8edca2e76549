package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matchpulse/football-data-sync/internal/domain/league"
)

type leagueKey struct {
	externalID int64
	season     int
}

// LeagueRepository keeps league rows in process memory. It backs local
// development and tests when no database is configured.
type LeagueRepository struct {
	mu    sync.RWMutex
	byID  map[string]league.League
	byExt map[leagueKey]string
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		byID:  make(map[string]league.League),
		byExt: make(map[leagueKey]string),
	}
}

func (r *LeagueRepository) FindByExternalID(_ context.Context, externalID int64, season int) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExt[leagueKey{externalID: externalID, season: season}]
	if !ok {
		return league.League{}, false, nil
	}

	return r.byID[id], true, nil
}

func (r *LeagueRepository) Insert(_ context.Context, row league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := leagueKey{externalID: row.ExternalID, season: row.Season}
	if _, exists := r.byExt[key]; exists {
		return fmt.Errorf("league external_id=%d season=%d already exists", row.ExternalID, row.Season)
	}

	r.byID[row.ID] = row
	r.byExt[key] = row.ID

	return nil
}

func (r *LeagueRepository) Update(_ context.Context, row league.League, _ []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[row.ID]; !exists {
		return fmt.Errorf("league %s does not exist", row.ID)
	}
	r.byID[row.ID] = row

	return nil
}
