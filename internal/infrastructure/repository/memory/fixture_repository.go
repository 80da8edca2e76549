package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/matchpulse/football-data-sync/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	byID  map[string]fixture.Fixture
	byExt map[int64]string
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{
		byID:  make(map[string]fixture.Fixture),
		byExt: make(map[int64]string),
	}
}

func (r *FixtureRepository) FindByExternalID(_ context.Context, externalID int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExt[externalID]
	if !ok {
		return fixture.Fixture{}, false, nil
	}

	return r.byID[id], true, nil
}

func (r *FixtureRepository) Insert(_ context.Context, row fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byExt[row.ExternalID]; exists {
		return fmt.Errorf("fixture external_id=%d already exists", row.ExternalID)
	}

	r.byID[row.ID] = row
	r.byExt[row.ExternalID] = row.ID

	return nil
}

func (r *FixtureRepository) Update(_ context.Context, row fixture.Fixture, _ []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[row.ID]; !exists {
		return fmt.Errorf("fixture %s does not exist", row.ID)
	}
	r.byID[row.ID] = row

	return nil
}

func (r *FixtureRepository) ListBySeason(_ context.Context, leagueID string, season int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, row := range r.byID {
		if row.LeagueID == leagueID && row.Season == season {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KickoffAt.Before(out[j].KickoffAt) })

	return out, nil
}
