package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/matchpulse/football-data-sync/internal/domain/team"
)

type teamKey struct {
	externalID int64
	season     int
}

type TeamRepository struct {
	mu    sync.RWMutex
	byID  map[string]team.Team
	byExt map[teamKey]string
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		byID:  make(map[string]team.Team),
		byExt: make(map[teamKey]string),
	}
}

func (r *TeamRepository) FindByExternalID(_ context.Context, externalID int64, season int) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExt[teamKey{externalID: externalID, season: season}]
	if !ok {
		return team.Team{}, false, nil
	}

	return r.byID[id], true, nil
}

func (r *TeamRepository) Insert(_ context.Context, row team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := teamKey{externalID: row.ExternalID, season: row.Season}
	if _, exists := r.byExt[key]; exists {
		return fmt.Errorf("team external_id=%d season=%d already exists", row.ExternalID, row.Season)
	}

	r.byID[row.ID] = row
	r.byExt[key] = row.ID

	return nil
}

func (r *TeamRepository) Update(_ context.Context, row team.Team, _ []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[row.ID]; !exists {
		return fmt.Errorf("team %s does not exist", row.ID)
	}
	r.byID[row.ID] = row

	return nil
}

func (r *TeamRepository) ListBySeason(_ context.Context, leagueID string, season int) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, row := range r.byID {
		if row.LeagueID == leagueID && row.Season == season {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}
