package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/matchpulse/football-data-sync/internal/domain/player"
)

type playerKey struct {
	externalID int64
	season     int
}

type PlayerRepository struct {
	mu    sync.RWMutex
	byID  map[string]player.Player
	byExt map[playerKey]string
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		byID:  make(map[string]player.Player),
		byExt: make(map[playerKey]string),
	}
}

func (r *PlayerRepository) FindByExternalID(_ context.Context, externalID int64, season int) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExt[playerKey{externalID: externalID, season: season}]
	if !ok {
		return player.Player{}, false, nil
	}

	return r.byID[id], true, nil
}

func (r *PlayerRepository) Insert(_ context.Context, row player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := playerKey{externalID: row.ExternalID, season: row.Season}
	if _, exists := r.byExt[key]; exists {
		return fmt.Errorf("player external_id=%d season=%d already exists", row.ExternalID, row.Season)
	}

	r.byID[row.ID] = row
	r.byExt[key] = row.ID

	return nil
}

func (r *PlayerRepository) Update(_ context.Context, row player.Player, _ []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[row.ID]; !exists {
		return fmt.Errorf("player %s does not exist", row.ID)
	}
	r.byID[row.ID] = row

	return nil
}

func (r *PlayerRepository) ListBySeason(_ context.Context, season int, limit, offset int) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]player.Player, 0)
	for _, row := range r.byID {
		if row.Season == season {
			all = append(all, row)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	if offset >= len(all) {
		return []player.Player{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	return all, nil
}
