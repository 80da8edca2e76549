package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matchpulse/football-data-sync/internal/domain/syncrun"
)

type SyncRunRepository struct {
	mu   sync.RWMutex
	byID map[string]syncrun.Run
	// order preserves insertion so the latest run per key wins lookups.
	order []string
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{byID: make(map[string]syncrun.Run)}
}

func (r *SyncRunRepository) Insert(_ context.Context, row syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[row.ID]; exists {
		return fmt.Errorf("run %s already exists", row.ID)
	}

	r.byID[row.ID] = row
	r.order = append(r.order, row.ID)

	return nil
}

func (r *SyncRunRepository) Update(_ context.Context, row syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[row.ID]; !exists {
		return fmt.Errorf("run %s does not exist", row.ID)
	}
	r.byID[row.ID] = row

	return nil
}

func (r *SyncRunRepository) GetByID(_ context.Context, id string) (syncrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byID[id]

	return row, ok, nil
}

func (r *SyncRunRepository) FindLatestByKey(_ context.Context, leagueExternalID int64, season int) (syncrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		row := r.byID[r.order[i]]
		if row.LeagueExternalID == leagueExternalID && row.Season == season {
			return row, true, nil
		}
	}

	return syncrun.Run{}, false, nil
}
