package syncrun

import (
	"fmt"
	"time"
)

const (
	StagePending      = "pending"
	StageTeams        = "teams"
	StagePlayers      = "players"
	StageFixtures     = "fixtures"
	StageFixtureStats = "fixture_stats"
	StageCompleted    = "completed"
	StageFailed       = "failed"
)

// StageCounts accumulates per-record outcomes for one pipeline stage.
type StageCounts struct {
	Created   int
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
}

func (c StageCounts) Total() int {
	return c.Created + c.Updated + c.Unchanged + c.Skipped + c.Failed
}

// Run is the audit record for one sync of a league season. Stage moves
// forward through the pipeline and lands on completed or failed; counts
// survive a failure so a partial run stays inspectable.
type Run struct {
	ID               string
	LeagueExternalID int64
	Season           int
	Stage            string
	Teams            StageCounts
	Players          StageCounts
	Fixtures         StageCounts
	FixtureStats     StageCounts
	LastError        string
	StartedAt        time.Time
	FinishedAt       *time.Time
	UpdatedAt        time.Time
}

func (r Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if r.LeagueExternalID <= 0 {
		return fmt.Errorf("run league external id is required")
	}
	if r.Season <= 0 {
		return fmt.Errorf("run season is required")
	}

	return nil
}

// Active reports whether the run still owns its league/season key.
func (r Run) Active() bool {
	switch r.Stage {
	case StageCompleted, StageFailed:
		return false
	default:
		return true
	}
}
