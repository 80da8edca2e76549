package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matchpulse/football-data-sync/internal/domain/fixture"
	"github.com/matchpulse/football-data-sync/internal/domain/player"
	"github.com/matchpulse/football-data-sync/internal/domain/syncrun"
)

func TestSyncRunToDTO(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	finished := started.Add(42 * time.Second)

	dto := syncRunToDTO(syncrun.Run{
		ID:               "run_7f3c",
		LeagueExternalID: 39,
		Season:           2025,
		Stage:            syncrun.StageCompleted,
		Teams:            syncrun.StageCounts{Created: 20},
		Players:          syncrun.StageCounts{Created: 480, Failed: 3},
		StartedAt:        started,
		FinishedAt:       &finished,
		UpdatedAt:        finished,
	})

	require.Equal(t, "run_7f3c", dto.RunID)
	require.Equal(t, int64(39), dto.LeagueID)
	require.Equal(t, 2025, dto.Season)
	require.Equal(t, syncrun.StageCompleted, dto.Stage)
	require.Equal(t, 20, dto.Teams.Created)
	require.Equal(t, 3, dto.Players.Failed)
	require.Equal(t, "2026-03-01T12:00:00Z", dto.StartedAt)
	require.Equal(t, "2026-03-01T12:00:42Z", dto.FinishedAt)
	require.Empty(t, dto.LastError)
}

func TestSyncRunToDTO_UnfinishedRunHasNoFinishedAt(t *testing.T) {
	t.Parallel()

	dto := syncRunToDTO(syncrun.Run{
		ID:        "run_a1b2",
		Stage:     syncrun.StageTeams,
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	require.Empty(t, dto.FinishedAt)
}

func TestPlayerToDTO_BirthDate(t *testing.T) {
	t.Parallel()

	birth := time.Date(1998, 7, 21, 0, 0, 0, 0, time.UTC)
	dto := playerToDTO(player.Player{ID: "ply_1", Name: "Bukayo Saka", BirthDate: &birth})
	require.Equal(t, "1998-07-21", dto.BirthDate)

	dto = playerToDTO(player.Player{ID: "ply_2", Name: "Unknown Trialist"})
	require.Empty(t, dto.BirthDate)
}

func TestFixtureToDTO_NormalizesStatus(t *testing.T) {
	t.Parallel()

	goals := 2
	dto := fixtureToDTO(fixture.Fixture{
		ID:        "fix_1",
		Status:    "ft",
		KickoffAt: time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
		HomeGoals: &goals,
	})

	require.Equal(t, "FT", dto.Status)
	require.Equal(t, "2026-03-01T15:00:00Z", dto.KickoffAt)
	require.NotNil(t, dto.HomeGoals)
	require.Equal(t, 2, *dto.HomeGoals)
	require.Nil(t, dto.AwayGoals)
}
