package postgres

import (
	"time"

	"github.com/matchpulse/football-data-sync/internal/domain/syncrun"
)

type syncRunTableModel struct {
	PublicID          string     `db:"public_id"`
	LeagueExternalID  int64      `db:"league_external_id"`
	Season            int        `db:"season"`
	Stage             string     `db:"stage"`
	TeamsCreated      int        `db:"teams_created"`
	TeamsUpdated      int        `db:"teams_updated"`
	TeamsUnchanged    int        `db:"teams_unchanged"`
	TeamsSkipped      int        `db:"teams_skipped"`
	TeamsFailed       int        `db:"teams_failed"`
	PlayersCreated    int        `db:"players_created"`
	PlayersUpdated    int        `db:"players_updated"`
	PlayersUnchanged  int        `db:"players_unchanged"`
	PlayersSkipped    int        `db:"players_skipped"`
	PlayersFailed     int        `db:"players_failed"`
	FixturesCreated   int        `db:"fixtures_created"`
	FixturesUpdated   int        `db:"fixtures_updated"`
	FixturesUnchanged int        `db:"fixtures_unchanged"`
	FixturesSkipped   int        `db:"fixtures_skipped"`
	FixturesFailed    int        `db:"fixtures_failed"`
	StatsCreated      int        `db:"stats_created"`
	StatsUpdated      int        `db:"stats_updated"`
	StatsUnchanged    int        `db:"stats_unchanged"`
	StatsSkipped      int        `db:"stats_skipped"`
	StatsFailed       int        `db:"stats_failed"`
	LastError         string     `db:"last_error"`
	StartedAt         time.Time  `db:"started_at"`
	FinishedAt        *time.Time `db:"finished_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func syncRunToTableModel(row syncrun.Run) syncRunTableModel {
	return syncRunTableModel{
		PublicID:          row.ID,
		LeagueExternalID:  row.LeagueExternalID,
		Season:            row.Season,
		Stage:             row.Stage,
		TeamsCreated:      row.Teams.Created,
		TeamsUpdated:      row.Teams.Updated,
		TeamsUnchanged:    row.Teams.Unchanged,
		TeamsSkipped:      row.Teams.Skipped,
		TeamsFailed:       row.Teams.Failed,
		PlayersCreated:    row.Players.Created,
		PlayersUpdated:    row.Players.Updated,
		PlayersUnchanged:  row.Players.Unchanged,
		PlayersSkipped:    row.Players.Skipped,
		PlayersFailed:     row.Players.Failed,
		FixturesCreated:   row.Fixtures.Created,
		FixturesUpdated:   row.Fixtures.Updated,
		FixturesUnchanged: row.Fixtures.Unchanged,
		FixturesSkipped:   row.Fixtures.Skipped,
		FixturesFailed:    row.Fixtures.Failed,
		StatsCreated:      row.FixtureStats.Created,
		StatsUpdated:      row.FixtureStats.Updated,
		StatsUnchanged:    row.FixtureStats.Unchanged,
		StatsSkipped:      row.FixtureStats.Skipped,
		StatsFailed:       row.FixtureStats.Failed,
		LastError:         row.LastError,
		StartedAt:         row.StartedAt,
		FinishedAt:        row.FinishedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func (m syncRunTableModel) toDomain() syncrun.Run {
	return syncrun.Run{
		ID:               m.PublicID,
		LeagueExternalID: m.LeagueExternalID,
		Season:           m.Season,
		Stage:            m.Stage,
		Teams: syncrun.StageCounts{
			Created:   m.TeamsCreated,
			Updated:   m.TeamsUpdated,
			Unchanged: m.TeamsUnchanged,
			Skipped:   m.TeamsSkipped,
			Failed:    m.TeamsFailed,
		},
		Players: syncrun.StageCounts{
			Created:   m.PlayersCreated,
			Updated:   m.PlayersUpdated,
			Unchanged: m.PlayersUnchanged,
			Skipped:   m.PlayersSkipped,
			Failed:    m.PlayersFailed,
		},
		Fixtures: syncrun.StageCounts{
			Created:   m.FixturesCreated,
			Updated:   m.FixturesUpdated,
			Unchanged: m.FixturesUnchanged,
			Skipped:   m.FixturesSkipped,
			Failed:    m.FixturesFailed,
		},
		FixtureStats: syncrun.StageCounts{
			Created:   m.StatsCreated,
			Updated:   m.StatsUpdated,
			Unchanged: m.StatsUnchanged,
			Skipped:   m.StatsSkipped,
			Failed:    m.StatsFailed,
		},
		LastError:  m.LastError,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
