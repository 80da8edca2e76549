package postgres

import (
	"time"

	"github.com/matchpulse/football-data-sync/internal/domain/fixture"
)

type fixtureTableModel struct {
	PublicID   string    `db:"public_id"`
	LeagueID   string    `db:"league_id"`
	ExternalID int64     `db:"external_id"`
	Season     int       `db:"season"`
	Round      string    `db:"round"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	KickoffAt  time.Time `db:"kickoff_at"`
	Status     string    `db:"status"`
	Elapsed    int       `db:"elapsed"`
	Referee    string    `db:"referee"`
	VenueName  string    `db:"venue_name"`
	HomeGoals  *int      `db:"home_goals"`
	AwayGoals  *int      `db:"away_goals"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func fixtureToTableModel(row fixture.Fixture) fixtureTableModel {
	return fixtureTableModel{
		PublicID:   row.ID,
		LeagueID:   row.LeagueID,
		ExternalID: row.ExternalID,
		Season:     row.Season,
		Round:      row.Round,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		KickoffAt:  row.KickoffAt,
		Status:     row.Status,
		Elapsed:    row.Elapsed,
		Referee:    row.Referee,
		VenueName:  row.VenueName,
		HomeGoals:  row.HomeGoals,
		AwayGoals:  row.AwayGoals,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:         m.PublicID,
		LeagueID:   m.LeagueID,
		ExternalID: m.ExternalID,
		Season:     m.Season,
		Round:      m.Round,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		KickoffAt:  m.KickoffAt,
		Status:     m.Status,
		Elapsed:    m.Elapsed,
		Referee:    m.Referee,
		VenueName:  m.VenueName,
		HomeGoals:  m.HomeGoals,
		AwayGoals:  m.AwayGoals,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
