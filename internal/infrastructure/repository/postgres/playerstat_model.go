package postgres

import (
	"time"

	"github.com/matchpulse/football-data-sync/internal/domain/playerstat"
)

type playerStatTableModel struct {
	PublicID      string    `db:"public_id"`
	FixtureID     string    `db:"fixture_id"`
	PlayerID      string    `db:"player_id"`
	TeamID        string    `db:"team_id"`
	MinutesPlayed int       `db:"minutes_played"`
	Position      string    `db:"position"`
	Rating        string    `db:"rating"`
	Goals         int       `db:"goals"`
	Assists       int       `db:"assists"`
	GoalsConceded int       `db:"goals_conceded"`
	Saves         int       `db:"saves"`
	Shots         int       `db:"shots"`
	ShotsOnTarget int       `db:"shots_on_target"`
	Passes        int       `db:"passes"`
	Tackles       int       `db:"tackles"`
	YellowCards   int       `db:"yellow_cards"`
	RedCards      int       `db:"red_cards"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func playerStatToTableModel(row playerstat.PlayerFixtureStat) playerStatTableModel {
	return playerStatTableModel{
		PublicID:      row.ID,
		FixtureID:     row.FixtureID,
		PlayerID:      row.PlayerID,
		TeamID:        row.TeamID,
		MinutesPlayed: row.MinutesPlayed,
		Position:      row.Position,
		Rating:        row.Rating,
		Goals:         row.Goals,
		Assists:       row.Assists,
		GoalsConceded: row.GoalsConceded,
		Saves:         row.Saves,
		Shots:         row.Shots,
		ShotsOnTarget: row.ShotsOnTarget,
		Passes:        row.Passes,
		Tackles:       row.Tackles,
		YellowCards:   row.YellowCards,
		RedCards:      row.RedCards,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func (m playerStatTableModel) toDomain() playerstat.PlayerFixtureStat {
	return playerstat.PlayerFixtureStat{
		ID:            m.PublicID,
		FixtureID:     m.FixtureID,
		PlayerID:      m.PlayerID,
		TeamID:        m.TeamID,
		MinutesPlayed: m.MinutesPlayed,
		Position:      m.Position,
		Rating:        m.Rating,
		Goals:         m.Goals,
		Assists:       m.Assists,
		GoalsConceded: m.GoalsConceded,
		Saves:         m.Saves,
		Shots:         m.Shots,
		ShotsOnTarget: m.ShotsOnTarget,
		Passes:        m.Passes,
		Tackles:       m.Tackles,
		YellowCards:   m.YellowCards,
		RedCards:      m.RedCards,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
