package postgres

import (
	"time"

	"github.com/matchpulse/football-data-sync/internal/domain/player"
)

type playerTableModel struct {
	PublicID    string     `db:"public_id"`
	TeamID      string     `db:"team_id"`
	ExternalID  int64      `db:"external_id"`
	Season      int        `db:"season"`
	Name        string     `db:"name"`
	FirstName   string     `db:"first_name"`
	LastName    string     `db:"last_name"`
	Nationality string     `db:"nationality"`
	Position    string     `db:"position"`
	Number      int        `db:"number"`
	Height      string     `db:"height"`
	Weight      string     `db:"weight"`
	PhotoURL    string     `db:"photo_url"`
	BirthDate   *time.Time `db:"birth_date"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func playerToTableModel(row player.Player) playerTableModel {
	return playerTableModel{
		PublicID:    row.ID,
		TeamID:      row.TeamID,
		ExternalID:  row.ExternalID,
		Season:      row.Season,
		Name:        row.Name,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Nationality: row.Nationality,
		Position:    row.Position,
		Number:      row.Number,
		Height:      row.Height,
		Weight:      row.Weight,
		PhotoURL:    row.PhotoURL,
		BirthDate:   row.BirthDate,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:          m.PublicID,
		TeamID:      m.TeamID,
		ExternalID:  m.ExternalID,
		Season:      m.Season,
		Name:        m.Name,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Nationality: m.Nationality,
		Position:    m.Position,
		Number:      m.Number,
		Height:      m.Height,
		Weight:      m.Weight,
		PhotoURL:    m.PhotoURL,
		BirthDate:   m.BirthDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
