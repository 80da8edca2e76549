package postgres

import (
	"time"

	"github.com/matchpulse/football-data-sync/internal/domain/team"
)

type teamTableModel struct {
	PublicID   string    `db:"public_id"`
	LeagueID   string    `db:"league_id"`
	ExternalID int64     `db:"external_id"`
	Season     int       `db:"season"`
	Name       string    `db:"name"`
	Code       string    `db:"code"`
	Country    string    `db:"country"`
	Founded    int       `db:"founded"`
	LogoURL    string    `db:"logo_url"`
	VenueName  string    `db:"venue_name"`
	VenueCity  string    `db:"venue_city"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func teamToTableModel(row team.Team) teamTableModel {
	return teamTableModel{
		PublicID:   row.ID,
		LeagueID:   row.LeagueID,
		ExternalID: row.ExternalID,
		Season:     row.Season,
		Name:       row.Name,
		Code:       row.Code,
		Country:    row.Country,
		Founded:    row.Founded,
		LogoURL:    row.LogoURL,
		VenueName:  row.VenueName,
		VenueCity:  row.VenueCity,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:         m.PublicID,
		LeagueID:   m.LeagueID,
		ExternalID: m.ExternalID,
		Season:     m.Season,
		Name:       m.Name,
		Code:       m.Code,
		Country:    m.Country,
		Founded:    m.Founded,
		LogoURL:    m.LogoURL,
		VenueName:  m.VenueName,
		VenueCity:  m.VenueCity,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
