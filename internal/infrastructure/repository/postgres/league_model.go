package postgres

import (
	"time"

	"github.com/matchpulse/football-data-sync/internal/domain/league"
)

type leagueTableModel struct {
	PublicID    string     `db:"public_id"`
	ExternalID  int64      `db:"external_id"`
	Season      int        `db:"season"`
	Name        string     `db:"name"`
	Type        string     `db:"type"`
	Country     string     `db:"country"`
	CountryCode string     `db:"country_code"`
	LogoURL     string     `db:"logo_url"`
	SeasonStart *time.Time `db:"season_start"`
	SeasonEnd   *time.Time `db:"season_end"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func leagueToTableModel(row league.League) leagueTableModel {
	return leagueTableModel{
		PublicID:    row.ID,
		ExternalID:  row.ExternalID,
		Season:      row.Season,
		Name:        row.Name,
		Type:        row.Type,
		Country:     row.Country,
		CountryCode: row.CountryCode,
		LogoURL:     row.LogoURL,
		SeasonStart: row.SeasonStart,
		SeasonEnd:   row.SeasonEnd,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:          m.PublicID,
		ExternalID:  m.ExternalID,
		Season:      m.Season,
		Name:        m.Name,
		Type:        m.Type,
		Country:     m.Country,
		CountryCode: m.CountryCode,
		LogoURL:     m.LogoURL,
		SeasonStart: m.SeasonStart,
		SeasonEnd:   m.SeasonEnd,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
