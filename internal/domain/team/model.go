package team

import (
	"fmt"
	"time"
)

// Team is one club inside a league season.
type Team struct {
	ID         string
	LeagueID   string
	ExternalID int64
	Season     int
	Name       string
	Code       string
	Country    string
	Founded    int
	LogoURL    string
	VenueName  string
	VenueCity  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.ExternalID <= 0 {
		return fmt.Errorf("team external id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
