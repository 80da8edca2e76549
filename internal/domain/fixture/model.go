package fixture

import (
	"strings"
	"time"
)

// Fixture represents one scheduled match. Team references point at
// local team rows.
type Fixture struct {
	ID         string
	LeagueID   string
	ExternalID int64
	Season     int
	Round      string
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
	Status     string
	Elapsed    int
	Referee    string
	VenueName  string
	HomeGoals  *int
	AwayGoals  *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return "NS"
	}
	return status
}

// IsFinishedStatus reports whether the upstream short status marks a
// match whose player statistics are final.
func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}
