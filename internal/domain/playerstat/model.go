package playerstat

import "time"

// PlayerFixtureStat is one player's line in one finished fixture.
type PlayerFixtureStat struct {
	ID            string
	FixtureID     string
	PlayerID      string
	TeamID        string
	MinutesPlayed int
	Position      string
	Rating        string
	Goals         int
	Assists       int
	GoalsConceded int
	Saves         int
	Shots         int
	ShotsOnTarget int
	Passes        int
	Tackles       int
	YellowCards   int
	RedCards      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
