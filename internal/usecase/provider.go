package usecase

import (
	"context"
	"time"
)

// FootballDataProvider is the upstream surface the sync pipeline consumes.
// Walk methods visit pages strictly in order; returning an error from the
// visitor aborts the walk and surfaces that error.
type FootballDataProvider interface {
	FetchLeague(ctx context.Context, leagueID int64, season int) (ExternalLeague, error)
	WalkTeams(ctx context.Context, leagueID int64, season int, fn func([]ExternalTeam) error) error
	WalkPlayers(ctx context.Context, teamExternalID int64, season int, fn func([]ExternalPlayer) error) error
	WalkFixtures(ctx context.Context, leagueID int64, season int, fn func([]ExternalFixture) error) error
	FetchFixturePlayerStats(ctx context.Context, fixtureExternalID int64) ([]ExternalPlayerFixtureStat, error)
}

type ExternalLeague struct {
	ExternalID  int64
	Name        string
	Type        string
	Country     string
	CountryCode string
	LogoURL     string
	Season      int
	SeasonStart *time.Time
	SeasonEnd   *time.Time
}

type ExternalTeam struct {
	ExternalID int64
	Name       string
	Code       string
	Country    string
	Founded    int
	LogoURL    string
	VenueName  string
	VenueCity  string
}

type ExternalPlayer struct {
	ExternalID     int64
	TeamExternalID int64
	Name           string
	FirstName      string
	LastName       string
	Nationality    string
	Position       string
	Number         int
	Height         string
	Weight         string
	PhotoURL       string
	BirthDate      *time.Time
}

type ExternalFixture struct {
	ExternalID         int64
	LeagueExternalID   int64
	Season             int
	Round              string
	HomeTeamExternalID int64
	AwayTeamExternalID int64
	KickoffAt          time.Time
	Status             string
	Elapsed            int
	Referee            string
	VenueName          string
	HomeGoals          *int
	AwayGoals          *int
}

type ExternalPlayerFixtureStat struct {
	FixtureExternalID int64
	PlayerExternalID  int64
	TeamExternalID    int64
	MinutesPlayed     int
	Position          string
	Rating            string
	Goals             int
	Assists           int
	GoalsConceded     int
	Saves             int
	Shots             int
	ShotsOnTarget     int
	Passes            int
	Tackles           int
	YellowCards       int
	RedCards          int
}
