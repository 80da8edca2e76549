package apifootball

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchpulse/football-data-sync/internal/usecase"
)

// Paging mirrors the upstream paging block. A page set with no paging
// block is treated as a single page.
type Paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Envelope is the fixed response shape every upstream endpoint uses.
// Errors and Paging are normalized at decode time: the provider encodes
// "no errors" as an empty array and "no paging" as an empty object, and
// both collapse to nil here.
type Envelope struct {
	Get        string          `json:"get"`
	Parameters json.RawMessage `json:"parameters"`
	Errors     json.RawMessage `json:"errors"`
	Results    int             `json:"results"`
	Paging     *Paging         `json:"paging"`
	Response   json.RawMessage `json:"response"`
}

// PageTotal reports how many pages the envelope declares, defaulting to
// one when the paging block is absent or empty.
func (e *Envelope) PageTotal() int {
	if e.Paging == nil || e.Paging.Total <= 0 {
		return 1
	}
	return e.Paging.Total
}

type rawEnvelope struct {
	Get        *string         `json:"get"`
	Parameters json.RawMessage `json:"parameters"`
	Errors     json.RawMessage `json:"errors"`
	Results    int             `json:"results"`
	Paging     json.RawMessage `json:"paging"`
	Response   json.RawMessage `json:"response"`
}

func parseEnvelope(raw []byte) (*Envelope, error) {
	var decoded rawEnvelope
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", usecase.ErrUpstreamFormat, err)
	}
	if decoded.Get == nil || decoded.Response == nil {
		return nil, fmt.Errorf("%w: envelope missing get or response field", usecase.ErrUpstreamFormat)
	}

	if messages := decodeEnvelopeErrors(decoded.Errors); len(messages) > 0 {
		return nil, fmt.Errorf("%w: upstream reported: %s", usecase.ErrUpstreamFormat, strings.Join(messages, "; "))
	}

	paging, err := decodePaging(decoded.Paging)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Get:        *decoded.Get,
		Parameters: decoded.Parameters,
		Results:    decoded.Results,
		Paging:     paging,
		Response:   decoded.Response,
	}, nil
}

// decodeEnvelopeErrors flattens the upstream errors field, which may be
// an empty array, an empty object, or an object of name→message pairs.
func decodeEnvelopeErrors(raw json.RawMessage) []string {
	if isEmptyJSON(raw) {
		return nil
	}

	var byField map[string]string
	if err := sonic.Unmarshal(raw, &byField); err == nil {
		out := make([]string, 0, len(byField))
		for field, msg := range byField {
			out = append(out, field+": "+msg)
		}
		sort.Strings(out)
		return out
	}

	var list []string
	if err := sonic.Unmarshal(raw, &list); err == nil {
		return list
	}

	return []string{string(raw)}
}

func decodePaging(raw json.RawMessage) (*Paging, error) {
	if isEmptyJSON(raw) {
		return nil, nil
	}

	var paging Paging
	if err := sonic.Unmarshal(raw, &paging); err != nil {
		return nil, fmt.Errorf("%w: decode paging: %v", usecase.ErrUpstreamFormat, err)
	}
	if paging.Current == 0 && paging.Total == 0 {
		return nil, nil
	}
	return &paging, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "[]", "{}":
		return true
	default:
		return false
	}
}

type leagueItem struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"country"`
	Seasons []struct {
		Year    int    `json:"year"`
		Start   string `json:"start"`
		End     string `json:"end"`
		Current bool   `json:"current"`
	} `json:"seasons"`
}

type teamItem struct {
	Team struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Country string `json:"country"`
		Founded int    `json:"founded"`
		Logo    string `json:"logo"`
	} `json:"team"`
	Venue struct {
		Name string `json:"name"`
		City string `json:"city"`
	} `json:"venue"`
}

type playerItem struct {
	Player struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		FirstName   string `json:"firstname"`
		LastName    string `json:"lastname"`
		Nationality string `json:"nationality"`
		Height      string `json:"height"`
		Weight      string `json:"weight"`
		Photo       string `json:"photo"`
		Birth       struct {
			Date string `json:"date"`
		} `json:"birth"`
	} `json:"player"`
	Statistics []struct {
		Team struct {
			ID int64 `json:"id"`
		} `json:"team"`
		Games struct {
			Position string `json:"position"`
			Number   int    `json:"number"`
		} `json:"games"`
	} `json:"statistics"`
}

type fixtureItem struct {
	Fixture struct {
		ID      int64  `json:"id"`
		Date    string `json:"date"`
		Referee string `json:"referee"`
		Status  struct {
			Short   string `json:"short"`
			Elapsed int    `json:"elapsed"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		ID     int64  `json:"id"`
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID int64 `json:"id"`
		} `json:"home"`
		Away struct {
			ID int64 `json:"id"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type fixturePlayersItem struct {
	Team struct {
		ID int64 `json:"id"`
	} `json:"team"`
	Players []struct {
		Player struct {
			ID int64 `json:"id"`
		} `json:"player"`
		Statistics []struct {
			Games struct {
				Minutes  int    `json:"minutes"`
				Rating   string `json:"rating"`
				Position string `json:"position"`
			} `json:"games"`
			Goals struct {
				Total    *int `json:"total"`
				Assists  *int `json:"assists"`
				Conceded *int `json:"conceded"`
				Saves    *int `json:"saves"`
			} `json:"goals"`
			Shots struct {
				Total *int `json:"total"`
				On    *int `json:"on"`
			} `json:"shots"`
			Passes struct {
				Total *int `json:"total"`
			} `json:"passes"`
			Tackles struct {
				Total *int `json:"total"`
			} `json:"tackles"`
			Cards struct {
				Yellow int `json:"yellow"`
				Red    int `json:"red"`
			} `json:"cards"`
		} `json:"statistics"`
	} `json:"players"`
}

func decodeLeagues(env *Envelope) ([]usecase.ExternalLeague, error) {
	var items []leagueItem
	if err := sonic.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("%w: decode leagues response: %v", usecase.ErrUpstreamFormat, err)
	}

	out := make([]usecase.ExternalLeague, 0, len(items))
	for _, item := range items {
		if item.League.ID <= 0 {
			continue
		}
		row := usecase.ExternalLeague{
			ExternalID:  item.League.ID,
			Name:        strings.TrimSpace(item.League.Name),
			Type:        strings.TrimSpace(item.League.Type),
			LogoURL:     strings.TrimSpace(item.League.Logo),
			Country:     strings.TrimSpace(item.Country.Name),
			CountryCode: strings.TrimSpace(item.Country.Code),
		}
		for _, season := range item.Seasons {
			row.Season = season.Year
			row.SeasonStart = parseUpstreamDate(season.Start)
			row.SeasonEnd = parseUpstreamDate(season.End)
		}
		out = append(out, row)
	}
	return out, nil
}

func decodeTeams(env *Envelope) ([]usecase.ExternalTeam, error) {
	var items []teamItem
	if err := sonic.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("%w: decode teams response: %v", usecase.ErrUpstreamFormat, err)
	}

	out := make([]usecase.ExternalTeam, 0, len(items))
	for _, item := range items {
		if item.Team.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalTeam{
			ExternalID: item.Team.ID,
			Name:       strings.TrimSpace(item.Team.Name),
			Code:       strings.TrimSpace(item.Team.Code),
			Country:    strings.TrimSpace(item.Team.Country),
			Founded:    item.Team.Founded,
			LogoURL:    strings.TrimSpace(item.Team.Logo),
			VenueName:  strings.TrimSpace(item.Venue.Name),
			VenueCity:  strings.TrimSpace(item.Venue.City),
		})
	}
	return out, nil
}

func decodePlayers(env *Envelope) ([]usecase.ExternalPlayer, error) {
	var items []playerItem
	if err := sonic.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("%w: decode players response: %v", usecase.ErrUpstreamFormat, err)
	}

	out := make([]usecase.ExternalPlayer, 0, len(items))
	for _, item := range items {
		if item.Player.ID <= 0 {
			continue
		}
		row := usecase.ExternalPlayer{
			ExternalID:  item.Player.ID,
			Name:        strings.TrimSpace(item.Player.Name),
			FirstName:   strings.TrimSpace(item.Player.FirstName),
			LastName:    strings.TrimSpace(item.Player.LastName),
			Nationality: strings.TrimSpace(item.Player.Nationality),
			Height:      strings.TrimSpace(item.Player.Height),
			Weight:      strings.TrimSpace(item.Player.Weight),
			PhotoURL:    strings.TrimSpace(item.Player.Photo),
			BirthDate:   parseUpstreamDate(item.Player.Birth.Date),
		}
		for _, stat := range item.Statistics {
			if row.TeamExternalID == 0 && stat.Team.ID > 0 {
				row.TeamExternalID = stat.Team.ID
			}
			if row.Position == "" {
				row.Position = strings.TrimSpace(stat.Games.Position)
			}
			if row.Number == 0 {
				row.Number = stat.Games.Number
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func decodeFixtures(env *Envelope) ([]usecase.ExternalFixture, error) {
	var items []fixtureItem
	if err := sonic.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("%w: decode fixtures response: %v", usecase.ErrUpstreamFormat, err)
	}

	out := make([]usecase.ExternalFixture, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		row := usecase.ExternalFixture{
			ExternalID:         item.Fixture.ID,
			LeagueExternalID:   item.League.ID,
			Season:             item.League.Season,
			Round:              strings.TrimSpace(item.League.Round),
			HomeTeamExternalID: item.Teams.Home.ID,
			AwayTeamExternalID: item.Teams.Away.ID,
			Status:             strings.TrimSpace(item.Fixture.Status.Short),
			Elapsed:            item.Fixture.Status.Elapsed,
			Referee:            strings.TrimSpace(item.Fixture.Referee),
			VenueName:          strings.TrimSpace(item.Fixture.Venue.Name),
			HomeGoals:          item.Goals.Home,
			AwayGoals:          item.Goals.Away,
		}
		if kickoff := parseUpstreamDateTime(item.Fixture.Date); kickoff != nil {
			row.KickoffAt = *kickoff
		}
		out = append(out, row)
	}
	return out, nil
}

func decodeFixturePlayerStats(env *Envelope, fixtureExternalID int64) ([]usecase.ExternalPlayerFixtureStat, error) {
	var items []fixturePlayersItem
	if err := sonic.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("%w: decode fixture players response: %v", usecase.ErrUpstreamFormat, err)
	}

	out := make([]usecase.ExternalPlayerFixtureStat, 0, 32)
	for _, side := range items {
		for _, entry := range side.Players {
			if entry.Player.ID <= 0 {
				continue
			}
			row := usecase.ExternalPlayerFixtureStat{
				FixtureExternalID: fixtureExternalID,
				PlayerExternalID:  entry.Player.ID,
				TeamExternalID:    side.Team.ID,
			}
			for _, stat := range entry.Statistics {
				row.MinutesPlayed = stat.Games.Minutes
				row.Rating = strings.TrimSpace(stat.Games.Rating)
				row.Position = strings.TrimSpace(stat.Games.Position)
				row.Goals = intOrZero(stat.Goals.Total)
				row.Assists = intOrZero(stat.Goals.Assists)
				row.GoalsConceded = intOrZero(stat.Goals.Conceded)
				row.Saves = intOrZero(stat.Goals.Saves)
				row.Shots = intOrZero(stat.Shots.Total)
				row.ShotsOnTarget = intOrZero(stat.Shots.On)
				row.Passes = intOrZero(stat.Passes.Total)
				row.Tackles = intOrZero(stat.Tackles.Total)
				row.YellowCards = stat.Cards.Yellow
				row.RedCards = stat.Cards.Red
			}
			out = append(out, row)
		}
	}
	return out, nil
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func parseUpstreamDate(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	v := parsed.UTC()
	return &v
}

func parseUpstreamDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05"} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}
