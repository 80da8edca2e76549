package player

import "time"

// Player is one squad member in one season. TeamID points at the local
// team row the player belonged to when last synced.
type Player struct {
	ID          string
	TeamID      string
	ExternalID  int64
	Season      int
	Name        string
	FirstName   string
	LastName    string
	Nationality string
	Position    string
	Number      int
	Height      string
	Weight      string
	PhotoURL    string
	BirthDate   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
