package league

import "time"

// League is one competition in one season, as mirrored from the
// upstream provider.
type League struct {
	ID          string
	ExternalID  int64
	Season      int
	Name        string
	Type        string
	Country     string
	CountryCode string
	LogoURL     string
	SeasonStart *time.Time
	SeasonEnd   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
