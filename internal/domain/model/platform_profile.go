package model

import "time"

type Platform string

const (
	PlatformCodeforces Platform = "CODEFORCES"
)

func (p Platform) Valid() bool {
	return p == PlatformCodeforces
}

// PlatformProfile links a local user to one external judge handle.
// Rating caches the rating of the newest RatingHistory entry and is nil
// until the profile has synced at least once against a non-empty history.
type PlatformProfile struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Platform  Platform   `json:"platform"`
	Handle    string     `json:"handle"`
	Rating    *int       `json:"rating"`
	LastSync  *time.Time `json:"last_sync"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
