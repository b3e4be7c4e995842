package model

import "time"

// Contest is an upcoming contest mirrored from the judge API. Not persisted;
// served from the cache layer.
type Contest struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds int       `json:"duration_seconds"`
}
