package model

import "time"

// RatingHistory is one rating-changing contest event for a linked profile.
type RatingHistory struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	Rating      int       `json:"rating"`
	ContestID   int       `json:"contest_id"`
	ContestName string    `json:"contest_name"`
	Rank        int       `json:"rank"`
	Date        time.Time `json:"date"`
}
