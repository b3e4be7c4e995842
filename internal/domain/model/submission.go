package model

import "time"

// VerdictAccepted is the only verdict ever persisted; everything else is
// filtered out during normalization.
const VerdictAccepted = "ACCEPTED"

type Submission struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Platform      Platform  `json:"platform"`
	ProblemName   string    `json:"problem_name"`
	ProblemURL    string    `json:"problem_url"`
	ProblemRating *int      `json:"problem_rating,omitempty"`
	Tags          []string  `json:"tags"`
	Verdict       string    `json:"verdict"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// ActivityBucket is one day of submission activity for the heatmap.
type ActivityBucket struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}
