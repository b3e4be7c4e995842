package judge

// Typed shapes for the envelope result payloads. Only the fields the
// normalizers consume are declared; unknown upstream fields are ignored.

// VerdictOK is the upstream verdict marking an accepted submission.
const VerdictOK = "OK"

type RawProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    *int     `json:"rating,omitempty"`
	Tags      []string `json:"tags"`
}

type RawSubmission struct {
	ID                  int64      `json:"id"`
	ContestID           int        `json:"contestId"`
	CreationTimeSeconds int64      `json:"creationTimeSeconds"`
	Verdict             string     `json:"verdict"`
	Problem             RawProblem `json:"problem"`
}

// RawRatingChange records are delivered chronologically ascending by the
// upstream; the last element carries the handle's current rating.
type RawRatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Handle                  string `json:"handle"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

type RawContest struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Phase            string `json:"phase"`
	DurationSeconds  int    `json:"durationSeconds"`
	StartTimeSeconds int64  `json:"startTimeSeconds"`
}

// PhaseBefore marks contests that have not started yet.
const PhaseBefore = "BEFORE"
