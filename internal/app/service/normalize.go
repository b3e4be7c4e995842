package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/judge"

	"github.com/gosimple/slug"
)

const problemURLFormat = "https://codeforces.com/problemset/problem/%d/%s"

// normalizeSubmissions keeps only accepted solves and maps them into the
// submission schema. Output order is not significant; the unique key on
// insert deduplicates.
func normalizeSubmissions(userID string, raw []judge.RawSubmission) []model.Submission {
	subs := make([]model.Submission, 0, len(raw))
	for _, r := range raw {
		if r.Verdict != judge.VerdictOK {
			continue
		}
		subs = append(subs, model.Submission{
			UserID:        userID,
			Platform:      model.PlatformCodeforces,
			ProblemName:   r.Problem.Name,
			ProblemURL:    fmt.Sprintf(problemURLFormat, r.ContestID, r.Problem.Index),
			ProblemRating: r.Problem.Rating,
			Tags:          normalizeTags(r.Problem.Tags),
			Verdict:       model.VerdictAccepted,
			SubmittedAt:   time.Unix(r.CreationTimeSeconds, 0).UTC(),
		})
	}
	return subs
}

// normalizeTags slugifies upstream tag names ("data structures" ->
// "data-structures") and defaults to an empty list when absent.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, slug.Make(t))
	}
	return out
}

// normalizeRatingHistory maps rating-change events onto history rows for the
// given profile. The latest rating is taken from the last raw element,
// trusting the upstream's chronological ordering; it is nil for an empty
// history.
func normalizeRatingHistory(profileID string, raw []judge.RawRatingChange) ([]model.RatingHistory, *int) {
	if len(raw) == 0 {
		return nil, nil
	}

	entries := make([]model.RatingHistory, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, model.RatingHistory{
			ProfileID:   profileID,
			Rating:      r.NewRating,
			ContestID:   r.ContestID,
			ContestName: r.ContestName,
			Rank:        r.Rank,
			Date:        time.Unix(r.RatingUpdateTimeSeconds, 0).UTC(),
		})
	}

	latest := raw[len(raw)-1].NewRating
	return entries, &latest
}

// upcomingContests filters the raw contest list down to contests that have
// not started yet, earliest first.
func upcomingContests(raw []judge.RawContest) []model.Contest {
	contests := make([]model.Contest, 0)
	for _, r := range raw {
		if r.Phase != judge.PhaseBefore {
			continue
		}
		contests = append(contests, model.Contest{
			ID:              r.ID,
			Name:            r.Name,
			StartTime:       time.Unix(r.StartTimeSeconds, 0).UTC(),
			DurationSeconds: r.DurationSeconds,
		})
	}
	sort.Slice(contests, func(i, j int) bool {
		return contests[i].StartTime.Before(contests[j].StartTime)
	})
	return contests
}
