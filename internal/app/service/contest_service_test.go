package service

import (
	"context"
	"testing"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The cache layer is exercised against a live Redis in integration runs;
// these tests cover the upstream path with the cache disabled.

func TestUpcomingReturnsOnlyPendingContests(t *testing.T) {
	client := &fakeJudgeClient{contests: []judge.RawContest{
		{ID: 3, Name: "Later", Phase: "BEFORE", StartTimeSeconds: 3000, DurationSeconds: 7200},
		{ID: 1, Name: "Done", Phase: "FINISHED", StartTimeSeconds: 1000, DurationSeconds: 7200},
		{ID: 2, Name: "Sooner", Phase: "BEFORE", StartTimeSeconds: 2000, DurationSeconds: 5400},
	}}
	svc := NewContestService(client, nil, time.Minute)

	contests, err := svc.Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, contests, 2)
	assert.Equal(t, "Sooner", contests[0].Name)
	assert.Equal(t, "Later", contests[1].Name)
}

func TestUpcomingPropagatesUpstreamFailure(t *testing.T) {
	client := &fakeJudgeClient{
		contestsErr: common.Errorf("codeforces: contest.list API failure: down: %w", common.ErrUpstream),
	}
	svc := NewContestService(client, nil, time.Minute)

	_, err := svc.Upcoming(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstream)
}
