package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- test doubles ---

type fakeJudgeClient struct {
	subs        []judge.RawSubmission
	ratings     []judge.RawRatingChange
	contests    []judge.RawContest
	subErr      error
	ratingErr   error
	contestsErr error
	calls       int
}

func (f *fakeJudgeClient) UserStatus(ctx context.Context, handle string) ([]judge.RawSubmission, error) {
	f.calls++
	return f.subs, f.subErr
}

func (f *fakeJudgeClient) UserRating(ctx context.Context, handle string) ([]judge.RawRatingChange, error) {
	f.calls++
	return f.ratings, f.ratingErr
}

func (f *fakeJudgeClient) ContestList(ctx context.Context) ([]judge.RawContest, error) {
	f.calls++
	return f.contests, f.contestsErr
}

type fakeProfileRepo struct {
	profiles    map[string]*model.PlatformProfile // keyed userID|platform
	lastRating  *int
	lastSync    *time.Time
	updateCalls int
}

func profileKey(userID string, platform model.Platform) string {
	return userID + "|" + string(platform)
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, p *model.PlatformProfile) (*model.PlatformProfile, error) {
	if f.profiles == nil {
		f.profiles = map[string]*model.PlatformProfile{}
	}
	f.profiles[profileKey(p.UserID, p.Platform)] = p
	return p, nil
}

func (f *fakeProfileRepo) FindByUserAndPlatform(ctx context.Context, userID string, platform model.Platform) (*model.PlatformProfile, error) {
	p, ok := f.profiles[profileKey(userID, platform)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) UpdateSyncState(ctx context.Context, tx *sql.Tx, profileID string, rating *int, lastSync time.Time) error {
	f.updateCalls++
	f.lastRating = rating
	f.lastSync = &lastSync
	for _, p := range f.profiles {
		if p.ID == profileID {
			p.Rating = rating
			p.LastSync = &lastSync
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeProfileRepo) Delete(ctx context.Context, tx *sql.Tx, profileID string) error {
	for k, p := range f.profiles {
		if p.ID == profileID {
			delete(f.profiles, k)
			return nil
		}
	}
	return common.ErrNotFound
}

type fakeSubmissionRepo struct {
	rows      map[string]model.Submission // keyed by the natural unique key
	insertErr error
	last      *time.Time
	activity  []model.ActivityBucket
}

func submissionKey(s model.Submission) string {
	return fmt.Sprintf("%s|%s|%s|%d", s.UserID, s.Platform, s.ProblemURL, s.SubmittedAt.Unix())
}

func (f *fakeSubmissionRepo) InsertIgnoreDuplicates(ctx context.Context, tx *sql.Tx, subs []model.Submission) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.rows == nil {
		f.rows = map[string]model.Submission{}
	}
	for _, s := range subs {
		key := submissionKey(s)
		if _, exists := f.rows[key]; exists {
			continue // duplicate-skip semantics
		}
		f.rows[key] = s
	}
	return nil
}

func (f *fakeSubmissionRepo) CountAcceptedByUser(ctx context.Context, userID string) (int, error) {
	return len(f.rows), nil
}

func (f *fakeSubmissionRepo) LastSubmissionTime(ctx context.Context, userID string) (*time.Time, error) {
	return f.last, nil
}

func (f *fakeSubmissionRepo) ActivityByDay(ctx context.Context, userID string) ([]model.ActivityBucket, error) {
	return f.activity, nil
}

func (f *fakeSubmissionRepo) DeleteByUserAndPlatform(ctx context.Context, tx *sql.Tx, userID string, platform model.Platform) error {
	for k, s := range f.rows {
		if s.UserID == userID && s.Platform == platform {
			delete(f.rows, k)
		}
	}
	return nil
}

type fakeRatingRepo struct {
	rows map[string]model.RatingHistory // keyed profileID|contestID
	list []model.RatingHistory
}

func (f *fakeRatingRepo) InsertIgnoreDuplicates(ctx context.Context, tx *sql.Tx, entries []model.RatingHistory) error {
	if f.rows == nil {
		f.rows = map[string]model.RatingHistory{}
	}
	for _, e := range entries {
		key := fmt.Sprintf("%s|%d", e.ProfileID, e.ContestID)
		if _, exists := f.rows[key]; exists {
			continue
		}
		f.rows[key] = e
	}
	return nil
}

func (f *fakeRatingRepo) ListByUserAndPlatform(ctx context.Context, userID string, platform model.Platform) ([]model.RatingHistory, error) {
	return f.list, nil
}

func (f *fakeRatingRepo) CountByProfile(ctx context.Context, profileID string) (int, error) {
	count := 0
	for _, e := range f.rows {
		if e.ProfileID == profileID {
			count++
		}
	}
	return count, nil
}

type fakeTxRunner struct {
	runs int
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	f.runs++
	return fn(nil)
}

// --- fixtures ---

const (
	testUserID    = "user-1"
	testProfileID = "profile-1"
	testHandle    = "tourist"
)

func linkedProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: map[string]*model.PlatformProfile{
			profileKey(testUserID, model.PlatformCodeforces): {
				ID:       testProfileID,
				UserID:   testUserID,
				Platform: model.PlatformCodeforces,
				Handle:   testHandle,
			},
		},
	}
}

func rawAccepted(contestID int, index string, ts int64) judge.RawSubmission {
	return judge.RawSubmission{
		ContestID:           contestID,
		CreationTimeSeconds: ts,
		Verdict:             judge.VerdictOK,
		Problem:             judge.RawProblem{ContestID: contestID, Index: index, Name: "Problem " + index},
	}
}

func newSyncFixture(client judge.Client, profiles *fakeProfileRepo) (*SyncService, *fakeSubmissionRepo, *fakeRatingRepo) {
	subRepo := &fakeSubmissionRepo{}
	ratingRepo := &fakeRatingRepo{}
	svc := NewSyncService(client, profiles, subRepo, ratingRepo, &fakeTxRunner{})
	return svc, subRepo, ratingRepo
}

// --- tests ---

func TestSyncPersistsFilteredSubmissionsAndRating(t *testing.T) {
	client := &fakeJudgeClient{
		subs: []judge.RawSubmission{
			rawAccepted(1, "A", 1000),
			{ContestID: 1, CreationTimeSeconds: 1100, Verdict: "WRONG_ANSWER",
				Problem: judge.RawProblem{ContestID: 1, Index: "B", Name: "Problem B"}},
			rawAccepted(2, "A", 1200),
		},
		ratings: []judge.RawRatingChange{
			{ContestID: 1, ContestName: "Round 1", Rank: 10, RatingUpdateTimeSeconds: 900, NewRating: 1400},
			{ContestID: 2, ContestName: "Round 2", Rank: 5, RatingUpdateTimeSeconds: 1900, NewRating: 1550},
		},
	}
	profiles := linkedProfileRepo()
	svc, subRepo, ratingRepo := newSyncFixture(client, profiles)

	result, err := svc.Sync(context.Background(), testUserID, testHandle)
	require.NoError(t, err)

	assert.Equal(t, 2, result.SubmissionsCount)
	require.NotNil(t, result.Rating)
	assert.Equal(t, 1550, *result.Rating)

	assert.Len(t, subRepo.rows, 2)
	assert.Len(t, ratingRepo.rows, 2)

	// Profile invariant: cached rating equals the newest history entry.
	stored := profiles.profiles[profileKey(testUserID, model.PlatformCodeforces)]
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 1550, *stored.Rating)
	assert.NotNil(t, stored.LastSync)
}

func TestSyncIsIdempotentOnUnchangedUpstreamData(t *testing.T) {
	client := &fakeJudgeClient{
		subs:    []judge.RawSubmission{rawAccepted(1, "A", 1000), rawAccepted(2, "B", 2000)},
		ratings: []judge.RawRatingChange{{ContestID: 1, RatingUpdateTimeSeconds: 500, NewRating: 1500}},
	}
	svc, subRepo, ratingRepo := newSyncFixture(client, linkedProfileRepo())

	first, err := svc.Sync(context.Background(), testUserID, testHandle)
	require.NoError(t, err)
	rowsAfterFirst := len(subRepo.rows)
	ratingRowsAfterFirst := len(ratingRepo.rows)

	second, err := svc.Sync(context.Background(), testUserID, testHandle)
	require.NoError(t, err)

	// Both runs report the filtered input size, but no table grows.
	assert.Equal(t, first.SubmissionsCount, second.SubmissionsCount)
	assert.Equal(t, rowsAfterFirst, len(subRepo.rows))
	assert.Equal(t, ratingRowsAfterFirst, len(ratingRepo.rows))
}

func TestSyncEmptyRatingHistory(t *testing.T) {
	client := &fakeJudgeClient{
		subs: []judge.RawSubmission{rawAccepted(1, "A", 1000)},
	}
	profiles := linkedProfileRepo()
	svc, _, ratingRepo := newSyncFixture(client, profiles)

	result, err := svc.Sync(context.Background(), testUserID, testHandle)
	require.NoError(t, err)

	assert.Nil(t, result.Rating)
	assert.Empty(t, ratingRepo.rows)

	stored := profiles.profiles[profileKey(testUserID, model.PlatformCodeforces)]
	assert.Nil(t, stored.Rating)
}

func TestSyncWithoutLinkedProfileWritesNothing(t *testing.T) {
	client := &fakeJudgeClient{
		subs: []judge.RawSubmission{rawAccepted(1, "A", 1000)},
	}
	profiles := &fakeProfileRepo{profiles: map[string]*model.PlatformProfile{}}
	subRepo := &fakeSubmissionRepo{}
	ratingRepo := &fakeRatingRepo{}
	txRunner := &fakeTxRunner{}
	svc := NewSyncService(client, profiles, subRepo, ratingRepo, txRunner)

	_, err := svc.Sync(context.Background(), testUserID, testHandle)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrProfileNotLinked))

	assert.Empty(t, subRepo.rows)
	assert.Empty(t, ratingRepo.rows)
	assert.Zero(t, txRunner.runs)
}

func TestSyncUpstreamFailureAbortsBeforeAnyWrite(t *testing.T) {
	client := &fakeJudgeClient{
		ratingErr: common.Errorf("codeforces: user.rating API failure: down: %w", common.ErrUpstream),
	}
	profiles := linkedProfileRepo()
	svc, subRepo, ratingRepo := newSyncFixture(client, profiles)

	_, err := svc.Sync(context.Background(), testUserID, testHandle)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUpstream))

	assert.Empty(t, subRepo.rows)
	assert.Empty(t, ratingRepo.rows)
	assert.Zero(t, profiles.updateCalls)
}

func TestSyncWriteFailureIsPersistenceError(t *testing.T) {
	client := &fakeJudgeClient{
		subs: []judge.RawSubmission{rawAccepted(1, "A", 1000)},
	}
	profiles := linkedProfileRepo()
	subRepo := &fakeSubmissionRepo{insertErr: errors.New("connection reset")}
	svc := NewSyncService(client, profiles, subRepo, &fakeRatingRepo{}, &fakeTxRunner{})

	_, err := svc.Sync(context.Background(), testUserID, testHandle)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrPersistence))
	assert.Zero(t, profiles.updateCalls)
}
