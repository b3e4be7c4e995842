package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkRejectsInvalidInput(t *testing.T) {
	svc := NewProfileService(&fakeProfileRepo{}, &fakeSubmissionRepo{}, &fakeTxRunner{})

	_, err := svc.Link(context.Background(), testUserID, LinkProfileRequest{Platform: "ATCODER", Handle: "x"})
	assert.True(t, errors.Is(err, common.ErrBadRequest))

	_, err = svc.Link(context.Background(), testUserID, LinkProfileRequest{Platform: model.PlatformCodeforces, Handle: ""})
	assert.True(t, errors.Is(err, common.ErrBadRequest))
}

func TestLinkUpsertsProfile(t *testing.T) {
	profiles := &fakeProfileRepo{}
	svc := NewProfileService(profiles, &fakeSubmissionRepo{}, &fakeTxRunner{})

	profile, err := svc.Link(context.Background(), testUserID, LinkProfileRequest{
		Platform: model.PlatformCodeforces,
		Handle:   testHandle,
	})
	require.NoError(t, err)
	assert.Equal(t, testHandle, profile.Handle)
	assert.NotEmpty(t, profile.ID)
	assert.NotNil(t, profile.LastSync)

	// Linking again with a new handle replaces it instead of erroring.
	relinked, err := svc.Link(context.Background(), testUserID, LinkProfileRequest{
		Platform: model.PlatformCodeforces,
		Handle:   "petr",
	})
	require.NoError(t, err)
	assert.Equal(t, "petr", relinked.Handle)
	assert.Len(t, profiles.profiles, 1)
}

func TestUnlinkRemovesProfileAndSubmissions(t *testing.T) {
	profiles := linkedProfileRepo()
	subRepo := &fakeSubmissionRepo{
		rows: map[string]model.Submission{
			"k1": {UserID: testUserID, Platform: model.PlatformCodeforces, ProblemURL: "u1"},
			"k2": {UserID: testUserID, Platform: model.PlatformCodeforces, ProblemURL: "u2"},
		},
	}
	svc := NewProfileService(profiles, subRepo, &fakeTxRunner{})

	err := svc.Unlink(context.Background(), testUserID, model.PlatformCodeforces)
	require.NoError(t, err)

	assert.Empty(t, profiles.profiles)
	assert.Empty(t, subRepo.rows)
}

func TestUnlinkWithoutLink(t *testing.T) {
	svc := NewProfileService(&fakeProfileRepo{profiles: map[string]*model.PlatformProfile{}}, &fakeSubmissionRepo{}, &fakeTxRunner{})

	err := svc.Unlink(context.Background(), testUserID, model.PlatformCodeforces)
	assert.True(t, errors.Is(err, common.ErrProfileNotLinked))
}
