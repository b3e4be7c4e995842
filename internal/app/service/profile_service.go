package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/repository"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/database"

	"github.com/google/uuid"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	subRepo     repository.SubmissionRepository
	txRunner    database.TxRunner
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	subRepo repository.SubmissionRepository,
	txRunner database.TxRunner,
) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, subRepo: subRepo, txRunner: txRunner}
}

type LinkProfileRequest struct {
	Platform model.Platform `json:"platform"`
	Handle   string         `json:"handle"`
}

// Link creates the (user, platform) link or refreshes its handle. Data for
// the handle arrives later through sync, never here.
func (s *ProfileService) Link(ctx context.Context, userID string, req LinkProfileRequest) (*model.PlatformProfile, error) {
	if !req.Platform.Valid() || req.Handle == "" {
		return nil, common.Errorf("invalid platform or handle provided: %w", common.ErrBadRequest)
	}

	now := time.Now().UTC()
	profile := &model.PlatformProfile{
		ID:       uuid.NewString(),
		UserID:   userID,
		Platform: req.Platform,
		Handle:   req.Handle,
		LastSync: &now,
	}
	return s.profileRepo.Upsert(ctx, profile)
}

// Get resolves the caller's link for a platform.
func (s *ProfileService) Get(ctx context.Context, userID string, platform model.Platform) (*model.PlatformProfile, error) {
	profile, err := s.profileRepo.FindByUserAndPlatform(ctx, userID, platform)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrProfileNotLinked
		}
		return nil, err
	}
	return profile, nil
}

// Unlink removes the link plus every submission mirrored for that platform,
// in one transaction. Rating history goes with the profile row (FK cascade).
func (s *ProfileService) Unlink(ctx context.Context, userID string, platform model.Platform) error {
	if !platform.Valid() {
		return common.Errorf("invalid platform: %w", common.ErrBadRequest)
	}

	profile, err := s.Get(ctx, userID, platform)
	if err != nil {
		return err
	}

	return s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.subRepo.DeleteByUserAndPlatform(ctx, tx, userID, platform); err != nil {
			return err
		}
		return s.profileRepo.Delete(ctx, tx, profile.ID)
	})
}
