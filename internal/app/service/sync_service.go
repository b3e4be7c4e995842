package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/repository"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/database"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/judge"
)

// SyncService pulls a linked handle's submission and rating history from the
// judge API and persists it as one transactional unit. It is synchronous and
// blocking; a worker could call Sync unchanged if syncs ever move off the
// request path.
type SyncService struct {
	judgeClient judge.Client
	profileRepo repository.ProfileRepository
	subRepo     repository.SubmissionRepository
	ratingRepo  repository.RatingHistoryRepository
	txRunner    database.TxRunner
}

func NewSyncService(
	judgeClient judge.Client,
	profileRepo repository.ProfileRepository,
	subRepo repository.SubmissionRepository,
	ratingRepo repository.RatingHistoryRepository,
	txRunner database.TxRunner,
) *SyncService {
	return &SyncService{
		judgeClient: judgeClient,
		profileRepo: profileRepo,
		subRepo:     subRepo,
		ratingRepo:  ratingRepo,
		txRunner:    txRunner,
	}
}

type SyncResult struct {
	// SubmissionsCount is the number of accepted submissions considered,
	// counted after the verdict filter and before deduplication.
	SubmissionsCount int  `json:"submissionsCount"`
	Rating           *int `json:"rating"`
}

// Sync fetches both histories, normalizes them, and writes submissions,
// rating rows, and the profile's cached rating + last-sync timestamp inside
// one transaction. Upstream failures abort before any write; write failures
// roll the whole unit back, so the caller can safely retry.
func (s *SyncService) Sync(ctx context.Context, userID, handle string) (*SyncResult, error) {
	var (
		rawSubs    []judge.RawSubmission
		rawRatings []judge.RawRatingChange
		subErr     error
		ratingErr  error
	)

	// The two upstream reads are independent; fetch them concurrently.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		rawSubs, subErr = s.judgeClient.UserStatus(ctx, handle)
	}()
	go func() {
		defer wg.Done()
		rawRatings, ratingErr = s.judgeClient.UserRating(ctx, handle)
	}()
	wg.Wait()

	if subErr != nil {
		return nil, common.Errorf("sync: fetch submissions for %s: %w", handle, subErr)
	}
	if ratingErr != nil {
		return nil, common.Errorf("sync: fetch rating history for %s: %w", handle, ratingErr)
	}

	submissions := normalizeSubmissions(userID, rawSubs)

	profile, err := s.profileRepo.FindByUserAndPlatform(ctx, userID, model.PlatformCodeforces)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("sync: user %s: %w", userID, common.ErrProfileNotLinked)
		}
		return nil, common.Errorf("sync: resolve profile: %w", err)
	}

	history, latestRating := normalizeRatingHistory(profile.ID, rawRatings)

	err = s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.subRepo.InsertIgnoreDuplicates(ctx, tx, submissions); err != nil {
			return err
		}
		if err := s.ratingRepo.InsertIgnoreDuplicates(ctx, tx, history); err != nil {
			return err
		}
		return s.profileRepo.UpdateSyncState(ctx, tx, profile.ID, latestRating, time.Now().UTC())
	})
	if err != nil {
		return nil, common.Errorf("sync: write unit for %s: %w: %w", handle, err, common.ErrPersistence)
	}

	log.Printf("[SYNC] Processed %d accepted submissions for %s", len(submissions), handle)

	return &SyncResult{
		SubmissionsCount: len(submissions),
		Rating:           latestRating,
	}, nil
}
