package service

import (
	"context"
	"errors"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/repository"
)

type DashboardService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	subRepo     repository.SubmissionRepository
	ratingRepo  repository.RatingHistoryRepository
}

func NewDashboardService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	subRepo repository.SubmissionRepository,
	ratingRepo repository.RatingHistoryRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		subRepo:     subRepo,
		ratingRepo:  ratingRepo,
	}
}

type DashboardStats struct {
	Username            string  `json:"username"`
	CfHandle            *string `json:"cfHandle"`
	TotalProblemsSolved int     `json:"totalProblemsSolved"`
	LastSubmissionTime  *string `json:"lastSubmissionTime"`
}

func (s *DashboardService) Stats(ctx context.Context, userID string) (*DashboardStats, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{Username: user.Username}

	profile, err := s.profileRepo.FindByUserAndPlatform(ctx, userID, model.PlatformCodeforces)
	if err == nil {
		stats.CfHandle = &profile.Handle
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	stats.TotalProblemsSolved, err = s.subRepo.CountAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	last, err := s.subRepo.LastSubmissionTime(ctx, userID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		formatted := last.UTC().Format(time.RFC3339)
		stats.LastSubmissionTime = &formatted
	}

	return stats, nil
}

// RatingPoint is one chart sample: date formatted YYYY-MM-DD for the
// frontend's chart library.
type RatingPoint struct {
	Rating      int    `json:"rating"`
	Date        string `json:"date"`
	ContestName string `json:"contestName"`
}

func (s *DashboardService) RatingChart(ctx context.Context, userID string) ([]RatingPoint, error) {
	history, err := s.ratingRepo.ListByUserAndPlatform(ctx, userID, model.PlatformCodeforces)
	if err != nil {
		return nil, err
	}

	points := make([]RatingPoint, 0, len(history))
	for _, h := range history {
		points = append(points, RatingPoint{
			Rating:      h.Rating,
			Date:        h.Date.UTC().Format("2006-01-02"),
			ContestName: h.ContestName,
		})
	}
	return points, nil
}

type ActivityPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func (s *DashboardService) Activity(ctx context.Context, userID string) ([]ActivityPoint, error) {
	buckets, err := s.subRepo.ActivityByDay(ctx, userID)
	if err != nil {
		return nil, err
	}

	points := make([]ActivityPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, ActivityPoint{
			Date:  b.Date.UTC().Format("2006-01-02"),
			Count: b.Count,
		})
	}
	return points, nil
}
