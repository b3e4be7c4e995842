package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"
	"github.com/jigyasu-kalyan/cp-nexus/internal/platform/judge"

	"github.com/redis/go-redis/v9"
)

const contestCacheKey = "contests:upcoming"

// ContestService serves the upcoming-contest list from the judge API with a
// cache-aside Redis layer. A cache outage degrades to a direct upstream call.
type ContestService struct {
	judgeClient judge.Client
	rdb         *redis.Client
	cacheTTL    time.Duration
}

func NewContestService(judgeClient judge.Client, rdb *redis.Client, cacheTTL time.Duration) *ContestService {
	return &ContestService{judgeClient: judgeClient, rdb: rdb, cacheTTL: cacheTTL}
}

func (s *ContestService) Upcoming(ctx context.Context) ([]model.Contest, error) {
	if s.rdb != nil {
		data, err := s.rdb.Get(ctx, contestCacheKey).Bytes()
		if err == nil {
			var cached []model.Contest
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			log.Printf("contest cache read failed: %v", err)
		}
	}

	raw, err := s.judgeClient.ContestList(ctx)
	if err != nil {
		return nil, err
	}
	contests := upcomingContests(raw)

	if s.rdb != nil {
		if data, err := json.Marshal(contests); err == nil {
			if err := s.rdb.Set(ctx, contestCacheKey, data, s.cacheTTL).Err(); err != nil {
				log.Printf("contest cache write failed: %v", err)
			}
		}
	}
	return contests, nil
}
