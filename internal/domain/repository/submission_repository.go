package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SubmissionRepository interface {
	// InsertIgnoreDuplicates bulk-inserts accepted submissions, silently
	// skipping rows that collide with the (user, platform, problem_url,
	// submitted_at) unique key. Re-running a sync on unchanged data is a
	// no-op on row count.
	InsertIgnoreDuplicates(ctx context.Context, tx *sql.Tx, subs []model.Submission) error
	CountAcceptedByUser(ctx context.Context, userID string) (int, error)
	LastSubmissionTime(ctx context.Context, userID string) (*time.Time, error)
	ActivityByDay(ctx context.Context, userID string) ([]model.ActivityBucket, error)
	DeleteByUserAndPlatform(ctx context.Context, tx *sql.Tx, userID string, platform model.Platform) error
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) InsertIgnoreDuplicates(ctx context.Context, tx *sql.Tx, subs []model.Submission) error {
	query := `INSERT INTO submissions (id, user_id, platform, problem_name, problem_url, problem_rating, tags, verdict, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (user_id, platform, problem_url, submitted_at) DO NOTHING`

	for _, sub := range subs {
		id := sub.ID
		if id == "" {
			id = uuid.NewString()
		}
		var err error
		args := []interface{}{id, sub.UserID, sub.Platform, sub.ProblemName, sub.ProblemURL, sub.ProblemRating, pq.Array(sub.Tags), sub.Verdict, sub.SubmittedAt}
		if tx != nil {
			_, err = tx.ExecContext(ctx, query, args...)
		} else {
			_, err = r.db.ExecContext(ctx, query, args...)
		}
		if err != nil {
			return fmt.Errorf("pgSubmissionRepository.InsertIgnoreDuplicates: %w", err)
		}
	}
	return nil
}

func (r *pgSubmissionRepository) CountAcceptedByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM submissions WHERE user_id = $1 AND verdict = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, model.VerdictAccepted).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountAcceptedByUser: %w", err)
	}
	return count, nil
}

func (r *pgSubmissionRepository) LastSubmissionTime(ctx context.Context, userID string) (*time.Time, error) {
	query := `SELECT submitted_at FROM submissions
	          WHERE user_id = $1 ORDER BY submitted_at DESC LIMIT 1`
	var last time.Time
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // no submissions yet is not an error
		}
		return nil, fmt.Errorf("pgSubmissionRepository.LastSubmissionTime: %w", err)
	}
	return &last, nil
}

func (r *pgSubmissionRepository) ActivityByDay(ctx context.Context, userID string) ([]model.ActivityBucket, error) {
	query := `SELECT date_trunc('day', submitted_at) AS day, COUNT(*)
	          FROM submissions WHERE user_id = $1
	          GROUP BY day ORDER BY day ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ActivityByDay: %w", err)
	}
	defer rows.Close()

	var buckets []model.ActivityBucket
	for rows.Next() {
		var b model.ActivityBucket
		if err := rows.Scan(&b.Date, &b.Count); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ActivityByDay scan: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ActivityByDay rows: %w", err)
	}
	return buckets, nil
}

func (r *pgSubmissionRepository) DeleteByUserAndPlatform(ctx context.Context, tx *sql.Tx, userID string, platform model.Platform) error {
	query := `DELETE FROM submissions WHERE user_id = $1 AND platform = $2`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, userID, platform)
	} else {
		_, err = r.db.ExecContext(ctx, query, userID, platform)
	}
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.DeleteByUserAndPlatform: %w", err)
	}
	return nil
}
