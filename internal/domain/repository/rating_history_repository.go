package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"

	"github.com/google/uuid"
)

type RatingHistoryRepository interface {
	// InsertIgnoreDuplicates bulk-inserts rating events, skipping rows that
	// collide with the (profile_id, contest_id) unique key.
	InsertIgnoreDuplicates(ctx context.Context, tx *sql.Tx, rows []model.RatingHistory) error
	ListByUserAndPlatform(ctx context.Context, userID string, platform model.Platform) ([]model.RatingHistory, error)
	CountByProfile(ctx context.Context, profileID string) (int, error)
}

type pgRatingHistoryRepository struct {
	db *sql.DB
}

func NewPgRatingHistoryRepository(db *sql.DB) RatingHistoryRepository {
	return &pgRatingHistoryRepository{db: db}
}

func (r *pgRatingHistoryRepository) InsertIgnoreDuplicates(ctx context.Context, tx *sql.Tx, entries []model.RatingHistory) error {
	query := `INSERT INTO rating_history (id, profile_id, rating, contest_id, contest_name, rank, date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (profile_id, contest_id) DO NOTHING`

	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = uuid.NewString()
		}
		var err error
		args := []interface{}{id, entry.ProfileID, entry.Rating, entry.ContestID, entry.ContestName, entry.Rank, entry.Date}
		if tx != nil {
			_, err = tx.ExecContext(ctx, query, args...)
		} else {
			_, err = r.db.ExecContext(ctx, query, args...)
		}
		if err != nil {
			return fmt.Errorf("pgRatingHistoryRepository.InsertIgnoreDuplicates: %w", err)
		}
	}
	return nil
}

func (r *pgRatingHistoryRepository) ListByUserAndPlatform(ctx context.Context, userID string, platform model.Platform) ([]model.RatingHistory, error) {
	query := `SELECT rh.id, rh.profile_id, rh.rating, rh.contest_id, rh.contest_name, rh.rank, rh.date
	          FROM rating_history rh
	          JOIN platform_profiles pp ON rh.profile_id = pp.id
	          WHERE pp.user_id = $1 AND pp.platform = $2
	          ORDER BY rh.date ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, platform)
	if err != nil {
		return nil, fmt.Errorf("pgRatingHistoryRepository.ListByUserAndPlatform: %w", err)
	}
	defer rows.Close()

	var entries []model.RatingHistory
	for rows.Next() {
		var e model.RatingHistory
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Rating, &e.ContestID, &e.ContestName, &e.Rank, &e.Date); err != nil {
			return nil, fmt.Errorf("pgRatingHistoryRepository.ListByUserAndPlatform scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgRatingHistoryRepository.ListByUserAndPlatform rows: %w", err)
	}
	return entries, nil
}

func (r *pgRatingHistoryRepository) CountByProfile(ctx context.Context, profileID string) (int, error) {
	query := `SELECT COUNT(*) FROM rating_history WHERE profile_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgRatingHistoryRepository.CountByProfile: %w", err)
	}
	return count, nil
}
