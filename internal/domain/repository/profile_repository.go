package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
	"github.com/jigyasu-kalyan/cp-nexus/internal/domain/model"
)

type ProfileRepository interface {
	// Upsert creates the (user, platform) link or, when it already exists,
	// refreshes the handle and last-sync timestamp. Returns the stored row.
	Upsert(ctx context.Context, profile *model.PlatformProfile) (*model.PlatformProfile, error)
	FindByUserAndPlatform(ctx context.Context, userID string, platform model.Platform) (*model.PlatformProfile, error)
	UpdateSyncState(ctx context.Context, tx *sql.Tx, profileID string, rating *int, lastSync time.Time) error
	Delete(ctx context.Context, tx *sql.Tx, profileID string) error
}

type pgProfileRepository struct {
	db *sql.DB
}

func NewPgProfileRepository(db *sql.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

const profileColumns = `id, user_id, platform, handle, rating, last_sync, created_at, updated_at`

func (r *pgProfileRepository) Upsert(ctx context.Context, p *model.PlatformProfile) (*model.PlatformProfile, error) {
	query := `INSERT INTO platform_profiles (id, user_id, platform, handle, last_sync)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, platform)
	          DO UPDATE SET handle = EXCLUDED.handle, last_sync = EXCLUDED.last_sync, updated_at = CURRENT_TIMESTAMP
	          RETURNING ` + profileColumns

	stored := &model.PlatformProfile{}
	err := r.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.Platform, p.Handle, p.LastSync).Scan(
		&stored.ID, &stored.UserID, &stored.Platform, &stored.Handle,
		&stored.Rating, &stored.LastSync, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("pgProfileRepository.Upsert: %w", err)
	}
	return stored, nil
}

func (r *pgProfileRepository) FindByUserAndPlatform(ctx context.Context, userID string, platform model.Platform) (*model.PlatformProfile, error) {
	query := `SELECT ` + profileColumns + `
	          FROM platform_profiles WHERE user_id = $1 AND platform = $2`
	profile := &model.PlatformProfile{}
	err := r.db.QueryRowContext(ctx, query, userID, platform).Scan(
		&profile.ID, &profile.UserID, &profile.Platform, &profile.Handle,
		&profile.Rating, &profile.LastSync, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProfileRepository.FindByUserAndPlatform: %w", err)
	}
	return profile, nil
}

func (r *pgProfileRepository) UpdateSyncState(ctx context.Context, tx *sql.Tx, profileID string, rating *int, lastSync time.Time) error {
	query := `UPDATE platform_profiles
	          SET rating = $1, last_sync = $2, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $3`

	var (
		res sql.Result
		err error
	)
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, rating, lastSync, profileID)
	} else {
		res, err = r.db.ExecContext(ctx, query, rating, lastSync, profileID)
	}
	if err != nil {
		return fmt.Errorf("pgProfileRepository.UpdateSyncState: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProfileRepository) Delete(ctx context.Context, tx *sql.Tx, profileID string) error {
	query := `DELETE FROM platform_profiles WHERE id = $1`

	var (
		res sql.Result
		err error
	)
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, profileID)
	} else {
		res, err = r.db.ExecContext(ctx, query, profileID)
	}
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
