package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nhanzalone1/netgains/internal/models"
)

// GetProfile returns the onboarding profile, or nil if the user has none.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p := models.Profile{UserID: userID}
	err := db.Pool.QueryRow(ctx,
		`SELECT height_cm, weight_kg, goal FROM profiles WHERE user_id = $1`,
		userID).Scan(&p.HeightCM, &p.WeightKG, &p.Goal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// GetTrainingSettings returns the rotation and weekly goal, or nil if the
// user never saved any.
func (db *DB) GetTrainingSettings(ctx context.Context, userID uuid.UUID) (*models.TrainingSettings, error) {
	var ts models.TrainingSettings
	err := db.Pool.QueryRow(ctx,
		`SELECT rotation, days_per_week FROM training_settings WHERE user_id = $1`,
		userID).Scan(&ts.Rotation.Days, &ts.WeeklyGoal.DaysPerWeek)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying training settings: %w", err)
	}
	return &ts, nil
}
