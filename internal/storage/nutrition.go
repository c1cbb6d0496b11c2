package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// ConsumedNutrition sums the entries marked consumed on day. Planned but
// uneaten entries are excluded.
func (db *DB) ConsumedNutrition(ctx context.Context, userID uuid.UUID, day calendar.Day) (models.NutritionTotals, error) {
	var t models.NutritionTotals
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(protein), 0),
		 COALESCE(SUM(carbs), 0), COALESCE(SUM(fat), 0)
		 FROM nutrition_entries
		 WHERE user_id = $1 AND date = $2 AND consumed`,
		userID, day.Time()).Scan(&t.Calories, &t.Protein, &t.Carbs, &t.Fat)
	if err != nil {
		return models.NutritionTotals{}, fmt.Errorf("summing nutrition: %w", err)
	}
	return t, nil
}

// GetNutritionGoals returns the daily macro goals, or nil if none are set.
func (db *DB) GetNutritionGoals(ctx context.Context, userID uuid.UUID) (*models.NutritionTotals, error) {
	var g models.NutritionTotals
	err := db.Pool.QueryRow(ctx,
		`SELECT calories, protein, carbs, fat FROM nutrition_goals WHERE user_id = $1`,
		userID).Scan(&g.Calories, &g.Protein, &g.Carbs, &g.Fat)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying nutrition goals: %w", err)
	}
	return &g, nil
}
