package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GetOrCreateUser finds or creates a user by Tailscale login name and
// returns its ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving user %q: %w", login, err)
	}
	return id, nil
}
