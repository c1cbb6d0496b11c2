package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nhanzalone1/netgains/internal/cache"
	"github.com/spf13/cobra"
)

func invalidateCmd(logLevel *string) *cobra.Command {
	var user, event, cacheDir string

	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop a user's cached brief from a SQLite cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvalidate(cmd.Context(), cmd.OutOrStdout(), newLogger(*logLevel), user, event, cacheDir)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User ID (UUID)")
	cmd.Flags().StringVar(&event, "event", string(cache.EventWorkoutSaved), "Triggering event")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory holding the SQLite cache")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("cache-dir")

	return cmd
}

func runInvalidate(ctx context.Context, w io.Writer, log *slog.Logger, user, event, cacheDir string) error {
	userID, err := parseUser(user)
	if err != nil {
		return err
	}
	ev, err := cache.ParseEvent(event)
	if err != nil {
		return err
	}

	store, err := cache.OpenSQLiteStore(cacheDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Invalidate(ctx, userID); err != nil {
		return fmt.Errorf("invalidating %s: %w", userID, err)
	}
	log.Info("brief invalidated", "user_id", userID, "event", ev)
	fmt.Fprintf(w, "invalidated brief for %s (%s)\n", userID, ev)
	return nil
}
