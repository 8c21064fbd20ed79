package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridbook/gridbook/internal/cli"
	"github.com/gridbook/gridbook/internal/common"
	"github.com/gridbook/gridbook/internal/config"
	"github.com/gridbook/gridbook/internal/proximity"
	"github.com/gridbook/gridbook/internal/reputation"
	"github.com/gridbook/gridbook/internal/session"
)

func watchCmd() *cobra.Command {
	var sessionFile string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a live session and warn about tagged drivers",
		Long: `Poll the session snapshot source, reconcile the drivers it reports into
the reputation book, and print proximity warnings for tagged drivers.

Edits made from other terminals are picked up on the next start; this
command is the write path for encounter history.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			if sessionFile == "" {
				return fmt.Errorf("--session-file is required (live SDK binding is platform-specific)")
			}

			ctx := cmd.Context()
			store := openStoreOrNil(ctx, settings)
			if store != nil {
				defer func() { _ = store.Close() }()
			}

			tr := newTracker(ctx, store, settings)
			source := &session.FileSource{Path: sessionFile}
			detector := &proximity.Detector{ThresholdMeters: settings.ProximityThreshold}

			return runWatch(ctx, cmd, tr, source, detector, settings.SnapshotInterval)
		},
	}

	cmd.Flags().StringVar(&sessionFile, "session-file", "", "path to a session-info YAML snapshot (re-read every tick)")

	return cmd
}

// runWatch is the update loop: one normalization pass per tick, debounced
// flushing, and a forced flush on the way out so the last debounce window's
// edits are never lost.
func runWatch(ctx context.Context, cmd *cobra.Command, tr *reputation.Tracker, source session.SnapshotSource, detector *proximity.Detector, interval time.Duration) error {
	tr.BeginSession()
	slog.Info("Watching session", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastType session.Type

	for {
		select {
		case <-ctx.Done():
			if flushed := tr.Flush(context.Background(), true); flushed > 0 {
				slog.Info("Saved reputations on shutdown", "count", flushed)
			}
			return nil
		case <-ticker.C:
		}

		snap, err := source.Snapshot(ctx)
		if err != nil {
			common.LogError(err, "Snapshot unavailable, skipping tick", nil)
			continue
		}

		drivers, err := session.Normalize(snap)
		if err != nil {
			slog.Warn("Failed to normalize snapshot", "error", err)
			continue
		}

		info := session.ReadInfo(snap)
		if info.Type != lastType {
			// Joining a different session resets encounter tracking.
			tr.BeginSession()
			lastType = info.Type
			slog.Info("Session changed", "type", info.Type, "track", info.Track,
				"drivers", len(drivers), "sof", int(session.StrengthOfField(drivers)))
		}

		tr.Reconcile(drivers)

		for _, w := range detector.Scan(drivers, tr) {
			line := w.Text()
			switch {
			case w.Urgent():
				line = cli.WarningStyle.Render(line)
			case w.Reputation.IsPositive():
				line = cli.SubtleStyle.Render(line)
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}

		tr.Flush(ctx, false)
	}
}
