package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sleeplog/internal/config"
)

// defaultWatchPoll is how often watch checks for commits from other
// processes when neither the flag nor the config sets an interval.
const defaultWatchPoll = time.Second

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Limit int
	Poll  time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the night list every time it changes",
		Long: `Subscribe to the journal and print a line per change.

The current state is printed immediately. Changes made by other sleeplog
processes are picked up by polling the database. A reader that falls
behind skips intermediate states and sees only the newest one.

Runs until interrupted or until --limit updates have been printed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop after N updates (0 = run until interrupted)")
	cmd.Flags().DurationVar(&opts.Poll, "poll", defaultWatchPoll, "how often to check for changes from other processes")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	pollSet := cmd.Flags().Changed("poll")
	s, err := openSession(cmd, opts.RootOptions, func(cfg *config.Config) {
		if pollSet || cfg.Poll() == 0 {
			cfg.PollInterval = opts.Poll.String()
		}
	})
	if err != nil {
		return err
	}
	defer s.Close()

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			s.logger.Info("received signal, stopping watch", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	sub, err := s.store.Observe(ctx)
	if err != nil {
		return s.out.Fail("failed to watch nights", err)
	}
	defer sub.Close()

	s.out.VerboseLog("Watching %s (subscription %s)", s.cfg.Database, sub.ID())

	printed := 0
	for snap := range sub.C() {
		if err := s.out.Success(newSnapshotView(snap, s.loc)); err != nil {
			return err
		}
		printed++
		if opts.Limit > 0 && printed >= opts.Limit {
			return nil
		}
	}

	// Channel closed: interrupted, or the store failed underneath us.
	if err := sub.Err(); err != nil {
		return s.out.Fail("watch ended", err)
	}
	return nil
}
