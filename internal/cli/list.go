package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sleeplog/internal/tracker"
)

// ListOptions holds flags for the list and stats commands.
type ListOptions struct {
	*RootOptions
	Days int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List nights, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts.RootOptions)
			if err != nil {
				return err
			}
			defer s.Close()

			nights, err := s.store.List(cmd.Context())
			if err != nil {
				return s.out.Fail("failed to list nights", err)
			}
			if opts.Days > 0 {
				nights = tracker.Since(nights, s.cutoff(opts.Days))
			}
			return s.out.Success(nightsView{Nights: newNightViews(nights, s.loc)})
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 0, "only nights started in the last N days (0 = all)")

	return cmd
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize your sleep",
		Long: `Count nights and ratings and total up the time slept.

Open nights are counted but contribute no sleep time. The average quality
covers rated nights only.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts.RootOptions)
			if err != nil {
				return err
			}
			defer s.Close()

			nights, err := s.store.List(cmd.Context())
			if err != nil {
				return s.out.Fail("failed to list nights", err)
			}
			if opts.Days > 0 {
				nights = tracker.Since(nights, s.cutoff(opts.Days))
			}
			return s.out.Success(statsView{Summary: tracker.Summarize(nights), Days: opts.Days})
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 0, "only nights started in the last N days (0 = all)")

	return cmd
}
