package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sleeplog/internal/sleep"
)

// RateOptions holds flags for the rate command.
type RateOptions struct {
	*RootOptions
	ID int64
}

// NewRateCommand creates the rate command.
func NewRateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rate <quality>",
		Short: "Rate how well you slept",
		Long: `Set the quality of a night.

Quality is a number from 0 to 5 or its label:
  0 Very bad, 1 Poor, 2 So-so, 3 OK, 4 Pretty good, 5 Excellent

Without --id the latest night is rated, open or not.`,
		Example: `  sleeplog rate 4
  sleeplog rate "pretty good" --id 12`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRate(cmd, opts, args[0])
		},
	}

	cmd.Flags().Int64Var(&opts.ID, "id", 0, "night to rate (default: latest)")

	return cmd
}

func runRate(cmd *cobra.Command, opts *RateOptions, arg string) error {
	q, err := sleep.ParseQuality(arg)
	if err != nil {
		out := newFormatter(cmd, opts.RootOptions)
		_ = out.Error(ErrCodeInvalidArgument, err.Error(), nil)
		return WrapExitError(ExitCommandError, fmt.Sprintf("%s: invalid quality", ErrCodeInvalidArgument), err)
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	var night sleep.Night
	if opts.ID != 0 {
		night, err = s.tracker.Rate(cmd.Context(), opts.ID, q)
	} else {
		night, err = s.tracker.RateLatest(cmd.Context(), q)
	}
	if err != nil {
		return s.out.Fail("failed to rate night", err)
	}

	return s.out.Success(actionView{
		Message: fmt.Sprintf("Night #%d rated %s.", night.ID, q),
		Night:   newNightView(night, s.loc),
	})
}
