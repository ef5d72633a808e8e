package cli

import (
	"github.com/spf13/cobra"
)

// NewStartCommand creates the start command.
func NewStartCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start tracking tonight's sleep",
		Long: `Open a new night starting now.

Fails if the latest night is still open; stop it first.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			night, err := s.tracker.Start(cmd.Context())
			if err != nil {
				return s.out.Fail("failed to start tracking", err)
			}
			return s.out.Success(actionView{Message: "Tracking started.", Night: newNightView(night, s.loc)})
		},
	}
}

// NewStopCommand creates the stop command.
func NewStopCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stop",
		Short:         "Stop tracking the open night",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			night, err := s.tracker.Stop(cmd.Context())
			if err != nil {
				return s.out.Fail("failed to stop tracking", err)
			}
			return s.out.Success(actionView{Message: "Good morning!", Night: newNightView(night, s.loc)})
		},
	}
}
