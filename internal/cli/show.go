package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one night",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				out := newFormatter(cmd, opts)
				_ = out.Error(ErrCodeInvalidArgument, fmt.Sprintf("invalid night id %q", args[0]), nil)
				return WrapExitError(ExitCommandError, fmt.Sprintf("%s: invalid night id", ErrCodeInvalidArgument), err)
			}

			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			night, found, err := s.store.Get(cmd.Context(), id)
			if err != nil {
				return s.out.Fail("failed to read night", err)
			}
			if !found {
				_ = s.out.Error(ErrCodeNotFound, fmt.Sprintf("night %d not found", id), nil)
				return NewExitError(ExitFailure, fmt.Sprintf("%s: night %d not found", ErrCodeNotFound, id))
			}
			return s.out.Success(newNightView(night, s.loc))
		},
	}
}

// NewLatestCommand creates the latest command.
func NewLatestCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "latest",
		Short:         "Show the most recent night",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			night, found, err := s.store.GetLatest(cmd.Context())
			if err != nil {
				return s.out.Fail("failed to read latest night", err)
			}
			if !found {
				_ = s.out.Error(ErrCodeNotFound, "no nights recorded", nil)
				return NewExitError(ExitFailure, ErrCodeNotFound+": no nights recorded")
			}
			return s.out.Success(newNightView(night, s.loc))
		},
	}
}
