package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBlockCommand creates the block command.
func NewBlockCommand(rootOpts *RootOptions) *cobra.Command {
	return newAccessCommand(rootOpts, "block", "Hide a module from a user regardless of their settings", true)
}

// NewUnblockCommand creates the unblock command.
func NewUnblockCommand(rootOpts *RootOptions) *cobra.Command {
	return newAccessCommand(rootOpts, "unblock", "Lift a block placed with block", false)
}

func newAccessCommand(rootOpts *RootOptions, verb, short string, block bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <module>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				user, err := a.user()
				if err != nil {
					return err
				}
				change := a.svc.UnblockModule
				if block {
					change = a.svc.BlockModule
				}
				if err := change(a.ctx, user, args[0]); err != nil {
					return a.fail(err)
				}
				return a.done(fmt.Sprintf("%sed %s for %s", verb, args[0], user), map[string]any{
					"user":    user,
					"module":  args[0],
					"blocked": block,
				})
			})
		},
	}
}
