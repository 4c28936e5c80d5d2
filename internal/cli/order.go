package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order <module>...",
		Short: "Set the display order of a user's icons",
		Long: `Set the display order of a user's icons. Each listed module takes its
position as its index; unlisted modules keep their current index.

Example:
  deskicons order --user alice Stock Sales HR`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				user, err := a.user()
				if err != nil {
					return err
				}
				if err := a.svc.SetOrder(a.ctx, args, user); err != nil {
					return a.fail(err)
				}
				return a.done(fmt.Sprintf("order: %s", strings.Join(args, ", ")), map[string]any{
					"user":    user,
					"modules": args,
				})
			})
		},
	}
}
