package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HideOptions holds flags for the hide, show and hidden-list commands.
type HideOptions struct {
	*RootOptions
	Global bool
}

// NewHideCommand creates the hide command.
func NewHideCommand(rootOpts *RootOptions) *cobra.Command {
	return newSetHiddenCommand(rootOpts, "hide", "Hide a module on a user's desktop, or for everyone with --global", "hid", true)
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return newSetHiddenCommand(rootOpts, "show", "Show a hidden module again, or for everyone with --global", "showed", false)
}

func newSetHiddenCommand(rootOpts *RootOptions, verb, short, done string, hidden bool) *cobra.Command {
	opts := &HideOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   verb + " <module>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				user, err := opts.scope(a)
				if err != nil {
					return err
				}
				if err := a.svc.SetHidden(a.ctx, args[0], user, hidden); err != nil {
					return a.fail(err)
				}
				return a.done(fmt.Sprintf("%s %s", done, args[0]), map[string]any{
					"module": args[0],
					"user":   user,
					"hidden": hidden,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Global, "global", false, "change the shared catalog for every user")
	return cmd
}

// NewHiddenListCommand creates the hidden-list command.
func NewHiddenListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HideOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hidden-list [module...]",
		Short: "Hide exactly the listed modules and show every other one",
		Long: `Hide exactly the listed modules and show every other catalog module.

With no modules, every catalog module is shown.

Examples:
  deskicons hidden-list --user alice HR Stock
  deskicons hidden-list --global Setup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				user, err := opts.scope(a)
				if err != nil {
					return err
				}
				if err := a.svc.SetHiddenList(a.ctx, args, user); err != nil {
					return a.fail(err)
				}
				return a.done(fmt.Sprintf("hidden: %v", args), map[string]any{
					"user":   user,
					"hidden": nonNil(args),
				})
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Global, "global", false, "change the shared catalog for every user")
	return cmd
}

// scope returns "" for a global change, otherwise the configured user.
func (o *HideOptions) scope(a *app) (string, error) {
	if o.Global {
		return "", nil
	}
	return a.user()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
