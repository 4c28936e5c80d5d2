package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/deskicons/internal/icon"
	"github.com/roach88/deskicons/internal/merge"
)

// IconsOptions holds flags for the icons command.
type IconsOptions struct {
	*RootOptions
	All bool
}

// NewIconsCommand creates the icons command.
func NewIconsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IconsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Show a user's desktop",
		Long: `Show the merged desktop of a user in display order.

Hidden icons are listed only with --all.

Examples:
  deskicons icons --user alice
  deskicons icons --user alice --all --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return listIcons(a, opts.All)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "include hidden icons")
	return cmd
}

func listIcons(a *app, all bool) error {
	user, err := a.user()
	if err != nil {
		return err
	}
	icons, err := a.svc.GetIcons(a.ctx, user)
	if err != nil {
		return a.fail(err)
	}
	if !all {
		icons = merge.Visible(icons)
	}

	if a.out.isJSON() {
		return a.out.Success(icons)
	}

	w := a.out.Writer
	if len(icons) == 0 {
		fmt.Fprintln(w, "No icons.")
		return nil
	}
	for _, ic := range icons {
		fmt.Fprintf(w, "%3d  %-24s %s\n", ic.Idx, ic.ModuleName, iconFlags(ic))
	}
	return nil
}

// iconFlags summarizes why an icon looks the way it does.
func iconFlags(ic icon.Icon) string {
	var s string
	switch {
	case ic.HiddenByCatalog:
		s = "hidden (catalog)"
	case ic.Hidden:
		s = "hidden"
	}
	if ic.Custom {
		if s != "" {
			s += ", "
		}
		s += "custom"
	}
	return s
}

// NewBootCommand creates the boot command.
func NewBootCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "boot",
		Short: "Print the desktop summary sent at session start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				user, err := a.user()
				if err != nil {
					return err
				}
				info, err := a.svc.BootInfo(a.ctx, user)
				if err != nil {
					return a.fail(err)
				}
				if a.out.isJSON() {
					return a.out.Success(info)
				}
				fmt.Fprintf(a.out.Writer, "user:    %s\n", info.User)
				fmt.Fprintf(a.out.Writer, "modules: %v\n", info.Modules)
				fmt.Fprintf(a.out.Writer, "hidden:  %v\n", info.Hidden)
				return nil
			})
		},
	}
}
