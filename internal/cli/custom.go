package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/deskicons/internal/desktop"
	"github.com/roach88/deskicons/internal/icon"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Icon desktop.CustomIcon
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom icon to a user's desktop",
		Long: `Add a custom icon linking to a page. Adding a link that is already on
the desktop is reported and changes nothing; a hidden icon with the same link
is shown again.

Examples:
  deskicons add --user alice --label "Open Orders" --link "List/Sales Order?status=Open"
  deskicons add --user alice --label Quotations --link List/Quotation --module Selling`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return addCustomIcon(a, opts.Icon)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Icon.Label, "label", "", "icon label, also its module name (required)")
	cmd.Flags().StringVar(&opts.Icon.Link, "link", "", "page the icon opens (required)")
	cmd.Flags().StringVar(&opts.Icon.Type, "type", "link", "icon type")
	cmd.Flags().StringVar(&opts.Icon.DocType, "doctype", "", "document type the link targets")
	cmd.Flags().StringVar(&opts.Icon.Module, "module", "", "catalog module to take glyph and color from")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("link")

	return cmd
}

func addCustomIcon(a *app, req desktop.CustomIcon) error {
	user, err := a.user()
	if err != nil {
		return err
	}

	res, err := a.svc.AddCustomIcon(a.ctx, user, req)
	if icon.IsAlreadyExists(err) {
		// Informational: the icon is already there.
		return a.done(fmt.Sprintf("%s is already on the desktop of %s", res.Icon.ModuleName, user), map[string]any{
			"status": "exists",
			"icon":   res.Icon,
		})
	}
	if err != nil {
		return a.fail(err)
	}

	return a.done(fmt.Sprintf("%s %s at position %d", res.Status, res.Icon.ModuleName, res.Icon.Idx), res)
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <module>",
		Short: "Remove a custom icon from a user's desktop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				user, err := a.user()
				if err != nil {
					return err
				}
				if err := a.svc.RemoveCustomIcon(a.ctx, user, args[0]); err != nil {
					return a.fail(err)
				}
				return a.done(fmt.Sprintf("removed %s", args[0]), map[string]any{
					"user":   user,
					"module": args[0],
				})
			})
		},
	}
}
