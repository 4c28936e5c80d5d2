package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/deskicons/internal/desktop"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync the shared catalog from package feeds",
		Long: `Sync the shared catalog from the feed file of every installed package.

Packages come from the apps config key, or from the feed files found in
feeds_dir when apps is unset. A failing feed does not stop the others.

Exit codes:
  0 - All feeds synced
  2 - One or more feeds failed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				results, err := a.svc.SyncAll(a.ctx)
				if err != nil {
					if a.out.isJSON() {
						if werr := a.out.Error("E_SYNC_FAILED", err.Error(), results); werr != nil {
							return werr
						}
					} else {
						printSyncResults(a, results)
					}
					return WrapExitError(ExitCommandError, "sync failed", err)
				}
				if a.out.isJSON() {
					return a.out.Success(syncData(results))
				}
				printSyncResults(a, results)
				return nil
			})
		},
	}
}

func syncData(results []desktop.SyncResult) []desktop.SyncResult {
	if results == nil {
		return []desktop.SyncResult{}
	}
	return results
}

func printSyncResults(a *app, results []desktop.SyncResult) {
	w := a.out.Writer
	if len(results) == 0 {
		fmt.Fprintln(w, "No feeds found.")
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "%-16s created %d, updated %d, unchanged %d\n", r.App, r.Created, r.Updated, r.Unchanged)
	}
}
