package cmd

import (
	"github.com/huangsam/birkin/core"
	"github.com/huangsam/birkin/internal/contract"
	"github.com/spf13/cobra"
)

// scheduleCmd keeps the snapshot warm in the foreground.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Refresh the pricing snapshot on a cron schedule.",
	Long: `Warm today's snapshot, then refresh it on the given cron spec until
interrupted. Run this next to a shared cache backend so interactive commands
never wait on the pricing endpoint.

The spec has six fields, starting with seconds. The default refreshes at
00:05:00 every day.

Examples:
  birkin schedule
  birkin schedule --schedule "0 */30 * * * *" --cache-backend postgresql`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSchedule(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Scheduler stopped", err)
		}
	},
}
