package cmd

import (
	"errors"

	"github.com/huangsam/birkin/core"
	"github.com/huangsam/birkin/internal/contract"
	"github.com/spf13/cobra"
)

// consultCmd sends a private advisor lead.
var consultCmd = &cobra.Command{
	Use:   "consult",
	Short: "Request a private consultation with an acquisition advisor.",
	Long: `Submit a consultation request to the advisor form backend.

The bag model and hardware come from --model and --hardware. An optional
reference image is uploaded first and its public URL is attached to the
request. When Mailgun is configured, the advisor also receives an email copy.

There are no automatic retries. The command exits non-zero when the request
was not sent.

Examples:
  birkin consult --name "Jane Doe" --email jane@example.com \
    --model "Birkin 30" --hardware Gold --leather "Precious Skin"

  birkin consult --name "Jane Doe" --email jane@example.com \
    --leather "Collector/LE" --image ./bag.jpg --message "Looking for Etoupe"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteConsult(rootCtx, cfg); err != nil {
			if errors.Is(err, core.ErrConsultFailed) {
				// The outcome message was already printed
				contract.LogFatal("Consultation not sent", nil)
			}
			contract.LogFatal("Cannot send consultation", err)
		}
	},
}
