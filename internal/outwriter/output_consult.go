package outwriter

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
)

// writeConsultText prints the outcome message with a status marker.
func writeConsultText(w io.Writer, outcome schema.ConsultOutcome, cfg *contract.Config) error {
	marker := "✅"
	paint := fmt.Sprint
	if outcome.Status != schema.ConsultSuccess {
		marker = "❌"
		if cfg.UseColors {
			paint = color.New(color.FgRed).SprintFunc()
		}
	} else if cfg.UseColors {
		paint = color.New(color.FgGreen).SprintFunc()
	}

	if _, err := fmt.Fprintf(w, "%s %s\n", marker, paint(outcome.Message)); err != nil {
		return err
	}
	if outcome.ImageURL != "" {
		if _, err := fmt.Fprintf(w, "   Reference image: %s\n", outcome.ImageURL); err != nil {
			return err
		}
	}
	return nil
}
