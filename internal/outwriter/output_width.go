package outwriter

import (
	"os"

	"github.com/huangsam/birkin/internal/contract"
	"golang.org/x/term"
)

const (
	defaultTermWidth = 80 // conservative default for narrow terminals and CI
	compactTermWidth = 48 // below this the series table drops its year and month columns
)

// GetTableWidth returns the width tables should fit into. The --width override
// wins, then the detected terminal width, then a conservative default.
func GetTableWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return defaultTermWidth
	}
	return detected
}

// isCompact reports whether tables should use their narrow layout.
func isCompact(cfg *contract.Config) bool {
	return GetTableWidth(cfg) < compactTermWidth
}
