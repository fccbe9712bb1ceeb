package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	GainColor    = color.New(color.FgGreen, color.Bold) // GainColor marks a positive yield.
	LossColor    = color.New(color.FgRed, color.Bold)   // LossColor marks a negative yield.
	FlatColor    = color.New(color.FgYellow)            // FlatColor marks a zero yield.
	DegradeColor = color.New(color.FgMagenta)           // DegradeColor marks a degraded dataset.
)

// GetYieldLabel returns the yield label colored by its sign.
func GetYieldLabel(yield int64) string {
	text := fmt.Sprintf("%d%%", yield)
	switch {
	case yield > 0:
		return GainColor.Sprint(text)
	case yield < 0:
		return LossColor.Sprint(text)
	default:
		return FlatColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".birkin_cache.db"
	}
	return filepath.Join(homeDir, ".birkin_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for fetch history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".birkin_history.db"
	}
	return filepath.Join(homeDir, ".birkin_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
