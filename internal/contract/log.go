package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the process-wide diagnostics logger. It writes to stderr so that
// stdout stays clean for table, CSV, JSON and MCP stdio output.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	With().Timestamp().Logger().Level(zerolog.WarnLevel)

// SetLogLevel adjusts Logger from a textual level such as "debug" or "warn".
func SetLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", level)
	}
	Logger = Logger.Level(lvl)
	return nil
}

// osExit is swapped out in tests.
var osExit = os.Exit

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithLevel(zerolog.FatalLevel).Err(err).Msg(msg)
	osExit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.Warn().Err(err).Msg(msg)
}
