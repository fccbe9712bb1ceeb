// main is the entry point for the birkin CLI.
package main

import (
	"os"

	"github.com/huangsam/birkin/cmd"
	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/internal/iocache"
)

func main() {
	err := cmd.Execute()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}
	iocache.CloseCaching()
	if err != nil {
		contract.Logger.Error().Err(err).Msg("birkin failed")
		os.Exit(1)
	}
}
