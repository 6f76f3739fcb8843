// main is the entry point for the abtrend CLI.
package main

import (
	"github.com/huangsam/abtrend/cmd"
	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores() // called in main defer

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		// LogFatal exits, so close stores first
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
