package main

import (
	"os"

	firewatchcmder "github.com/rediaas/firewatch/cmd/firewatch"
)

func main() {
	cmd := firewatchcmder.NewFirewatchCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
