// Package firewatchcmder
package firewatchcmder

import (
	"github.com/spf13/cobra"

	callcmder "github.com/rediaas/firewatch/cmd/firewatch/call"
	configcmder "github.com/rediaas/firewatch/cmd/firewatch/config"
	getcmder "github.com/rediaas/firewatch/cmd/firewatch/get"
	setcmder "github.com/rediaas/firewatch/cmd/firewatch/set"
	watchcmder "github.com/rediaas/firewatch/cmd/firewatch/watch"
	versioncmder "github.com/rediaas/firewatch/cmd/version"
)

const firewatchLongDesc string = `Firewatch is a Firebase Realtime Database REST and streaming client.

Read, write and stream a database location:
  firewatch get        Read the value at the configured location
  firewatch set        Write a value (PUT, POST, PATCH or DELETE)
  firewatch watch      Stream change events, optionally into a local mirror
  firewatch call       Invoke a named Firebase function`

const firewatchShortDesc string = "Firewatch - Realtime Database client"

func NewFirewatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firewatch",
		Short: firewatchShortDesc,
		Long:  firewatchLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .firewatch/ config directory")

	// Add subcommands
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(getcmder.NewGetCmd())
	cmd.AddCommand(setcmder.NewSetCmd())
	cmd.AddCommand(callcmder.NewCallCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
