// Package configcmder provides the config command for managing persistent
// firewatch configuration stored in the .firewatch/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent firewatch configuration.

Configuration is stored as config.toml in the .firewatch/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  database.host, database.path,
  functions.host,
  watch.heartbeat_timeout, watch.reconnect,
  mirror.sqlite_path, mirror.workers

Use subcommands to get, set, or list configuration values:
  firewatch config set <key> <value>    Set a configuration value
  firewatch config get <key>            Get a configuration value
  firewatch config list                 List all configuration values

Examples:
  firewatch config set database.host https://demo.firebaseio.com
  firewatch config set mirror.sqlite_path ./mirror.db
  firewatch config get database.host
  firewatch config list`

const configShortDesc string = "Manage persistent firewatch configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
