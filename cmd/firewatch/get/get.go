// Package getcmder provides the get command for one-shot reads.
package getcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rediaas/firewatch/pkg/config"
	"github.com/rediaas/firewatch/pkg/firebase"
	"github.com/rediaas/firewatch/pkg/logger"
)

type getCommander struct {
	host  string
	path  string
	query string
	debug bool
}

const getLongDesc string = `Read the value at a database location.

Issues a one-shot GET against the configured host and path and prints the
returned JSON document.

Query choices include: access_token, shallow, print, format and download.

Examples:
  firewatch get --path rooms/lobby
  firewatch get --path scores --query 'orderBy="value"&limitToLast=3'`

const getShortDesc string = "Read the value at a database location"

func NewGetCmd() *cobra.Command {
	cmder := &getCommander{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: getShortDesc,
		Long:  getLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return fillFromConfig(cmd, &cmder.host, &cmder.path)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.host, "host", "", "Database URL, e.g. https://PROJECT.firebaseio.com")
	cmd.Flags().StringVarP(&cmder.path, "path", "p", "", "Database path to read")
	cmd.Flags().StringVarP(&cmder.query, "query", "q", "", "Query string (shallow, orderBy, ...)")

	return cmd
}

// fillFromConfig backfills host and path from the persisted config when the
// caller did not pass the flags. Shared by the one-shot commands.
func fillFromConfig(cmd *cobra.Command, host, path *string) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cmd.Flags().Changed("host") {
		*host = cfg.Database.Host
	}
	if path != nil && !cmd.Flags().Changed("path") {
		*path = cfg.Database.Path
	}
	return nil
}

func (c *getCommander) run(ctx context.Context) error {
	log := logger.NewLogger(c.debug)
	defer func() { _ = log.Sync() }()

	if c.host == "" {
		return fmt.Errorf("no database host: pass --host or set database.host in the config")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	client := firebase.New(c.host, c.path, firebase.WithLogger(log))

	body, err := client.GetValue(ctx, c.query)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, string(body))
	return nil
}
