// Package setcmder provides the set command for one-shot writes.
package setcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rediaas/firewatch/pkg/config"
	"github.com/rediaas/firewatch/pkg/firebase"
	"github.com/rediaas/firewatch/pkg/logger"
)

type setCommander struct {
	host  string
	path  string
	query string
	verb  string
	debug bool
}

const setLongDesc string = `Write a value to a database location.

The document is read from the argument, or from stdin when the argument is
"-". The write verb defaults to PATCH; PUT replaces, POST appends under a
generated key, DELETE removes the location (no document needed).

Examples:
  firewatch set '{"name":"Ada"}' --path users/42
  firewatch set '{"score":10}' --path scores --verb PUT
  echo '{"msg":"hi"}' | firewatch set - --path rooms/lobby --verb POST
  firewatch set --path users/42 --verb DELETE`

const setShortDesc string = "Write a value to a database location"

func NewSetCmd() *cobra.Command {
	cmder := &setCommander{}

	cmd := &cobra.Command{
		Use:   "set [document]",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
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
				cmder.host = cfg.Database.Host
			}
			if !cmd.Flags().Changed("path") {
				cmder.path = cfg.Database.Path
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")

			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			return cmder.run(cmd.Context(), raw)
		},
	}

	cmd.Flags().StringVar(&cmder.host, "host", "", "Database URL, e.g. https://PROJECT.firebaseio.com")
	cmd.Flags().StringVarP(&cmder.path, "path", "p", "", "Database path to write")
	cmd.Flags().StringVarP(&cmder.query, "query", "q", "", "Query string (print, format, ...)")
	cmd.Flags().StringVar(&cmder.verb, "verb", firebase.DefaultVerb, "Write verb: PUT, POST, PATCH or DELETE")

	return cmd
}

func (c *setCommander) run(ctx context.Context, raw string) error {
	log := logger.NewLogger(c.debug)
	defer func() { _ = log.Sync() }()

	if c.host == "" {
		return fmt.Errorf("no database host: pass --host or set database.host in the config")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	verb := strings.ToUpper(c.verb)

	var doc any
	if verb != "DELETE" {
		if raw == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading document from stdin: %w", err)
			}
			raw = string(data)
		}
		if strings.TrimSpace(raw) == "" {
			return fmt.Errorf("no document: pass one as an argument or '-' for stdin")
		}
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return fmt.Errorf("document is not valid JSON: %w", err)
		}
	}

	client := firebase.New(c.host, c.path, firebase.WithLogger(log))

	body, err := client.SetValue(ctx, doc, verb, c.query)
	if err != nil {
		return err
	}

	if len(body) > 0 {
		fmt.Fprintln(os.Stdout, string(body))
	}
	return nil
}
