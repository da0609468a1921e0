// Package callcmder provides the call command for invoking Firebase functions.
package callcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rediaas/firewatch/pkg/config"
	"github.com/rediaas/firewatch/pkg/firebase"
	"github.com/rediaas/firewatch/pkg/logger"
)

type callCommander struct {
	functionHost string
	debug        bool
}

const callLongDesc string = `Invoke a named Firebase function.

Issues a GET against the configured function host with the function name
appended and prints the response body.

Examples:
  firewatch call sendWelcomeEmail
  firewatch call nightlyCleanup --function-host https://us-central1-PROJECT.cloudfunctions.net/`

const callShortDesc string = "Invoke a named Firebase function"

func NewCallCmd() *cobra.Command {
	cmder := &callCommander{}

	cmd := &cobra.Command{
		Use:   "call <function>",
		Short: callShortDesc,
		Long:  callLongDesc,
		Args:  cobra.ExactArgs(1),
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

			if !cmd.Flags().Changed("function-host") {
				cmder.functionHost = cfg.Functions.Host
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&cmder.functionHost, "function-host", "", "Host accepting function calls")

	return cmd
}

func (c *callCommander) run(ctx context.Context, name string) error {
	log := logger.NewLogger(c.debug)
	defer func() { _ = log.Sync() }()

	if c.functionHost == "" {
		return fmt.Errorf("no function host: pass --function-host or set functions.host in the config")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	client := firebase.New("", "", firebase.WithLogger(log), firebase.WithFunctionHost(c.functionHost))

	body, err := client.CallFunction(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, string(body))
	return nil
}
