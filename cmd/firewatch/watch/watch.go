// Package watchcmder provides the watch command: stream change events from a
// database location, optionally mirroring them into a local SQLite database.
package watchcmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rediaas/firewatch/pkg/cliui"
	"github.com/rediaas/firewatch/pkg/config"
	"github.com/rediaas/firewatch/pkg/firebase"
	"github.com/rediaas/firewatch/pkg/firebase/stream"
	"github.com/rediaas/firewatch/pkg/logger"
	"github.com/rediaas/firewatch/pkg/mirror"
)

type watchCommander struct {
	host             string
	path             string
	query            string
	sqlitePath       string
	workers          uint
	heartbeatTimeout string
	reconnect        bool
	debug            bool

	logger *zap.Logger
}

const watchLongDesc string = `Stream change events from a database location.

Opens a long-lived event stream against the configured host and path and
prints every put event as it arrives. Keep-alive frames reset the liveness
watchdog; when the stream goes quiet for longer than --heartbeat-timeout the
session is torn down so the supervisor can reopen it.

With --sqlite, every observed put is also persisted into a local SQLite
mirror by an asynchronous worker pool.

Query choices include: access_token, startAt, endAt, orderBy.`

const watchShortDesc string = "Stream change events from the database"

func NewWatchCmd() *cobra.Command {
	cmder := &watchCommander{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: watchShortDesc,
		Long:  watchLongDesc,
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
			if !cmd.Flags().Changed("sqlite") {
				cmder.sqlitePath = cfg.Mirror.SQLitePath
			}
			if !cmd.Flags().Changed("workers") {
				cmder.workers = cfg.Mirror.Workers
			}
			if !cmd.Flags().Changed("heartbeat-timeout") {
				cmder.heartbeatTimeout = cfg.Watch.HeartbeatTimeout
			}
			if !cmd.Flags().Changed("reconnect") {
				cmder.reconnect = cfg.Watch.Reconnect
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVar(&cmder.host, "host", "", "Database URL, e.g. https://PROJECT.firebaseio.com")
	cmd.Flags().StringVarP(&cmder.path, "path", "p", "", "Database path to watch")
	cmd.Flags().StringVarP(&cmder.query, "query", "q", "", "Query string (orderBy, startAt, endAt, ...)")
	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite mirror database (default: mirroring off)")
	cmd.Flags().UintVar(&cmder.workers, "workers", defaults.Mirror.Workers, "Mirror worker pool size")
	cmd.Flags().StringVar(&cmder.heartbeatTimeout, "heartbeat-timeout", defaults.Watch.HeartbeatTimeout, "Tear the stream down after this quiet period")
	cmd.Flags().BoolVar(&cmder.reconnect, "reconnect", defaults.Watch.Reconnect, "Reopen the stream with backoff when it closes")

	return cmd
}

func (c *watchCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	if c.host == "" {
		return errors.New("no database host: pass --host or set database.host in the config")
	}

	quiet, err := time.ParseDuration(c.heartbeatTimeout)
	if err != nil {
		return fmt.Errorf("invalid heartbeat timeout: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := []stream.Sink{&consoleSink{logger: c.logger}}

	if c.sqlitePath != "" {
		store, err := mirror.NewStore(c.sqlitePath)
		if err != nil {
			return fmt.Errorf("opening mirror: %w", err)
		}
		defer store.Close()

		pool, err := mirror.NewPool(&mirror.PoolConfig{
			Store:      store,
			NumWorkers: c.workers,
			Logger:     c.logger,
		})
		if err != nil {
			return fmt.Errorf("creating mirror pool: %w", err)
		}
		defer pool.Close()

		c.logger.Info("mirroring puts", zap.String("sqlite", c.sqlitePath))
		sinks = append(sinks, mirror.NewSink(pool))
	}

	var session *stream.Session
	dog := stream.NewWatchdog(quiet, func() {
		c.logger.Warn("stream stale, closing session", zap.Duration("quiet", quiet))
		session.Close()
	})
	defer dog.Stop()

	session = stream.NewSession(
		dog.Sink(fanout(sinks)),
		stream.WithLogger(c.logger),
		stream.WithStateListener(func(s stream.State) {
			c.logger.Debug("session state", zap.Stringer("state", s))
		}),
	)

	client := firebase.New(c.host, c.path, firebase.WithLogger(c.logger))
	target := client.Path(c.query)

	c.logger.Info("watching", zap.String("target", target))

	if c.reconnect {
		sup := stream.NewSupervisor(session, target, stream.WithSupervisorLogger(c.logger))
		if err := sup.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	if err := session.Open(ctx, target); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		session.Close()
	case <-session.Done():
	}

	return nil
}

// consoleSink prints decoded events to stdout and logs diagnostics.
type consoleSink struct {
	logger *zap.Logger
}

func (s *consoleSink) OnKeepAlive() {
	s.logger.Debug("keep-alive")
}

func (s *consoleSink) OnPut(document map[string]any) {
	path, _ := document["path"].(string)
	data, err := json.Marshal(document["data"])
	if err != nil {
		data = []byte("<unencodable>")
	}

	fmt.Printf("%s %s %s\n",
		cliui.EventStyle.Render("put"),
		cliui.KeyStyle.Render(path),
		cliui.ValueStyle.Render(string(data)),
	)
}

func (s *consoleSink) OnUnknownEvent(rawName string) {
	s.logger.Warn("unknown event", zap.String("event", rawName))
}

func (s *consoleSink) OnDecodeError(err error) {
	s.logger.Warn("decode error", zap.Error(err))
}

// fanoutSink delivers every callback to each registered sink in order.
type fanoutSink struct {
	sinks []stream.Sink
}

func fanout(sinks []stream.Sink) stream.Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return &fanoutSink{sinks: sinks}
}

func (f *fanoutSink) OnKeepAlive() {
	for _, s := range f.sinks {
		s.OnKeepAlive()
	}
}

func (f *fanoutSink) OnPut(document map[string]any) {
	for _, s := range f.sinks {
		s.OnPut(document)
	}
}

func (f *fanoutSink) OnUnknownEvent(rawName string) {
	for _, s := range f.sinks {
		s.OnUnknownEvent(rawName)
	}
}

func (f *fanoutSink) OnDecodeError(err error) {
	for _, s := range f.sinks {
		s.OnDecodeError(err)
	}
}
