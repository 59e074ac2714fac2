// Package subcmd holds the flowctl command tree.
package subcmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"flowci-console/internal/application/config"
	"flowci-console/internal/application/console"
	"flowci-console/internal/application/dispatch"
	"flowci-console/pkg/log"

	"github.com/spf13/cobra"
)

const closeTimeout = 5 * time.Second

// App is the state shared by every subcommand of one invocation.
type App struct {
	ConfigPath string
	Output     string
	LogLevel   string

	transport dispatch.Transport
	config    *config.Config
	console   *console.Console
}

// Option customizes the command tree.
type Option func(*App)

// WithTransport replaces the HTTP transport.
func WithTransport(t dispatch.Transport) Option {
	return func(a *App) { a.transport = t }
}

// NewRootCommand builds the flowctl command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	cmd := &cobra.Command{
		Use:           "flowctl",
		Short:         "Inspect and drive flow.ci flows, agents and jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	cmd.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", config.DefaultConfigPath, "path to the configuration file (JSON or YAML)")
	cmd.PersistentFlags().StringVarP(&app.Output, "output", "o", "", "output format: table, json or yaml")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		NewFlowsCommand(app),
		NewEnvsCommand(app),
		NewYmlCommand(app),
		NewAgentsCommand(app),
		NewJobsCommand(app),
		NewRefreshCommand(app),
		NewWatchCommand(app),
		NewConfigCommand(app),
		NewVersionCommand(),
	)
	return cmd
}

// loadConfig reads the configuration and initializes logging.
func (a *App) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if a.config != nil {
		return a.config, nil
	}

	cfg, err := config.LoadConfig(a.ConfigPath)
	if err != nil {
		return nil, err
	}
	if a.LogLevel != "" {
		cfg.LogLevel = a.LogLevel
	}
	if a.Output != "" {
		if err := cfg.SetOutput(config.Format(a.Output)); err != nil {
			return nil, err
		}
	}
	log.InitLog(cfg.GetLogLevel(), cfg.GetLogFormat(), cmd.ErrOrStderr())

	a.config = cfg
	return cfg, nil
}

// open returns the console of this invocation, creating it on first use.
func (a *App) open(cmd *cobra.Command) (*console.Console, error) {
	if a.console != nil {
		return a.console, nil
	}
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var opts []console.Option
	if a.transport != nil {
		opts = append(opts, console.WithTransport(a.transport))
	}
	a.console = console.NewConsole(cmd.Context(), cfg, opts...)
	return a.console, nil
}

func (a *App) close() error {
	if a.console == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := a.console.Close(ctx); err != nil {
		return fmt.Errorf("close console: %w", err)
	}
	a.console = nil
	return nil
}

func (a *App) format() config.Format {
	if a.config == nil {
		return config.FormatTable
	}
	return a.config.GetOutput()
}

func (a *App) out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
