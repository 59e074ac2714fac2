package subcmd

import (
	"fmt"
	"time"

	"flowci-console/internal/application/config"
	"flowci-console/internal/application/console"
	"flowci-console/internal/domain/state"
	"flowci-console/pkg/log"

	"github.com/spf13/cobra"
)

func NewRefreshCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Load flows, latest jobs and agents once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd)
			if err != nil {
				return err
			}
			if err := c.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.out(cmd), summary(c.State()))
			return nil
		},
	}
}

type WatchCommand struct {
	app      *App
	Interval time.Duration
}

func NewWatchCommand(app *App) *cobra.Command {
	watchCmd := &WatchCommand{app: app}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE:  watchCmd.run,
	}
	cmd.Flags().DurationVar(&watchCmd.Interval, "interval", 0, "refresh interval, defaults to the configured poll interval")
	return cmd
}

func (w *WatchCommand) run(cmd *cobra.Command, args []string) error {
	c, err := w.app.open(cmd)
	if err != nil {
		return err
	}
	interval := w.Interval
	if interval <= 0 {
		interval = w.app.config.GetPollInterval()
	}

	out := w.app.out(cmd)
	var last string
	unsubscribe := c.Subscribe(func(s state.State) {
		if line := summary(s); line != last {
			last = line
			fmt.Fprintln(out, line)
		}
	})
	defer unsubscribe()

	errOut := cmd.ErrOrStderr()
	watcher := console.NewConfigWatcher(w.app.ConfigPath, func(cfg *config.Config) {
		log.InitLog(cfg.GetLogLevel(), cfg.GetLogFormat(), errOut)
		log.Info("Log level updated", "level", cfg.GetLogLevel())
	})
	if err := watcher.Start(cmd.Context()); err != nil {
		log.Warn("Config watcher not started", "error", err)
	} else {
		defer watcher.Stop()
	}

	log.Info("Watching", "interval", interval)
	return c.Watch(cmd.Context(), interval)
}

func summary(s state.State) string {
	pending := 0
	s.Flows.UI.Pending.Each(func(string, bool) bool { pending++; return true })
	s.Agents.UI.Pending.Each(func(string, bool) bool { pending++; return true })
	failed := s.Flows.UI.Errors.Len() + s.Agents.UI.Errors.Len()
	return fmt.Sprintf("flows=%d jobs=%d agents=%d pending=%d failed=%d",
		s.Flows.Data.Len(), s.Flows.Status.Len(), s.Agents.Data.Len(), pending, failed)
}
