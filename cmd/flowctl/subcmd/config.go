package subcmd

import (
	"fmt"

	"flowci-console/internal/application/config"
	"flowci-console/internal/application/version"

	"github.com/spf13/cobra"
)

func NewConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the flowctl configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(app), newConfigShowCommand(app))
	return cmd
}

type ConfigInitCommand struct {
	app    *App
	APIURL string
	Token  string
}

func newConfigInitCommand(app *App) *cobra.Command {
	initCmd := &ConfigInitCommand{app: app}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Args:  cobra.NoArgs,
		RunE:  initCmd.run,
	}
	cmd.Flags().StringVar(&initCmd.APIURL, "api-url", "", "base URL of the flow.ci API")
	cmd.Flags().StringVar(&initCmd.Token, "token", "", "bearer token sent with every request")
	return cmd
}

func (i *ConfigInitCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(i.app.ConfigPath)
	if err != nil {
		return err
	}
	if i.APIURL != "" {
		cfg.APIBaseURL = i.APIURL
	}
	if i.Token != "" {
		cfg.Token = i.Token
	}
	if i.app.LogLevel != "" {
		cfg.LogLevel = i.app.LogLevel
	}
	if i.app.Output != "" {
		if err := cfg.SetOutput(config.Format(i.app.Output)); err != nil {
			return err
		}
	}
	if err := config.SaveConfig(cfg, i.app.ConfigPath); err != nil {
		return err
	}
	fmt.Fprintf(i.app.out(cmd), "configuration written to %s\n", i.app.ConfigPath)
	return nil
}

func newConfigShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}
			shown := *cfg
			if shown.Token != "" {
				shown.Token = "********"
			}
			format := app.format()
			if format == config.FormatTable {
				format = config.FormatYAML
			}
			return render(app.out(cmd), format, shown, nil)
		},
	}
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the flowctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetVersion())
			return nil
		},
	}
}
