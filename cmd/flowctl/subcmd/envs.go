package subcmd

import (
	"fmt"
	"strings"

	"flowci-console/internal/application/console"
	"flowci-console/internal/application/flow"
	"flowci-console/internal/application/request"
	"flowci-console/pkg/env"
	"flowci-console/pkg/ordered"

	"github.com/spf13/cobra"
)

func NewEnvsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "envs",
		Aliases: []string{"env"},
		Short:   "Manage flow environment variables",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get NAME",
			Short: "Show the editable variables of a flow",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := app.loadEditEnvs(cmd, args[0])
				if err != nil {
					return err
				}
				return app.renderEditEnvs(cmd, c, args[0])
			},
		},
		&cobra.Command{
			Use:   "set NAME KEY=VALUE...",
			Short: "Save editable variables; new keys are listed first",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				batch, err := parsePairs(args[1:])
				if err != nil {
					return err
				}
				c, err := app.loadEditEnvs(cmd, args[0])
				if err != nil {
					return err
				}
				if _, err := c.Do(cmd.Context(), func() (request.Descriptor, error) { return flow.SaveEditEnvs(args[0], batch) }); err != nil {
					return err
				}
				return app.renderEditEnvs(cmd, c, args[0])
			},
		},
		&cobra.Command{
			Use:     "rm NAME KEY",
			Aliases: []string{"remove"},
			Short:   "Delete an editable variable",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := app.loadEditEnvs(cmd, args[0])
				if err != nil {
					return err
				}
				if _, err := c.Do(cmd.Context(), func() (request.Descriptor, error) { return flow.RemoveEditEnv(args[0], args[1]) }); err != nil {
					return err
				}
				return app.renderEditEnvs(cmd, c, args[0])
			},
		},
		newEnvsExportCommand(app),
		newEnvsImportCommand(app),
		&cobra.Command{
			Use:   "patch NAME KEY=VALUE...",
			Short: "Set system variables of a flow",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				env, err := parsePairs(args[1:])
				if err != nil {
					return err
				}
				return app.showFlow(cmd, args[0], func() (request.Descriptor, error) { return flow.UpdateEnv(args[0], env) })
			},
		},
		&cobra.Command{
			Use:   "unset NAME KEY...",
			Short: "Delete system variables of a flow",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.showFlow(cmd, args[0], func() (request.Descriptor, error) { return flow.RemoveEnv(args[0], args[1:]...) })
			},
		},
		&cobra.Command{
			Use:   "wait NAME",
			Short: "Wait until the flow definition has been loaded from git",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := app.open(cmd)
				if err != nil {
					return err
				}
				status, err := c.WaitTestResult(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(app.out(cmd), status)
				return nil
			},
		},
	)
	return cmd
}

func (a *App) loadEditEnvs(cmd *cobra.Command, id string) (*console.Console, error) {
	c, err := a.open(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := c.Do(cmd.Context(), func() (request.Descriptor, error) { return flow.GetEditEnvs(id) }); err != nil {
		return nil, err
	}
	return c, nil
}

func (a *App) renderEditEnvs(cmd *cobra.Command, c *console.Console, id string) error {
	env, _ := c.State().Flows.EditEnv(id)
	return render(a.out(cmd), a.format(), env, envTable(env))
}

type EnvsFileCommand struct {
	app  *App
	File string
}

func newEnvsExportCommand(app *App) *cobra.Command {
	exportCmd := &EnvsFileCommand{app: app}
	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Write the editable variables of a flow in .env format",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCmd.export,
	}
	cmd.Flags().StringVarP(&exportCmd.File, "file", "f", "-", "destination file, - for stdout")
	return cmd
}

func newEnvsImportCommand(app *App) *cobra.Command {
	importCmd := &EnvsFileCommand{app: app}
	cmd := &cobra.Command{
		Use:   "import NAME",
		Short: "Save editable variables read from a .env file",
		Args:  cobra.ExactArgs(1),
		RunE:  importCmd.importEnvs,
	}
	cmd.Flags().StringVarP(&importCmd.File, "file", "f", "-", "source file, - for stdin")
	return cmd
}

func (e *EnvsFileCommand) export(cmd *cobra.Command, args []string) error {
	c, err := e.app.loadEditEnvs(cmd, args[0])
	if err != nil {
		return err
	}
	vars, _ := c.State().Flows.EditEnv(args[0])
	if e.File == "-" {
		return env.Write(e.app.out(cmd), vars)
	}
	return env.Save(e.File, vars)
}

func (e *EnvsFileCommand) importEnvs(cmd *cobra.Command, args []string) error {
	var (
		batch ordered.Map[string, string]
		err   error
	)
	if e.File == "-" {
		batch, err = env.Parse(cmd.InOrStdin())
	} else {
		batch, err = env.Load(e.File)
	}
	if err != nil {
		return err
	}
	if batch.Len() == 0 {
		return fmt.Errorf("no variables found")
	}

	c, err := e.app.loadEditEnvs(cmd, args[0])
	if err != nil {
		return err
	}
	if _, err := c.Do(cmd.Context(), func() (request.Descriptor, error) { return flow.SaveEditEnvs(args[0], batch) }); err != nil {
		return err
	}
	return e.app.renderEditEnvs(cmd, c, args[0])
}

// parsePairs reads KEY=VALUE arguments, keeping their order.
func parsePairs(args []string) (ordered.Map[string, string], error) {
	var pairs ordered.Map[string, string]
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return pairs, fmt.Errorf("invalid argument %q, expected KEY=VALUE", arg)
		}
		pairs = pairs.Set(k, v)
	}
	return pairs, nil
}

