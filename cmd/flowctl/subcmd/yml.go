package subcmd

import (
	"fmt"
	"io"
	"os"

	"flowci-console/internal/application/flow"
	"flowci-console/internal/application/request"

	"github.com/spf13/cobra"
)

func NewYmlCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yml",
		Short: "Read and write flow definitions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get NAME",
			Short: "Print the definition of a flow",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := app.open(cmd)
				if err != nil {
					return err
				}
				if _, err := c.Do(cmd.Context(), func() (request.Descriptor, error) { return flow.GetYml(args[0]) }); err != nil {
					return err
				}
				text, _ := c.State().Flows.Yml.Get(args[0])
				_, err = io.WriteString(app.out(cmd), text)
				return err
			},
		},
		newYmlSaveCommand(app),
		&cobra.Command{
			Use:   "load NAME",
			Short: "Ask the server to fetch the definition from git",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.showFlow(cmd, args[0], func() (request.Descriptor, error) { return flow.LoadYml(args[0]) })
			},
		},
	)
	return cmd
}

type YmlSaveCommand struct {
	app  *App
	File string
}

func newYmlSaveCommand(app *App) *cobra.Command {
	saveCmd := &YmlSaveCommand{app: app}
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Upload a flow definition from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE:  saveCmd.run,
	}
	cmd.Flags().StringVarP(&saveCmd.File, "file", "f", "-", "definition file, - for stdin")
	return cmd
}

func (y *YmlSaveCommand) run(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if y.File == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(y.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read definition: %w", err)
	}

	c, err := y.app.open(cmd)
	if err != nil {
		return err
	}
	if _, err := c.SaveYml(cmd.Context(), args[0], string(data)); err != nil {
		return err
	}
	fmt.Fprintf(y.app.out(cmd), "flow %s definition saved\n", args[0])
	return nil
}
