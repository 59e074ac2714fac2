package subcmd

import (
	"fmt"
	"strings"

	"flowci-console/internal/application/flow"
	"flowci-console/internal/application/request"
	"flowci-console/internal/domain/model"

	"github.com/spf13/cobra"
)

func NewFlowsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flows",
		Aliases: []string{"flow"},
		Short:   "Manage flows",
	}
	cmd.AddCommand(
		newFlowsListCommand(app),
		newFlowsGetCommand(app),
		newFlowsCreateCommand(app),
		newFlowsRemoveCommand(app),
		newFlowsStatusCommand(app),
		newFlowsTriggerCommand(app),
	)
	return cmd
}

type FlowsListCommand struct {
	app    *App
	Filter string
}

func newFlowsListCommand(app *App) *cobra.Command {
	listCmd := &FlowsListCommand{app: app}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List flows with their latest job",
		Args:  cobra.NoArgs,
		RunE:  listCmd.run,
	}
	cmd.Flags().StringVar(&listCmd.Filter, "filter", "", "only show flows whose name contains this text")
	return cmd
}

func (l *FlowsListCommand) run(cmd *cobra.Command, args []string) error {
	c, err := l.app.open(cmd)
	if err != nil {
		return err
	}
	if err := c.Refresh(cmd.Context()); err != nil {
		return err
	}
	if l.Filter != "" {
		c.Send(flow.SetFilter(l.Filter))
	}

	s := c.State().Flows
	visible := s.Visible()
	rows := make([]model.Record, 0, len(visible))
	for _, r := range visible {
		row := model.Record{"name": r.ID(), "status": r.String("status")}
		if job, ok := s.Latest(r.ID()); ok {
			row["job"] = job.ID()
			row["jobStatus"] = job.String("status")
		}
		rows = append(rows, row)
	}
	return render(l.app.out(cmd), l.app.format(), rows, recordTable(rows, "name", "status", "job", "jobStatus"))
}

func newFlowsGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Show one flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showFlow(cmd, args[0], func() (request.Descriptor, error) { return flow.Get(args[0]) })
		},
	}
}

func newFlowsRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a flow",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd)
			if err != nil {
				return err
			}
			if _, err := c.Do(cmd.Context(), func() (request.Descriptor, error) { return flow.Remove(args[0]) }); err != nil {
				return err
			}
			fmt.Fprintf(app.out(cmd), "flow %s removed\n", args[0])
			return nil
		},
	}
}

func newFlowsStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status NAME STATUS",
		Short: "Change the status of a flow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showFlow(cmd, args[0], func() (request.Descriptor, error) { return flow.ChangeStatus(args[0], args[1]) })
		},
	}
}

func newFlowsTriggerCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger NAME KEY=VALUE...",
		Short: "Update the trigger settings of a flow",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parsePairs(args[1:])
			if err != nil {
				return err
			}
			trigger := make(map[string]any)
			pairs.Each(func(k, v string) bool {
				trigger[k] = v
				return true
			})
			return app.showFlow(cmd, args[0], func() (request.Descriptor, error) { return flow.SetTrigger(args[0], trigger) })
		},
	}
}

type FlowsCreateCommand struct {
	app      *App
	Type     string
	Source   string
	URL      string
	Deploy   string
	Username string
	Password string
	NoWait   bool
}

func newFlowsCreateCommand(app *App) *cobra.Command {
	createCmd := &FlowsCreateCommand{app: app}
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a flow and, with --url, connect it to its git repository",
		Args:  cobra.ExactArgs(1),
		RunE:  createCmd.run,
	}
	cmd.Flags().StringVar(&createCmd.URL, "url", "", "git repository URL")
	cmd.Flags().StringVar(&createCmd.Source, "source", "GIT", "git source, e.g. GITHUB, GITLAB, GIT")
	cmd.Flags().StringVar(&createCmd.Type, "credential-type", "", "credential type: SSH or HTTP")
	cmd.Flags().StringVar(&createCmd.Deploy, "deploy-key", "", "name of the SSH credential")
	cmd.Flags().StringVar(&createCmd.Username, "username", "", "HTTP user")
	cmd.Flags().StringVar(&createCmd.Password, "password", "", "HTTP password")
	cmd.Flags().BoolVar(&createCmd.NoWait, "no-wait", false, "do not wait for the flow definition to load")
	return cmd
}

func (f *FlowsCreateCommand) run(cmd *cobra.Command, args []string) error {
	id := args[0]
	c, err := f.app.open(cmd)
	if err != nil {
		return err
	}
	if _, err := c.Do(cmd.Context(), func() (request.Descriptor, error) { return flow.Create(id) }); err != nil {
		return err
	}
	if f.URL == "" {
		return f.app.renderFlow(cmd, id)
	}

	settings := model.GitSettings{
		Type:     model.CredentialType(strings.ToUpper(f.Type)),
		Source:   f.Source,
		URL:      f.URL,
		Deploy:   f.Deploy,
		Username: f.Username,
		Password: f.Password,
	}
	if f.NoWait {
		if err := c.StartTest(cmd.Context(), id, settings); err != nil {
			return err
		}
		return f.app.renderFlow(cmd, id)
	}

	status, err := c.CreateTest(cmd.Context(), id, settings)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "flow %s: %s\n", id, status)
	return f.app.renderFlow(cmd, id)
}

// showFlow dispatches build and prints the stored flow.
func (a *App) showFlow(cmd *cobra.Command, id string, build func() (request.Descriptor, error)) error {
	c, err := a.open(cmd)
	if err != nil {
		return err
	}
	if _, err := c.Do(cmd.Context(), build); err != nil {
		return err
	}
	return a.renderFlow(cmd, id)
}

func (a *App) renderFlow(cmd *cobra.Command, id string) error {
	r, ok := a.console.State().Flows.Data.Get(id)
	if !ok {
		return fmt.Errorf("flow %s not found", id)
	}
	return render(a.out(cmd), a.format(), r, recordFields(r))
}
