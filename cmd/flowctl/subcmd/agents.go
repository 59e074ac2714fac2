package subcmd

import (
	"flowci-console/internal/application/agent"
	"flowci-console/internal/application/job"
	"flowci-console/internal/application/request"
	"flowci-console/internal/domain/model"

	"github.com/spf13/cobra"
)

func NewAgentsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "Inspect build agents",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List build agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd)
			if err != nil {
				return err
			}
			if _, err := c.Do(cmd.Context(), agent.Query); err != nil {
				return err
			}
			agents := c.State().Agents.Data.Values()
			return render(app.out(cmd), app.format(), agents, recordTable(agents, "id", "agentStatus", "flowName", "number", "branch"))
		},
	})
	return cmd
}

func NewJobsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"job"},
		Short:   "Inspect jobs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "latest FLOW...",
		Short: "Show the latest job of each flow",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd)
			if err != nil {
				return err
			}
			if _, err := c.Do(cmd.Context(), func() (request.Descriptor, error) { return job.QueryLatest(args...) }); err != nil {
				return err
			}
			jobs := make([]model.Record, 0, len(args))
			for _, name := range args {
				if j, ok := c.State().Flows.Latest(name); ok {
					jobs = append(jobs, j)
				}
			}
			return render(app.out(cmd), app.format(), jobs, recordTable(jobs, "id", "name", "status"))
		},
	})
	return cmd
}
