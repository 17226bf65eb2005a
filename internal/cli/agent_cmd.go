package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom/internal/store"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage agents",
	}

	cmd.AddCommand(newAgentCreateCmd())
	cmd.AddCommand(newAgentListCmd())
	cmd.AddCommand(newAgentInfoCmd())
	cmd.AddCommand(newAgentDeleteCmd())
	return cmd
}

func newAgentCreateCmd() *cobra.Command {
	var (
		name         string
		workspaceID  string
		provider     string
		model        string
		systemPrompt string
		maxTokens    int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an agent in the active workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			wid, err := app.activeWorkspaceID(workspaceID)
			if err != nil {
				return err
			}

			p := provider
			if p == "" {
				p = app.Config.Defaults.Provider
			}
			m := model
			if m == "" {
				m = app.Config.Defaults.Model
			}
			mt := maxTokens
			if mt == 0 {
				mt = app.Config.Defaults.MaxTokens
			}

			agent, err := app.Agents.Create(store.CreateAgentParams{
				Name:         name,
				WorkspaceID:  wid,
				Provider:     p,
				Model:        m,
				SystemPrompt: systemPrompt,
				Temperature:  app.Config.Defaults.Temperature,
				MaxTokens:    mt,
			})
			if err != nil {
				return err
			}
			app.Workspaces.AddAgent(wid, agent.ID)

			fmt.Printf("Created agent %s (%s) provider=%s model=%s\n", agent.Name, agent.ID, agent.Provider, agent.Model)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "agent name (default agent-<id>)")
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "workspace id (default: active workspace)")
	cmd.Flags().StringVar(&provider, "provider", "", "provider name")
	cmd.Flags().StringVar(&model, "model", "", "model id (default: provider's default)")
	cmd.Flags().StringVar(&systemPrompt, "system", "", "system prompt")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "max output tokens")
	return cmd
}

func newAgentListCmd() *cobra.Command {
	var workspaceID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents in the active workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			wid, err := app.activeWorkspaceID(workspaceID)
			if err != nil {
				return err
			}

			// Workspace order is display order.
			w := app.Workspaces.Get(wid)
			for _, id := range w.AgentIDs {
				a := app.Agents.Get(id)
				if a == nil {
					continue
				}
				fmt.Printf("  %-36s %-16s %-10s %s/%s\n", a.ID, a.Name, a.Status, a.Provider, a.Model)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "workspace id (default: active workspace)")
	return cmd
}

func newAgentInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <agent-id>",
		Short: "Show details about an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			a := app.Agents.Get(args[0])
			if a == nil {
				return fmt.Errorf("agent not found: %s", args[0])
			}

			fmt.Printf("Agent: %s (%s)\n", a.ID, a.Name)
			fmt.Printf("  Status:    %s\n", a.Status)
			fmt.Printf("  Provider:  %s\n", a.Provider)
			fmt.Printf("  Model:     %s\n", a.Model)
			fmt.Printf("  MaxTokens: %d\n", a.MaxTokens)
			if a.Temperature != nil {
				fmt.Printf("  Temp:      %.2f\n", *a.Temperature)
			}
			if a.SystemPrompt != "" {
				fmt.Printf("  System:    %s\n", a.SystemPrompt)
			}
			if pending := app.Agents.PendingActions(a.ID); len(pending) > 0 {
				fmt.Printf("  Pending:   %d action(s)\n", len(pending))
			}
			return nil
		},
	}
}

func newAgentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <agent-id>",
		Short: "Delete an agent and discard its pending actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			a := app.Agents.Get(args[0])
			if a == nil {
				return fmt.Errorf("agent not found: %s", args[0])
			}
			app.Agents.Delete(a.ID)
			app.Workspaces.RemoveAgent(a.WorkspaceID, a.ID)
			fmt.Printf("Deleted agent %s\n", a.ID)
			return nil
		},
	}
}
