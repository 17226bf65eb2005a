package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom/internal/domain"
)

func newActionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List and resolve pending agent actions",
	}

	cmd.AddCommand(newActionsListCmd())
	cmd.AddCommand(newActionsApproveCmd())
	cmd.AddCommand(newActionsDenyCmd())
	return cmd
}

func newActionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending actions across all agents, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			pending := app.Agents.AllPendingActions()
			if len(pending) == 0 {
				fmt.Println("no pending actions")
				return nil
			}
			for _, a := range pending {
				detail := a.Question
				if a.Type == domain.ActionToolApproval {
					detail = a.ToolName
				}
				fmt.Printf("  %-36s agent=%s %-20s %s\n", a.ID, a.AgentID, a.Type, detail)
			}
			return nil
		},
	}
}

func newActionsApproveCmd() *cobra.Command {
	var response string
	cmd := &cobra.Command{
		Use:   "approve <agent-id> <action-id>",
		Short: "Approve a pending action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveAction(cmd, args[0], args[1], true, response)
		},
	}
	cmd.Flags().StringVar(&response, "response", "", "answer text for clarifying questions")
	return cmd
}

func newActionsDenyCmd() *cobra.Command {
	var response string
	cmd := &cobra.Command{
		Use:   "deny <agent-id> <action-id>",
		Short: "Deny a pending action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveAction(cmd, args[0], args[1], false, response)
		},
	}
	cmd.Flags().StringVar(&response, "response", "", "answer text for clarifying questions")
	return cmd
}

func resolveAction(cmd *cobra.Command, agentID, actionID string, approve bool, response string) error {
	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	resolved := app.Agents.ResolvePendingAction(agentID, actionID, approve, response)
	if resolved == nil {
		return fmt.Errorf("no pending action %s for agent %s", actionID, agentID)
	}
	fmt.Printf("Action %s %s; agent status is now %s\n",
		resolved.ID, resolved.Status, app.Agents.Get(agentID).Status)
	return nil
}
