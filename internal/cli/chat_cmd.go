package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom/internal/runner"
)

func newChatCmd() *cobra.Command {
	var (
		agentID        string
		conversationID string
		branchFrom     int
	)
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message and stream the reply",
		Long:  "Sends one chat turn to an agent. The reply streams to stdout as deltas arrive. With --branch-from, the active conversation is forked at that message index first and the turn runs on the fork.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			agent := app.Agents.Get(agentID)
			if agentID == "" {
				// Default to the first agent of the active workspace.
				wid, werr := app.activeWorkspaceID("")
				if werr != nil {
					return werr
				}
				w := app.Workspaces.Get(wid)
				if !w.HasAgents() {
					return fmt.Errorf("no agents in workspace; create one with 'loom agent create'")
				}
				agent = app.Agents.Get(w.AgentIDs[0])
			}
			if agent == nil {
				return fmt.Errorf("agent not found: %s", agentID)
			}

			convID := conversationID
			if convID == "" {
				convID = app.Conversations.ActiveID()
			}

			if branchFrom >= 0 {
				if convID == "" {
					return fmt.Errorf("--branch-from requires an existing conversation")
				}
				branch := app.Conversations.Branch(convID, branchFrom, nil)
				if branch == nil {
					return fmt.Errorf("conversation not found: %s", convID)
				}
				fmt.Fprintf(os.Stderr, "branched %s at message %d -> %s\n", convID, branchFrom, branch.ID)
				convID = branch.ID
			}

			if convID == "" || app.Conversations.Get(convID) == nil {
				conv := app.Conversations.Create(agent.WorkspaceID, agent.ID, "", nil)
				convID = conv.ID
			}

			_, err = app.Runner.SendMessage(ctx, runner.SendParams{
				AgentID:        agent.ID,
				ConversationID: convID,
				Text:           args[0],
				OnDelta:        func(d string) { fmt.Print(d) },
			})
			fmt.Println()
			return err
		},
	}
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id (default: first agent of the active workspace)")
	cmd.Flags().StringVar(&conversationID, "conversation", "", "conversation id (default: active conversation)")
	cmd.Flags().IntVar(&branchFrom, "branch-from", -1, "fork the conversation at this message index before sending")
	return cmd
}
