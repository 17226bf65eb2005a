package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom/internal/tree"
)

func newTreeCmd() *cobra.Command {
	var workspaceID string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the conversation branch forest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			conversations := app.Conversations.All()
			if workspaceID != "" {
				conversations = app.Conversations.ListByWorkspace(workspaceID)
			}
			if len(conversations) == 0 {
				fmt.Println("no conversations")
				return nil
			}

			active := app.Conversations.ActiveID()
			for _, node := range tree.Flatten(tree.Build(conversations)) {
				c := node.Conversation
				marker := " "
				if c.ID == active {
					marker = "*"
				}
				title := c.Title
				if title == "" {
					title = c.ID
				}
				subtree := tree.CountMessages(c.ID, conversations)
				fmt.Printf("%s %s%s  messages=%d subtree=%d\n",
					marker, strings.Repeat("  ", node.Depth), title, len(c.Messages), subtree)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "limit to one workspace")
	return cmd
}
