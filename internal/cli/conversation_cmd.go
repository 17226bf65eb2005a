package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConversationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversation",
		Aliases: []string{"conv"},
		Short:   "Manage conversations",
	}

	cmd.AddCommand(newConversationListCmd())
	cmd.AddCommand(newConversationUseCmd())
	cmd.AddCommand(newConversationTitleCmd())
	cmd.AddCommand(newConversationShowCmd())
	cmd.AddCommand(newConversationDeleteCmd())
	return cmd
}

func newConversationListCmd() *cobra.Command {
	var workspaceID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations, oldest first",
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

			active := app.Conversations.ActiveID()
			for _, c := range conversations {
				marker := " "
				if c.ID == active {
					marker = "*"
				}
				branch := ""
				if c.IsBranch() {
					branch = fmt.Sprintf(" parent=%s@%d", c.ParentID, *c.BranchPoint)
				}
				fmt.Printf("%s %-36s %-24s messages=%d%s\n", marker, c.ID, c.Title, len(c.Messages), branch)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "limit to one workspace")
	return cmd
}

func newConversationUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <conversation-id>",
		Short: "Set the active conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			if app.Conversations.Get(args[0]) == nil {
				return fmt.Errorf("conversation not found: %s", args[0])
			}
			app.Conversations.SetActive(args[0])
			fmt.Printf("Active conversation: %s\n", args[0])
			return nil
		},
	}
}

func newConversationTitleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "title <conversation-id> <title>",
		Short: "Set a conversation title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			if app.Conversations.Get(args[0]) == nil {
				return fmt.Errorf("conversation not found: %s", args[0])
			}
			app.Conversations.SetTitle(args[0], args[1])
			return nil
		},
	}
}

func newConversationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <conversation-id>",
		Short: "Print a conversation transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			conv := app.Conversations.Get(args[0])
			if conv == nil {
				return fmt.Errorf("conversation not found: %s", args[0])
			}
			for i, m := range conv.Messages {
				fmt.Printf("[%d] %s: %s\n", i, m.Role, m.Text())
			}
			return nil
		},
	}
}

func newConversationDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id>",
		Short: "Delete a conversation (branches survive as roots)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			if app.Conversations.Get(args[0]) == nil {
				return fmt.Errorf("conversation not found: %s", args[0])
			}
			app.Conversations.Delete(args[0])
			fmt.Printf("Deleted conversation %s\n", args[0])
			return nil
		},
	}
}
