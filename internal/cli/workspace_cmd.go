package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom/internal/store"
)

func newWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces",
	}

	cmd.AddCommand(newWorkspaceCreateCmd())
	cmd.AddCommand(newWorkspaceListCmd())
	cmd.AddCommand(newWorkspaceUseCmd())
	cmd.AddCommand(newWorkspaceDeleteCmd())
	return cmd
}

func newWorkspaceCreateCmd() *cobra.Command {
	var (
		isolated    bool
		branch      string
		path        string
		description string
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workspace and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			w := app.Workspaces.Create(store.CreateWorkspaceParams{
				Name:        args[0],
				Isolated:    isolated,
				Branch:      branch,
				Path:        path,
				Description: description,
			})
			app.Workspaces.SetActive(w.ID)

			fmt.Printf("Created workspace %s (%s)\n", w.Name, w.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&isolated, "isolated", false, "member agents see an isolated filesystem view")
	cmd.Flags().StringVar(&branch, "branch", "", "associated branch name")
	cmd.Flags().StringVar(&path, "path", "", "associated filesystem path")
	cmd.Flags().StringVar(&description, "description", "", "workspace description")
	return cmd
}

func newWorkspaceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			active := app.Workspaces.ActiveID()
			for _, w := range app.Workspaces.List() {
				marker := " "
				if w.ID == active {
					marker = "*"
				}
				fmt.Printf("%s %-36s %-20s agents=%d\n", marker, w.ID, w.Name, len(w.AgentIDs))
			}
			return nil
		},
	}
}

func newWorkspaceUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <workspace-id>",
		Short: "Set the active workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			if app.Workspaces.Get(args[0]) == nil {
				return fmt.Errorf("workspace not found: %s", args[0])
			}
			app.Workspaces.SetActive(args[0])
			fmt.Printf("Active workspace: %s\n", args[0])
			return nil
		},
	}
}

func newWorkspaceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <workspace-id>",
		Short: "Delete a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close(ctx)

			if app.Workspaces.Get(args[0]) == nil {
				return fmt.Errorf("workspace not found: %s", args[0])
			}
			app.Workspaces.Delete(args[0])
			fmt.Printf("Deleted workspace %s\n", args[0])
			return nil
		},
	}
}
