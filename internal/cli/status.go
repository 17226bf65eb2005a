package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomhq/loom/internal/config"
	"github.com/loomhq/loom/internal/version"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show loom status and configuration summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("loom %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			fmt.Printf("Store:    driver=%s path=%s\n", cfg.Store.Driver, paths.DatabasePath(cfg.Store))
			fmt.Printf("Defaults: provider=%s model=%s maxTokens=%d\n",
				cfg.Defaults.Provider, cfg.Defaults.Model, cfg.Defaults.MaxTokens)
			if len(cfg.Providers) > 0 {
				var names []string
				for name := range cfg.Providers {
					names = append(names, name)
				}
				fmt.Printf("Providers: %s\n", strings.Join(names, ", "))
			}

			ctx := cmd.Context()
			app, err := openApp(ctx)
			if err != nil {
				fmt.Printf("\nState:   error loading: %v\n", err)
				return nil
			}
			defer app.Close(ctx)

			fmt.Printf("\nWorkspaces:    %d\n", len(app.Workspaces.List()))
			fmt.Printf("Conversations: %d\n", len(app.Conversations.All()))
			fmt.Printf("Pending:       %d action(s)\n", len(app.Agents.AllPendingActions()))

			if issues := config.Validate(&cfg); len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}
			return nil
		},
	}
}
