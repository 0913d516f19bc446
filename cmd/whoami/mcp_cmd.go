package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/demofrager/whoami/internal/mcp"
)

func mcpCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Expose posts and the roadmap to MCP clients as read-only tools:
list_posts, get_post, list_roadmap, get_roadmap_entry, homepage_roadmap.

Text that looks like a prompt injection is replaced before it is returned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			srv, err := mcpserver.New(mcpserver.Options{
				Loader:     a.ix,
				BlogDir:    a.cfg.Content.BlogDir,
				RoadmapDir: a.cfg.Content.RoadmapDir,
				Version:    Version,
				Logger:     a.log,
			})
			if err != nil {
				return err
			}
			return srv.Serve(cmd.Context())
		},
	}
}
