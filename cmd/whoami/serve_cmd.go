package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/demofrager/whoami/internal/indexer"
	"github.com/demofrager/whoami/internal/web"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		Long: `Start the HTTP server.

Pages: / /venting /venting/{slug} /roadmap /roadmap/{slug}
API:   /api/posts /api/roadmap /api/roadmap/homepage
Ops:   /metrics

Examples:
  whoami serve                   # listen on server.addr (default :8000)
  whoami serve --addr :9000      # custom address
  whoami serve --watch           # also log content changes and their warnings`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			srv, err := web.New(web.Options{
				Loader:     a.ix,
				BlogDir:    a.cfg.Content.BlogDir,
				RoadmapDir: a.cfg.Content.RoadmapDir,
				GitHubURL:  a.cfg.Server.GitHubURL,
				LogIPs:     a.cfg.Server.LogIPs,
				Logger:     a.log,
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if watch {
				go func() {
					if err := watchContent(ctx, a, func(warnings []indexer.Warning, err error) {
						if err != nil {
							a.log.Error("content check failed", zap.Error(err))
							return
						}
						for _, w := range warnings {
							a.log.Warn("field ignored",
								zap.String("kind", string(w.Kind)),
								zap.String("slug", w.Slug),
								zap.String("field", w.Field),
								zap.String("value", w.Value),
								zap.String("reason", w.Reason),
							)
						}
						a.log.Info("content changed", zap.Int("warnings", len(warnings)))
					}); err != nil {
						a.log.Error("watcher stopped", zap.Error(err))
					}
				}()
			}
			return web.Serve(ctx, a.cfg.Server.Addr, srv, a.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Watch content directories and log changes")
	return cmd
}
