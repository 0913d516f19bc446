// Package main is the entrypoint for the whoami CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/demofrager/whoami/internal/config"
	"github.com/demofrager/whoami/internal/indexer"
	"github.com/demofrager/whoami/internal/logging"
	"github.com/demofrager/whoami/internal/markdown"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:   "whoami",
		Short: "Personal site: venting posts and a roadmap from markdown files",
		Long: `whoami serves a personal site built from two directories of markdown files:
blog posts ("venting") and roadmap entries. Documents are re-read on every request.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to whoami.toml (default ./whoami.toml if present)")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(listCmd(&configPath))
	root.AddCommand(checkCmd(&configPath))
	root.AddCommand(mcpCmd(&configPath))
	root.AddCommand(configCmd(&configPath))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the whoami version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "whoami %s\n", Version)
			return nil
		},
	}
}

// app is the wiring shared by every command that reads content.
type app struct {
	cfg *config.Config
	log *zap.Logger
	ix  *indexer.Indexer
}

func loadApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	ix := indexer.New(indexer.Options{
		Renderer:         markdown.New(cfg.Render.AllowHTML),
		Logger:           log,
		Extension:        cfg.Content.Extension,
		FrontMatterBlock: cfg.Content.FrontMatterBlock,
	})
	return &app{cfg: cfg, log: log, ix: ix}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}
