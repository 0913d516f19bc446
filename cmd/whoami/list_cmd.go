package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/demofrager/whoami/internal/cli"
	"github.com/demofrager/whoami/internal/model"
	"github.com/demofrager/whoami/internal/ranking"
)

func listCmd(configPath *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list posts|roadmap|homepage",
		Short: "Print a collection in display order",
		Long: `Print a collection in the order the site shows it.

  posts     newest-modified first
  roadmap   Now, Next, Later, Done; then nearest deadline; then newest
  homepage  the in-progress roadmap highlights (at most three)

Examples:
  whoami list posts
  whoami list roadmap -o json
  whoami list homepage -o yaml`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"posts", "roadmap", "homepage"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" && output != "yaml" {
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
			}
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			switch args[0] {
			case "posts":
				posts, err := a.ix.LoadPosts(a.cfg.Content.BlogDir)
				if err != nil {
					return err
				}
				if output == "text" {
					printPosts(out, posts)
					return nil
				}
				return encode(out, output, posts)
			case "roadmap", "homepage":
				entries, err := a.ix.LoadRoadmap(a.cfg.Content.RoadmapDir)
				if err != nil {
					return err
				}
				if args[0] == "homepage" {
					entries = ranking.SelectHomepage(entries)
				}
				if output == "text" {
					printRoadmap(out, entries)
					return nil
				}
				return encode(out, output, entries)
			default:
				return fmt.Errorf("unknown collection %q (want posts, roadmap or homepage)", args[0])
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func encode(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func printPosts(w io.Writer, posts []model.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "  No posts.")
		return
	}
	rows := make([][]cli.Cell, len(posts))
	for i, p := range posts {
		published := "-"
		if p.PublishedAt != nil {
			published = p.PublishedAt.Format(time.DateOnly)
		}
		rows[i] = []cli.Cell{
			{Text: p.Slug, Color: cli.Bold},
			{Text: cli.Truncate(p.Title, 40)},
			{Text: published, Color: cli.Dim},
			{Text: p.UpdatedAt.Format(time.DateTime), Color: cli.Dim},
		}
	}
	cli.Table(w, []string{"SLUG", "TITLE", "PUBLISHED", "UPDATED"}, rows)
}

func printRoadmap(w io.Writer, entries []model.RoadmapEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "  No roadmap entries.")
		return
	}
	rows := make([][]cli.Cell, len(entries))
	for i, e := range entries {
		deadline := e.Deadline
		if deadline == "" {
			deadline = "-"
		}
		rows[i] = []cli.Cell{
			{Text: e.Status, Color: cli.StatusColor(e.StatusClass)},
			{Text: e.Slug, Color: cli.Bold},
			{Text: cli.Truncate(e.Title, 40)},
			{Text: deadline},
			{Text: cli.ProgressBar(e.Progress, 10)},
		}
	}
	cli.Table(w, []string{"STATUS", "SLUG", "TITLE", "DEADLINE", "PROGRESS"}, rows)
}
