package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/demofrager/whoami/internal/cli"
	"github.com/demofrager/whoami/internal/config"
	"github.com/demofrager/whoami/internal/indexer"
	"github.com/demofrager/whoami/internal/watcher"
)

// errWarnings makes `whoami check` exit non-zero without printing usage.
var errWarnings = errors.New("content has warnings")

func checkCmd(configPath *string) *cobra.Command {
	var (
		watch  bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report metadata values that were ignored",
		Long: `Parse every post and roadmap entry and list field values that could not be
used: unparseable dates and deadlines, progress outside 0..100 or not a number.

Exits non-zero when there are warnings.

Examples:
  whoami check
  whoami check -o json
  whoami check --watch     # check everything, then each document as it changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("unknown output format %q (want text or json)", output)
			}
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			if watch {
				return watchContent(cmd.Context(), a, func(warnings []indexer.Warning, err error) {
					if err != nil {
						fmt.Fprintf(out, "check failed: %v\n", err)
						return
					}
					printWarnings(out, output, warnings)
				})
			}

			warnings, err := runCheck(a)
			if err != nil {
				return err
			}
			printWarnings(out, output, warnings)
			if len(warnings) > 0 {
				return errWarnings
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and re-check on every change")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	return cmd
}

// runCheck checks both collections, posts first.
func runCheck(a *app) ([]indexer.Warning, error) {
	posts, err := a.ix.Check(indexer.KindPost, a.cfg.Content.BlogDir)
	if err != nil {
		return nil, fmt.Errorf("check posts: %w", err)
	}
	entries, err := a.ix.Check(indexer.KindRoadmap, a.cfg.Content.RoadmapDir)
	if err != nil {
		return nil, fmt.Errorf("check roadmap: %w", err)
	}
	return append(posts, entries...), nil
}

// watchContent checks both collections once, then re-checks the documents
// in every batch of changes, until ctx is done.
func watchContent(ctx context.Context, a *app, report func([]indexer.Warning, error)) error {
	report(runCheck(a))
	return watcher.Watch(ctx, watcher.Options{
		Dirs:      []string{a.cfg.Content.BlogDir, a.cfg.Content.RoadmapDir},
		Extension: a.cfg.Content.Extension,
		Logger:    a.log,
		OnChange: func(paths []string) {
			report(checkChanged(a, paths))
		},
	})
}

// checkChanged checks the documents at paths. Paths outside the content
// directories and files that no longer exist are skipped.
func checkChanged(a *app, paths []string) ([]indexer.Warning, error) {
	var warnings []indexer.Warning
	for _, p := range paths {
		kind, ok := kindOf(a.cfg.Content, p)
		if !ok {
			continue
		}
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		ws, err := a.ix.CheckFile(kind, p)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", p, err)
		}
		warnings = append(warnings, ws...)
	}
	return warnings, nil
}

// kindOf maps a document path to its collection by parent directory.
func kindOf(c config.ContentConfig, path string) (indexer.Kind, bool) {
	switch filepath.Dir(path) {
	case filepath.Clean(c.BlogDir):
		return indexer.KindPost, true
	case filepath.Clean(c.RoadmapDir):
		return indexer.KindRoadmap, true
	}
	return "", false
}

func printWarnings(w io.Writer, format string, warnings []indexer.Warning) {
	if format == "json" {
		if warnings == nil {
			warnings = []indexer.Warning{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(warnings)
		return
	}
	if len(warnings) == 0 {
		fmt.Fprintln(w, "  No warnings.")
		return
	}
	for _, group := range []struct {
		kind indexer.Kind
		name string
	}{
		{indexer.KindPost, "Posts"},
		{indexer.KindRoadmap, "Roadmap"},
	} {
		var rows [][]cli.Cell
		for _, wn := range warnings {
			if wn.Kind != group.kind {
				continue
			}
			rows = append(rows, []cli.Cell{
				{Text: wn.Slug, Color: cli.Bold},
				{Text: wn.Field},
				{Text: cli.Truncate(wn.Value, 30)},
				{Text: wn.Reason, Color: cli.Yellow},
			})
		}
		if len(rows) == 0 {
			continue
		}
		cli.Section(w, group.name)
		cli.Table(w, []string{"SLUG", "FIELD", "VALUE", "REASON"}, rows)
	}
	fmt.Fprintf(w, "\n  %d warning(s)\n", len(warnings))
}
