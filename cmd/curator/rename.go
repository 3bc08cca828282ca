package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ravi-parthasarathy/curator/pkg/corpus"
	"github.com/ravi-parthasarathy/curator/pkg/dataset"
	"github.com/ravi-parthasarathy/curator/pkg/namegen"
	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

func renameCmd() *cobra.Command {
	var (
		model     string
		batchSize int
		logPath   string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "rename <workflows-dir>",
		Short: "Rename workflow files with LLM-generated descriptive names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renamer := &namegen.Renamer{
				Client:    namegen.NewAnthropicCompleter(model),
				BatchSize: batchSize,
			}
			ctx := signalContext(cmd.Context())
			return runRename(ctx, renamer, args[0], logPath, dryRun)
		},
	}

	cmd.Flags().StringVar(&model, "model", "claude-sonnet-4-5", "model used for naming")
	cmd.Flags().IntVar(&batchSize, "batch-size", 15, "workflows per naming request")
	cmd.Flags().StringVar(&logPath, "log", "rename_log.jsonl", "JSONL rename log (old path → new path)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print planned renames without touching files")
	return cmd
}

// renameEntry is one line in the rename log.
type renameEntry struct {
	Old string `json:"old"`
	New string `json:"new"`
}

func runRename(ctx context.Context, renamer *namegen.Renamer, dir, logPath string, dryRun bool) error {
	files, err := corpus.WalkJSON(dir)
	if err != nil {
		return err
	}
	fmt.Printf("Renaming %d workflow files...\n", len(files))

	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("create rename log: %w", err)
	}
	defer logFile.Close()
	logWriter := dataset.NewWriter(logFile)

	// One NameSet per pass: collisions are resolved against names claimed in
	// this run only.
	set := namegen.NewNameSet()
	renamed, skipped, failures := 0, 0, 0

	for _, span := range renamer.Batches(len(files)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := files[span[0]:span[1]]

		var workflows []*workflow.Workflow
		var paths []string
		var fallbacks []string
		for _, path := range batch {
			w, err := corpus.Load(path)
			if err != nil {
				failures++
				continue
			}
			workflows = append(workflows, w)
			paths = append(paths, path)
			fallbacks = append(fallbacks, corpus.Stem(path))
		}
		if len(workflows) == 0 {
			continue
		}

		names, err := renamer.RenameBatch(ctx, workflows, fallbacks, set)
		if err != nil {
			// Fallback names were returned; keep going.
			slog.Warn("naming request failed, using fallbacks", "err", err)
		}

		for i, newName := range names {
			oldPath := paths[i]
			newPath := filepath.Join(filepath.Dir(oldPath), newName+".json")
			if newPath == oldPath {
				skipped++
				continue
			}
			if dryRun {
				fmt.Printf("  %s → %s\n", oldPath, newPath)
				renamed++
				continue
			}
			if err := os.Rename(oldPath, newPath); err != nil {
				failures++
				continue
			}
			if err := logWriter.Write(renameEntry{Old: oldPath, New: newPath}); err != nil {
				return err
			}
			renamed++
		}
	}

	slog.Info("rename complete", "renamed", renamed, "skipped", skipped, "failures", failures)
	return nil
}
