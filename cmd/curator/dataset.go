package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravi-parthasarathy/curator/pkg/corpus"
	"github.com/ravi-parthasarathy/curator/pkg/curation"
	"github.com/ravi-parthasarathy/curator/pkg/dataset"
)

func datasetCmd() *cobra.Command {
	var (
		outDir  string
		folders []string
		name    string
	)

	cmd := &cobra.Command{
		Use:   "dataset <workflows-dir>",
		Short: "Prepare a training-ready JSONL dataset for upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDataset(args[0], outDir, name, folders)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "hf_dataset", "output directory")
	cmd.Flags().StringVar(&name, "name", "n8n-workflows-atlas", "dataset name recorded in metadata")
	cmd.Flags().StringSliceVar(&folders, "folders", []string{"synthetic_v2", "synthetic", "external"},
		"corpus subfolders to include")
	return cmd
}

func runDataset(workflowsDir, outDir, name string, folders []string) error {
	var files []string
	for _, folder := range folders {
		sub, err := corpus.WalkJSON(filepath.Join(workflowsDir, folder))
		if err != nil {
			// A missing subfolder is fine; the corpus layout varies by stage.
			slog.Warn("skipping folder", "folder", folder, "err", err)
			continue
		}
		fmt.Printf("  %s: %d files\n", folder, len(sub))
		files = append(files, sub...)
	}
	fmt.Printf("\nTotal: %d files\n", len(files))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	trainFile, err := os.Create(filepath.Join(outDir, "train.jsonl"))
	if err != nil {
		return err
	}
	defer trainFile.Close()
	writer := dataset.NewWriter(trainFile)

	valid, invalid := 0, 0
	categories := make(map[string]int)

	for _, path := range files {
		w, err := corpus.Load(path)
		if err != nil {
			invalid++
			continue
		}
		if ok, _ := curation.Validate(w, curation.ArchetypeProfile); !ok {
			invalid++
			continue
		}
		ex, err := dataset.NewExample(w, filepath.Base(filepath.Dir(path)))
		if err != nil {
			invalid++
			continue
		}
		if err := writer.Write(ex); err != nil {
			return err
		}
		valid++
		categories[ex.Category]++
	}

	meta := dataset.Metadata{
		Name:           name,
		Version:        "2.0",
		CreatedAt:      time.Now(),
		TotalExamples:  valid,
		InvalidSkipped: invalid,
		Categories:     categories,
		Description:    "High-quality n8n workflow dataset for training workflow generators",
		License:        "Apache-2.0",
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "metadata.json"), metaBytes, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	slog.Info("dataset complete", "examples", valid, "skipped", invalid, "categories", len(categories))
	return nil
}
