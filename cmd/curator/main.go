package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ravi-parthasarathy/curator/pkg/corpus"
	"github.com/ravi-parthasarathy/curator/pkg/curation"
	"github.com/ravi-parthasarathy/curator/pkg/dataset"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "curator",
		Short: "Curator: workflow corpus curation and synthesis",
		Long: `Curator distills a corpus of automation workflows into representative
archetypes and expands them back out into synthetic variants.

Workflows are validated for graph connectivity, scored with quality
heuristics, ranked per category, and archetypes are rewritten through a
node-type substitution table that preserves topology exactly.`,
	}
	root.AddCommand(extractCmd())
	root.AddCommand(filterCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(datasetCmd())
	root.AddCommand(graphCmd())
	root.AddCommand(renameCmd())
	return root
}

// ─── extract ──────────────────────────────────────────────────────────────────

func extractCmd() *cobra.Command {
	var (
		outDir       string
		clustersFile string
		perCategory  int
	)

	cmd := &cobra.Command{
		Use:   "extract <workflows-dir>",
		Short: "Select top-scoring archetypes per category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExtract(args[0], outDir, clustersFile, perCategory)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "archetypes", "output directory for selected archetypes")
	cmd.Flags().StringVar(&clustersFile, "clusters", "", "cluster-assignment JSON for corpora without embedded labels")
	cmd.Flags().IntVar(&perCategory, "per-category", 4, "archetypes to keep per category")
	return cmd
}

func runExtract(workflowsDir, outDir, clustersFile string, perCategory int) error {
	files, err := corpus.WalkJSON(workflowsDir)
	if err != nil {
		return err
	}
	fmt.Printf("Scanning %d workflow files...\n", len(files))

	var clusters *corpus.Clusters
	if clustersFile != "" {
		clusters, err = corpus.LoadClusters(clustersFile)
		if err != nil {
			return err
		}
	}

	var candidates []curation.Candidate
	parseErrors, noLabel := 0, 0
	for _, path := range files {
		w, err := corpus.Load(path)
		if err != nil {
			parseErrors++
			continue
		}
		id := corpus.Stem(path)
		category := w.Category()
		if category == "" && clusters != nil {
			category, _ = clusters.Label(id)
		}
		if category == "" {
			noLabel++
			continue
		}
		candidates = append(candidates, curation.Candidate{
			Category: category,
			SourceID: id,
			Workflow: w,
		})
	}

	sel := &curation.Selector{
		K:       perCategory,
		Profile: curation.ArchetypeProfile,
		Weights: curation.ArchetypeWeights,
	}
	selected, stats := sel.Select(candidates)

	sink := &corpus.DirSink{Root: outDir}
	total := 0
	for _, category := range sortedKeys(selected) {
		fmt.Printf("\n%s (%d selected)\n", category, len(selected[category]))
		for rank, s := range selected[category] {
			path, err := sink.WriteArchetype(category, rank+1, s.SourceID, s.Workflow)
			if err != nil {
				return err
			}
			total++
			fmt.Printf("  → %s (score: %d)\n", path, s.Score)
		}
	}

	slog.Info("extraction complete",
		"archetypes", total,
		"valid", stats.Valid,
		"rejected", stats.TotalRejected(),
		"parse_errors", parseErrors,
		"no_label", noLabel)
	return nil
}

// ─── filter ───────────────────────────────────────────────────────────────────

func filterCmd() *cobra.Command {
	var (
		outDir   string
		minScore int
	)

	cmd := &cobra.Command{
		Use:   "filter <workflows-dir>",
		Short: "Quality-filter the corpus and emit a training dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runFilter(args[0], outDir, minScore)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "rag_dataset", "output directory")
	cmd.Flags().IntVar(&minScore, "min-score", 60, "minimum quality score to keep")
	return cmd
}

// qualityRecord is the JSONL form of a kept workflow with its score.
type qualityRecord struct {
	Score    int    `json:"score"`
	Path     string `json:"path"`
	Workflow any    `json:"workflow"`
}

func runFilter(workflowsDir, outDir string, minScore int) error {
	files, err := corpus.WalkJSON(workflowsDir)
	if err != nil {
		return err
	}
	fmt.Printf("Filtering %d workflow files...\n", len(files))

	type kept struct {
		score int
		path  string
		cand  curation.Candidate
	}
	var keptList []kept
	rejections := make(map[curation.Reason]int)
	parseErrors, lowScore := 0, 0

	for _, path := range files {
		w, err := corpus.Load(path)
		if err != nil {
			parseErrors++
			continue
		}
		ok, reason := curation.Validate(w, curation.QualityProfile)
		if !ok {
			rejections[reason]++
			continue
		}
		score := curation.Score(w, curation.QualityWeights)
		if score < minScore {
			lowScore++
			continue
		}
		keptList = append(keptList, kept{
			score: score,
			path:  path,
			cand:  curation.Candidate{SourceID: corpus.Stem(path), Workflow: w},
		})
	}

	// Best-first output, input order preserved on ties.
	sort.SliceStable(keptList, func(a, b int) bool { return keptList[a].score > keptList[b].score })

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	trainFile, err := os.Create(outDir + "/training_data.jsonl")
	if err != nil {
		return err
	}
	defer trainFile.Close()
	trainWriter := dataset.NewWriter(trainFile)

	workflowsFile, err := os.Create(outDir + "/high_quality_workflows.jsonl")
	if err != nil {
		return err
	}
	defer workflowsFile.Close()
	workflowsWriter := dataset.NewWriter(workflowsFile)

	for _, k := range keptList {
		ex, err := dataset.NewExample(k.cand.Workflow, k.cand.SourceID)
		if err != nil {
			parseErrors++
			continue
		}
		if err := trainWriter.Write(ex); err != nil {
			return err
		}
		if err := workflowsWriter.Write(qualityRecord{Score: k.score, Path: k.path, Workflow: k.cand.Workflow}); err != nil {
			return err
		}
	}

	fmt.Printf("\nHigh quality workflows: %d\n", len(keptList))
	logArgs := []any{"kept", len(keptList), "low_score", lowScore, "parse_errors", parseErrors}
	for reason, n := range rejections {
		logArgs = append(logArgs, string(reason), n)
	}
	slog.Info("filtering complete", logArgs...)
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			fmt.Fprintln(os.Stderr, "\n[curator] interrupted, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}
