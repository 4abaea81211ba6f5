package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"untangle/internal/cache"
	"untangle/internal/config"
	"untangle/internal/history"
	"untangle/internal/importscan"
	"untangle/internal/insights"
	"untangle/internal/metrics"
	"untangle/internal/output"
	"untangle/internal/pipeline"
	"untangle/internal/uerrors"
	"untangle/internal/ulog"
	"untangle/internal/walk"
)

var (
	analyzeRoot         string
	analyzeLang         string
	analyzeFormat       string
	analyzeTop          int
	analyzeNoInsights   bool
	analyzeIncludeTests bool
	analyzeInclude      []string
	analyzeExclude      []string
	analyzeThreshold    int
	analyzeNoCache      bool
	analyzeNoHistory    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [root]",
	Short: "Analyze a project's module dependency graph",
	Long: `analyze discovers source files under root, extracts import
relationships, builds a dependency graph, computes fan-in/out, strongly
connected components, depth and entropy metrics, and prints
architectural insights.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLang, "lang", "", "Language to analyze (go, python, ruby, rust); auto-detected if omitted")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Output format (json, text, dot, sarif)")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "Truncate hotspots to the top N (0 = no truncation for json, 20 for text)")
	analyzeCmd.Flags().BoolVar(&analyzeNoInsights, "no-insights", false, "Suppress insight generation")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeTests, "include-tests", false, "Include test files in analysis")
	analyzeCmd.Flags().StringSliceVar(&analyzeInclude, "include", nil, "Glob patterns to include (if set, only matching files are kept)")
	analyzeCmd.Flags().StringSliceVar(&analyzeExclude, "exclude", nil, "Glob patterns to exclude")
	analyzeCmd.Flags().IntVar(&analyzeThreshold, "threshold-fanout", 0, "Override the high-fanout/god-module fanout threshold")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "Disable the on-disk parse cache")
	analyzeCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false, "Disable recording this run to the history database")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	cli := config.CliOverrides{Include: analyzeInclude, Exclude: analyzeExclude, FailOn: nil}
	if analyzeThreshold > 0 {
		cli.ThresholdFanout = &analyzeThreshold
	}
	resolveResult, err := config.ResolveConfig(absRoot, cli)
	if err != nil {
		return err
	}
	cfg := resolveResult.Config

	logger := ulog.New(ulog.Config{
		Format: ulog.Format(cfg.Logging.Format),
		Level:  ulog.Level(cfg.Logging.Level),
	})

	lang, ok := resolveLanguage(analyzeLang, absRoot)
	if !ok {
		return uerrors.New(uerrors.NoFiles, "could not detect a supported language under "+absRoot).WithPath(absRoot)
	}

	files, err := walk.DiscoverFiles(absRoot, lang, cfg.Include, cfg.Exclude, analyzeIncludeTests)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return uerrors.New(uerrors.NoFiles, "no eligible source files found").WithPath(absRoot)
	}

	relFiles := make([]string, len(files))
	for i, f := range files {
		rel, relErr := filepath.Rel(absRoot, f)
		if relErr != nil {
			rel = f
		}
		relFiles[i] = filepath.ToSlash(rel)
	}

	goModulePath := ""
	rustCrateName := ""
	switch lang {
	case walk.Go:
		goModulePath = importscan.ReadGoMod(absRoot)
	case walk.Rust:
		rustCrateName = importscan.ReadCargoToml(absRoot)
	}

	read := func(relPath string) ([]byte, error) {
		return os.ReadFile(filepath.Join(absRoot, filepath.FromSlash(relPath)))
	}

	var parseCache *cache.Store
	if !analyzeNoCache {
		if c, cacheErr := cache.Open(filepath.Join(absRoot, ".untangle", "cache")); cacheErr == nil {
			parseCache = c
			defer parseCache.Close()
		}
	}

	result, err := pipeline.Run(relFiles, lang, &cfg, goModulePath, rustCrateName, read, parseCache, logger)
	if err != nil {
		return err
	}

	g := result.Graph
	sccs := metrics.FindNonTrivialSCCs(g)
	depth := metrics.ComputeDepth(g)
	summary := metrics.ComputeSummary(g, sccs, depth)

	var insightList []insights.Insight
	if !analyzeNoInsights {
		insightList = insights.Generate(g, sccs, summary, cfg.Rules, cfg.Overrides)
	}

	nodeCount := g.NodeCount()
	density := 0.0
	if nodeCount > 1 {
		density = metrics.Round4Exported(float64(g.EdgeCount()) / float64(nodeCount*(nodeCount-1)))
	}

	meta := output.Metadata{
		Language:          string(lang),
		Granularity:       granularityFor(lang),
		Root:              absRoot,
		NodeCount:         nodeCount,
		EdgeCount:         g.EdgeCount(),
		EdgeDensity:       density,
		FilesParsed:       result.FilesParsed,
		FilesSkipped:      result.FilesSkipped,
		UnresolvedImports: result.UnresolvedImports,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		ElapsedMs:         result.ElapsedMs,
		ModulesPerSecond:  result.ModulesPerSecond,
	}

	hotspots := output.BuildHotspots(g, sccs, analyzeTop)

	runID := uuid.NewString()
	logger.Info("analyze run complete", map[string]any{"run_id": runID, "nodes": nodeCount, "edges": g.EdgeCount()})

	if !analyzeNoHistory {
		recordHistory(absRoot, string(lang), runID, nodeCount, g.EdgeCount(), summary, result.ElapsedMs, logger)
	}

	format, ok := output.ParseFormat(analyzeFormat)
	if !ok {
		return fmt.Errorf("unknown format %q", analyzeFormat)
	}

	switch format {
	case output.JSON:
		out := output.AnalyzeOutput{Metadata: meta, Summary: summary, Hotspots: hotspots, Sccs: sccs, Insights: insightList}
		return output.WriteAnalyzeJSON(os.Stdout, out)
	case output.DOT:
		return output.WriteDOT(os.Stdout, g)
	case output.SARIF:
		threshold := cfg.Rules.HighFanout.MinFanout
		return output.WriteSARIF(os.Stdout, g, sccs, threshold)
	default:
		return output.WriteAnalyzeText(os.Stdout, meta, summary, hotspots, sccs, insightList, analyzeTop)
	}
}

func resolveLanguage(flag string, root string) (walk.Language, bool) {
	if flag != "" {
		return walk.ParseLanguage(flag)
	}
	return walk.DetectLanguage(root)
}

func granularityFor(lang walk.Language) string {
	if lang == walk.Go {
		return "package"
	}
	return "file"
}

func recordHistory(root, lang, runID string, nodeCount, edgeCount int, summary metrics.Summary, elapsedMs int64, logger *ulog.Logger) {
	store, err := history.Open(filepath.Join(root, ".untangle", "history.db"))
	if err != nil {
		logger.Warn("failed to open history store", map[string]any{"error": err.Error()})
		return
	}
	defer store.Close()

	err = store.Record(history.Run{
		RunID:     runID,
		RanAt:     time.Now().UTC(),
		Root:      root,
		Language:  lang,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
		Summary:   summary,
		ElapsedMs: elapsedMs,
	})
	if err != nil {
		logger.Warn("failed to record run history", map[string]any{"error": err.Error()})
	}
}
