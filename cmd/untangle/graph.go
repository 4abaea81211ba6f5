package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"untangle/internal/config"
	"untangle/internal/importscan"
	"untangle/internal/output"
	"untangle/internal/pipeline"
	"untangle/internal/uerrors"
	"untangle/internal/ulog"
	"untangle/internal/walk"
)

var (
	graphLang         string
	graphFormat       string
	graphIncludeTests bool
)

// graphNodeJSON / graphEdgeJSON are the raw-graph JSON shape for
// `untangle graph --format json` — no metrics or insights, just nodes
// and edges, matching cli/graph.rs's bare GraphBuilder dump.
type graphNodeJSON struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

type graphEdgeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
	Refs int    `json:"refs"`
}

var graphCmd = &cobra.Command{
	Use:   "graph [root]",
	Short: "Emit the raw dependency graph with no metrics or insights",
	Long: `graph runs the same discovery + frontend + GraphBuilder
pipeline as analyze but skips the metrics and insight stages entirely,
emitting only the interned nodes and deduplicated edges.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphLang, "lang", "", "Language to analyze (go, python, ruby, rust); auto-detected if omitted")
	graphCmd.Flags().StringVar(&graphFormat, "format", "dot", "Output format (dot, json)")
	graphCmd.Flags().BoolVar(&graphIncludeTests, "include-tests", false, "Include test files")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	resolveResult, err := config.ResolveConfig(absRoot, config.CliOverrides{})
	if err != nil {
		return err
	}
	cfg := resolveResult.Config

	lang, ok := resolveLanguage(graphLang, absRoot)
	if !ok {
		return uerrors.New(uerrors.NoFiles, "could not detect a supported language under "+absRoot).WithPath(absRoot)
	}

	files, err := walk.DiscoverFiles(absRoot, lang, cfg.Include, cfg.Exclude, graphIncludeTests)
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

	result, err := pipeline.Run(relFiles, lang, &cfg, goModulePath, rustCrateName, read, nil, ulog.Discard())
	if err != nil {
		return err
	}
	g := result.Graph

	if graphFormat == "json" {
		nodes := make([]graphNodeJSON, 0, g.NodeCount())
		for _, idx := range g.NodeIndices() {
			n := g.Node(idx)
			nodes = append(nodes, graphNodeJSON{Path: n.Path, Name: n.Name})
		}
		var edges []graphEdgeJSON
		for _, e := range g.AllEdges() {
			edges = append(edges, graphEdgeJSON{
				From: g.Node(e.Src).Name,
				To:   g.Node(e.Dst).Name,
				Refs: len(e.Edge.SourceLocations),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Nodes []graphNodeJSON `json:"nodes"`
			Edges []graphEdgeJSON `json:"edges"`
		}{nodes, edges})
	}

	if graphFormat != "dot" {
		return fmt.Errorf("unknown format %q (graph supports dot, json)", graphFormat)
	}
	return output.WriteDOT(os.Stdout, g)
}
