package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"untangle/internal/config"
	"untangle/internal/diffengine"
	"untangle/internal/output"
	"untangle/internal/walk"
)

var (
	diffLang    string
	diffFormat  string
	diffFailOn  []string
	diffRepoDir string
)

var diffCmd = &cobra.Command{
	Use:   "diff <base> <head>",
	Short: "Compare the dependency graph at two git revisions",
	Long: `diff builds the import graph at two git revisions, computes
node/edge/fan-out/SCC deltas between them, and evaluates --fail-on
policy conditions against the result. The process exits non-zero when
the verdict is Fail.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffLang, "lang", "", "Language to analyze (go, python, ruby, rust); auto-detected if omitted")
	diffCmd.Flags().StringVar(&diffFormat, "format", "text", "Output format (json, text)")
	diffCmd.Flags().StringSliceVar(&diffFailOn, "fail-on", nil, "Policy conditions that fail the run (fanout-increase, fanout-threshold=N, new-scc, scc-growth, entropy-increase, new-edge)")
	diffCmd.Flags().StringVar(&diffRepoDir, "repo", ".", "Git repository root")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	start := time.Now()
	baseRef, headRef := args[0], args[1]

	resolveResult, err := config.ResolveConfig(diffRepoDir, config.CliOverrides{FailOn: diffFailOn})
	if err != nil {
		return err
	}
	cfg := resolveResult.Config

	failOn := diffFailOn
	if len(failOn) == 0 {
		failOn = cfg.FailOn
	}

	lang, ok := resolveLanguage(diffLang, diffRepoDir)
	if !ok {
		lang = walk.Go
	}

	result, err := diffengine.Run(diffRepoDir, baseRef, headRef, lang, &cfg, failOn)
	if err != nil {
		return err
	}

	elapsedMs := time.Since(start).Milliseconds()

	format, ok := output.ParseFormat(diffFormat)
	if !ok {
		return fmt.Errorf("unknown format %q", diffFormat)
	}

	var writeErr error
	if format == output.JSON {
		writeErr = output.WriteDiffJSON(os.Stdout, result, elapsedMs, 0)
	} else {
		writeErr = output.WriteDiffText(os.Stdout, result, elapsedMs, 0)
	}
	if writeErr != nil {
		return writeErr
	}

	if result.Verdict == diffengine.Fail {
		os.Exit(1)
	}
	return nil
}
