// Package pipeline orchestrates the fork-join analyze run described in
// spec.md §5: a parallel parse phase over a static file list, followed by
// a sequential resolve/build phase that preserves deterministic node
// insertion order (and therefore SCC ids). Grounded on the teacher's
// internal/index/indexer.go worker-pool shape (a bounded goroutine pool
// draining a work channel into an ordered results slice).
package pipeline

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"untangle/internal/cache"
	"untangle/internal/config"
	"untangle/internal/graph"
	"untangle/internal/importscan"
	"untangle/internal/metrics"
	"untangle/internal/ulog"
	"untangle/internal/walk"
)

// parseResult is one file's parallel-phase output: its raw imports (if the
// read+parse succeeded) or a note that it was skipped.
type parseResult struct {
	filePath string
	source   []byte
	raws     []importscan.RawImport
	skipped  bool
}

// Result is everything the pipeline produced for one run.
type Result struct {
	Graph              *graph.DepGraph
	FilesParsed        int
	FilesSkipped       int
	UnresolvedImports  int
	ElapsedMs          int64
	ModulesPerSecond   float64
}

// FileReader abstracts how file bytes are obtained, so the same pipeline
// drives both a live filesystem walk (analyze) and a revision-store read
// (diffengine already has its own variant of this for git refs; this
// abstraction exists for analyze's disk-backed case).
type FileReader func(path string) ([]byte, error)

// Run executes the parallel-parse/sequential-build pipeline over files,
// creating one lang frontend per worker goroutine and one more for the
// sequential resolve phase. Frontends hold no parser of their own: each
// ExtractImports call creates a fresh internal/langs.Parser, which is not
// safe for concurrent use.
//
// store, if non-nil, memoizes each file's extracted RawImports by content
// hash, skipping re-parsing of unchanged files across runs.
func Run(files []string, lang walk.Language, cfg *config.Resolved, goModulePath, rustCrateName string, read FileReader, store *cache.Store, logger *ulog.Logger) (*Result, error) {
	start := time.Now()
	if logger == nil {
		logger = ulog.Discard()
	}

	results := make([]parseResult, len(files))
	var skippedCount int64

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}
	if workers == 0 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Fresh frontend per worker; each extraction call also
			// builds its own parser (spec.md §5 "parser isolation").
			frontend := importscan.NewFrontend(lang, cfg, goModulePath, rustCrateName)
			for i := range jobs {
				path := files[i]
				source, err := read(path)
				if err != nil {
					atomic.AddInt64(&skippedCount, 1)
					logger.Warn("failed to read file", map[string]any{"file": path, "error": err.Error()})
					results[i] = parseResult{filePath: path, skipped: true}
					continue
				}

				if store != nil {
					if key, keyErr := cache.ContentKey(source); keyErr == nil {
						if entry, ok := store.Get(key); ok {
							results[i] = parseResult{filePath: path, source: source, raws: recordsToRaws(entry.Imports, path)}
							continue
						}
					}
				}

				raws := frontend.ExtractImports(source, path)
				if raws == nil && len(source) > 0 {
					// A nil extraction result on non-empty source means the
					// parser produced no tree; count as a parse failure.
					atomic.AddInt64(&skippedCount, 1)
					logger.Warn("failed to parse file", map[string]any{"file": path})
					results[i] = parseResult{filePath: path, skipped: true}
					continue
				}
				results[i] = parseResult{filePath: path, source: source, raws: raws}

				if store != nil {
					if key, keyErr := cache.ContentKey(source); keyErr == nil {
						_ = store.Put(key, cache.Entry{FilePath: path, Imports: rawsToRecords(raws)})
					}
				}
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Sequential resolve/build phase: process in the original sorted file
	// order so node insertion order (and thus SCC ids) is deterministic.
	frontend := importscan.NewFrontend(lang, cfg, goModulePath, rustCrateName)
	b := graph.NewBuilder()
	unresolved := 0
	parsed := 0

	for _, r := range results {
		if r.skipped {
			continue
		}
		parsed++
		for _, raw := range r.raws {
			if raw.Confidence != importscan.Resolved {
				unresolved++
				continue
			}
			target, ok := frontend.Resolve(raw, "", files)
			if !ok {
				unresolved++
				continue
			}
			sourceModule := r.filePath
			if lang == walk.Go {
				sourceModule = importscan.GoModuleDir(r.filePath, "")
			}
			b.AddImport(importscan.ResolvedImport{
				SourceModule: sourceModule,
				TargetModule: target,
				Location:     importscan.SourceLocation{File: r.filePath, Line: raw.Line, Column: raw.Column},
			}, string(lang))
		}
	}

	g := b.Build()
	elapsed := time.Since(start)
	elapsedMs := elapsed.Milliseconds()
	modulesPerSecond := 0.0
	if elapsed > 0 {
		modulesPerSecond = metrics.Round2Exported(float64(g.NodeCount()) / elapsed.Seconds())
	}

	logger.Info("pipeline run complete", map[string]any{
		"files_parsed":       parsed,
		"files_skipped":      int(atomic.LoadInt64(&skippedCount)),
		"unresolved_imports": unresolved,
		"elapsed_ms":         elapsedMs,
	})

	return &Result{
		Graph:             g,
		FilesParsed:       parsed,
		FilesSkipped:      int(atomic.LoadInt64(&skippedCount)),
		UnresolvedImports: unresolved,
		ElapsedMs:         elapsedMs,
		ModulesPerSecond:  modulesPerSecond,
	}, nil
}

func rawsToRecords(raws []importscan.RawImport) []cache.ImportRecord {
	out := make([]cache.ImportRecord, 0, len(raws))
	for _, r := range raws {
		out = append(out, cache.ImportRecord{
			RawPath:    r.RawPath,
			Line:       r.Line,
			Kind:       int(r.Kind),
			Confidence: int(r.Confidence),
		})
	}
	return out
}

func recordsToRaws(records []cache.ImportRecord, sourceFile string) []importscan.RawImport {
	out := make([]importscan.RawImport, 0, len(records))
	for _, r := range records {
		out = append(out, importscan.RawImport{
			RawPath:    r.RawPath,
			SourceFile: sourceFile,
			Line:       r.Line,
			Kind:       importscan.ImportKind(r.Kind),
			Confidence: importscan.ImportConfidence(r.Confidence),
		})
	}
	return out
}

// SortedLanguageCounts returns the languages present among files (by
// extension) sorted by file-count descending, stable tie-break by
// language name — matches spec.md §5's "languages are reported in
// file-count-descending order with stable tie-break".
func SortedLanguageCounts(files []string, exts map[walk.Language][]string) []string {
	counts := map[walk.Language]int{}
	for _, f := range files {
		for lang, es := range exts {
			for _, e := range es {
				if len(f) >= len(e) && f[len(f)-len(e):] == e {
					counts[lang]++
				}
			}
		}
	}
	type kv struct {
		lang  walk.Language
		count int
	}
	var kvs []kv
	for l, c := range counts {
		kvs = append(kvs, kv{l, c})
	}
	sort.SliceStable(kvs, func(i, j int) bool {
		if kvs[i].count != kvs[j].count {
			return kvs[i].count > kvs[j].count
		}
		return kvs[i].lang < kvs[j].lang
	})
	out := make([]string, 0, len(kvs))
	for _, k := range kvs {
		out = append(out, string(k.lang))
	}
	return out
}
