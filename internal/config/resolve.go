package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"

	"untangle/internal/uerrors"
)

// CliOverrides carries the subset of CLI flags that feed into the
// resolved configuration (as opposed to flags that only affect a single
// command invocation, like --format).
type CliOverrides struct {
	Include         []string
	Exclude         []string
	ThresholdFanout *int
	FailOn          []string
}

// Result is the resolved configuration plus its provenance trail.
type Result struct {
	Config     Resolved
	Provenance *ProvenanceMap
	ConfigPath string // project config file actually used, if any
}

// ResolveConfig layers defaults -> user config -> project config -> env
// vars -> CLI flags, in that order, recording provenance for every key
// touched along the way.
func ResolveConfig(repoRoot string, cli CliOverrides) (*Result, error) {
	prov := NewProvenanceMap()
	setAllDefaultProvenance(prov)
	resolved := Defaults()

	if userPath := findUserConfig(); userPath != "" {
		fc, err := loadFileConfig(userPath)
		if err != nil {
			return nil, uerrors.Wrap(uerrors.ConfigError, "failed to parse user config", err).WithPath(userPath)
		}
		applyFileConfig(&resolved, prov, fc, SourceUser)
	}

	configPath := findProjectConfig(repoRoot)
	if configPath != "" {
		fc, err := loadFileConfig(configPath)
		if err != nil {
			return nil, uerrors.Wrap(uerrors.ConfigError, "failed to parse project config", err).WithPath(configPath)
		}
		applyFileConfig(&resolved, prov, fc, SourceProject)
	}

	if ignorePatterns, err := LoadUntangleIgnore(repoRoot); err == nil {
		resolved.Exclude = append(resolved.Exclude, ignorePatterns...)
	}

	applyEnvVars(&resolved, prov)
	applyCliOverrides(&resolved, prov, cli)

	return &Result{Config: resolved, Provenance: prov, ConfigPath: configPath}, nil
}

func findUserConfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, ".config", "untangle", "config.toml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// findProjectConfig walks up from root looking for .untangle.toml.
func findProjectConfig(root string) string {
	dir := root
	for {
		candidate := filepath.Join(dir, ".untangle.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func loadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := gotoml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	if fc.Thresholds != nil {
		if legacyTOMLProbe(path) {
			_, _ = os.Stderr.WriteString("untangle: " + path + " uses the legacy [thresholds] table, migrating to [rules.*]\n")
		}
		migrateLegacy(&fc)
	}
	return &fc, nil
}

// migrateLegacy rewrites the old flat `[thresholds]` table into the
// `[rules.*]` schema, once, before layering — so downstream resolution
// never needs to know the legacy shape existed.
func migrateLegacy(fc *FileConfig) {
	if fc.Rules == nil {
		fc.Rules = &FileRulesConfig{}
	}
	t := fc.Thresholds
	// [thresholds].max_fanout -> rules.high_fanout.min_fanout, only if unset,
	// matching schema.rs's migrate_legacy.
	if t.MaxFanout != nil {
		if fc.Rules.HighFanout == nil {
			fc.Rules.HighFanout = &FileHighFanoutRule{}
		}
		if fc.Rules.HighFanout.MinFanout == nil {
			fc.Rules.HighFanout.MinFanout = t.MaxFanout
		}
	}
	// [thresholds].max_scc_size -> rules.circular_dependency.warning_min_size,
	// only if unset.
	if t.MaxSccSize != nil {
		if fc.Rules.CircularDependency == nil {
			fc.Rules.CircularDependency = &FileCircularDependencyRule{}
		}
		if fc.Rules.CircularDependency.WarningMinSize == nil {
			fc.Rules.CircularDependency.WarningMinSize = t.MaxSccSize
		}
	}
	if t.MaxDepth != nil {
		if fc.Rules.DeepChain == nil {
			fc.Rules.DeepChain = &FileDeepChainRule{}
		}
		if fc.Rules.DeepChain.AbsoluteDepth == nil {
			fc.Rules.DeepChain.AbsoluteDepth = t.MaxDepth
		}
	}
	if t.MaxEntropy != nil {
		if fc.Rules.HighEntropy == nil {
			fc.Rules.HighEntropy = &FileHighEntropyRule{}
		}
		if fc.Rules.HighEntropy.MinEntropy == nil {
			fc.Rules.HighEntropy.MinEntropy = t.MaxEntropy
		}
	}
}

func applyFileConfig(r *Resolved, prov *ProvenanceMap, fc *FileConfig, src Source) {
	if fc.Include != nil {
		r.Include = *fc.Include
		prov.Set("include", src)
	}
	if fc.Exclude != nil {
		r.Exclude = append(r.Exclude, *fc.Exclude...)
		prov.Set("exclude", src)
	}
	if fc.FailOn != nil {
		r.FailOn = *fc.FailOn
		prov.Set("fail_on", src)
	}
	if fc.Go != nil && fc.Go.ExcludeStdlib != nil {
		r.Go.ExcludeStdlib = *fc.Go.ExcludeStdlib
		prov.Set("go.exclude_stdlib", src)
	}
	if fc.Ruby != nil {
		if fc.Ruby.Zeitwerk != nil {
			r.Ruby.Zeitwerk = *fc.Ruby.Zeitwerk
			prov.Set("ruby.zeitwerk", src)
		}
		if fc.Ruby.LoadPaths != nil {
			r.Ruby.LoadPaths = *fc.Ruby.LoadPaths
			prov.Set("ruby.load_paths", src)
		}
	}
	if fc.Logging != nil {
		if fc.Logging.Level != nil {
			r.Logging.Level = *fc.Logging.Level
			prov.Set("logging.level", src)
		}
		if fc.Logging.Format != nil {
			r.Logging.Format = *fc.Logging.Format
			prov.Set("logging.format", src)
		}
	}
	if fc.Rules != nil {
		applyRulesConfig(&r.Rules, prov, fc.Rules, src)
	}
	if len(fc.Overrides) > 0 {
		r.Overrides = nil
		for path, rules := range fc.Overrides {
			// Each override starts from the *default* rule set, then the
			// file's partial entry is applied on top — this is a
			// default-then-override, not a merge against the currently
			// resolved base rules.
			base := Defaults().Rules
			applyRulesConfig(&base, NewProvenanceMap(), &rules, src)
			r.Overrides = append(r.Overrides, OverrideConfig{Path: path, Rules: base})
		}
	}
}

func applyRulesConfig(r *RulesConfig, prov *ProvenanceMap, fc *FileRulesConfig, src Source) {
	if fc.GodModule != nil {
		if fc.GodModule.Enabled != nil {
			r.GodModule.Enabled = *fc.GodModule.Enabled
			prov.Set("rules.god_module.enabled", src)
		}
		if fc.GodModule.MinFanin != nil {
			r.GodModule.MinFanin = *fc.GodModule.MinFanin
			prov.Set("rules.god_module.min_fanin", src)
		}
		if fc.GodModule.MinFanout != nil {
			r.GodModule.MinFanout = *fc.GodModule.MinFanout
			prov.Set("rules.god_module.min_fanout", src)
		}
		if fc.GodModule.RelativeToP90 != nil {
			r.GodModule.RelativeToP90 = *fc.GodModule.RelativeToP90
			prov.Set("rules.god_module.relative_to_p90", src)
		}
	}
	if fc.HighFanout != nil {
		if fc.HighFanout.Enabled != nil {
			r.HighFanout.Enabled = *fc.HighFanout.Enabled
			prov.Set("rules.high_fanout.enabled", src)
		}
		if fc.HighFanout.MinFanout != nil {
			r.HighFanout.MinFanout = *fc.HighFanout.MinFanout
			prov.Set("rules.high_fanout.min_fanout", src)
		}
		if fc.HighFanout.RelativeToP90 != nil {
			r.HighFanout.RelativeToP90 = *fc.HighFanout.RelativeToP90
			prov.Set("rules.high_fanout.relative_to_p90", src)
		}
		if fc.HighFanout.WarningMultiplier != nil {
			r.HighFanout.WarningMultiplier = *fc.HighFanout.WarningMultiplier
			prov.Set("rules.high_fanout.warning_multiplier", src)
		}
	}
	if fc.CircularDependency != nil {
		if fc.CircularDependency.Enabled != nil {
			r.CircularDependency.Enabled = *fc.CircularDependency.Enabled
			prov.Set("rules.circular_dependency.enabled", src)
		}
		if fc.CircularDependency.WarningMinSize != nil {
			r.CircularDependency.WarningMinSize = *fc.CircularDependency.WarningMinSize
			prov.Set("rules.circular_dependency.warning_min_size", src)
		}
	}
	if fc.DeepChain != nil {
		if fc.DeepChain.Enabled != nil {
			r.DeepChain.Enabled = *fc.DeepChain.Enabled
			prov.Set("rules.deep_chain.enabled", src)
		}
		if fc.DeepChain.AbsoluteDepth != nil {
			r.DeepChain.AbsoluteDepth = *fc.DeepChain.AbsoluteDepth
			prov.Set("rules.deep_chain.absolute_depth", src)
		}
		if fc.DeepChain.RelativeMultiplier != nil {
			r.DeepChain.RelativeMultiplier = *fc.DeepChain.RelativeMultiplier
			prov.Set("rules.deep_chain.relative_multiplier", src)
		}
		if fc.DeepChain.RelativeMinDepth != nil {
			r.DeepChain.RelativeMinDepth = *fc.DeepChain.RelativeMinDepth
			prov.Set("rules.deep_chain.relative_min_depth", src)
		}
	}
	if fc.HighEntropy != nil {
		if fc.HighEntropy.Enabled != nil {
			r.HighEntropy.Enabled = *fc.HighEntropy.Enabled
			prov.Set("rules.high_entropy.enabled", src)
		}
		if fc.HighEntropy.MinEntropy != nil {
			r.HighEntropy.MinEntropy = *fc.HighEntropy.MinEntropy
			prov.Set("rules.high_entropy.min_entropy", src)
		}
		if fc.HighEntropy.MinFanout != nil {
			r.HighEntropy.MinFanout = *fc.HighEntropy.MinFanout
			prov.Set("rules.high_entropy.min_fanout", src)
		}
	}
}

// applyEnvVars reads UNTANGLE_-prefixed environment variables, matching
// config/resolve.rs's explicit-name-list approach rather than a generic
// automatic binder.
func applyEnvVars(r *Resolved, prov *ProvenanceMap) {
	if v := os.Getenv("UNTANGLE_EXCLUDE"); v != "" {
		r.Exclude = append(r.Exclude, strings.Split(v, ",")...)
		prov.Set("exclude", SourceEnv)
	}
	if v := os.Getenv("UNTANGLE_INCLUDE"); v != "" {
		r.Include = strings.Split(v, ",")
		prov.Set("include", SourceEnv)
	}
	if v := os.Getenv("UNTANGLE_FAIL_ON"); v != "" {
		r.FailOn = strings.Split(v, ",")
		prov.Set("fail_on", SourceEnv)
	}
	if v := os.Getenv("UNTANGLE_THRESHOLD_FANOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.Rules.HighFanout.MinFanout = n
			prov.Set("rules.high_fanout.min_fanout", SourceEnv)
		}
	}
	if v := os.Getenv("UNTANGLE_GO_EXCLUDE_STDLIB"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			r.Go.ExcludeStdlib = b
			prov.Set("go.exclude_stdlib", SourceEnv)
		}
	}
	if v := os.Getenv("UNTANGLE_RUBY_ZEITWERK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			r.Ruby.Zeitwerk = b
			prov.Set("ruby.zeitwerk", SourceEnv)
		}
	}
	if v := os.Getenv("UNTANGLE_LOG_LEVEL"); v != "" {
		r.Logging.Level = v
		prov.Set("logging.level", SourceEnv)
	}
	if v := os.Getenv("UNTANGLE_LOG_FORMAT"); v != "" {
		r.Logging.Format = v
		prov.Set("logging.format", SourceEnv)
	}
}

// applyCliOverrides applies the highest-precedence layer. ThresholdFanout
// deliberately sets two fields at once (high_fanout.min_fanout *and*
// god_module.min_fanout), matching the original CLI's
// --threshold-fanout dual-field-set behavior.
func applyCliOverrides(r *Resolved, prov *ProvenanceMap, cli CliOverrides) {
	if len(cli.Include) > 0 {
		r.Include = cli.Include
		prov.Set("include", SourceCLI)
	}
	if len(cli.Exclude) > 0 {
		r.Exclude = append(r.Exclude, cli.Exclude...)
		prov.Set("exclude", SourceCLI)
	}
	if len(cli.FailOn) > 0 {
		r.FailOn = cli.FailOn
		prov.Set("fail_on", SourceCLI)
	}
	if cli.ThresholdFanout != nil {
		r.Rules.HighFanout.MinFanout = *cli.ThresholdFanout
		prov.Set("rules.high_fanout.min_fanout", SourceCLI)
		r.Rules.GodModule.MinFanout = *cli.ThresholdFanout
		prov.Set("rules.god_module.min_fanout", SourceCLI)
	}
}

// legacyTOMLProbe re-decodes path with BurntSushi/toml (rather than
// go-toml/v2, used for the primary decode) into a generic map and reports
// whether it has a top-level `thresholds` table. loadFileConfig calls it
// only after FileConfig.Thresholds is already set, to decide whether to
// print the migration notice — kept for the legacy-migration
// compatibility path described in SPEC_FULL.md.
func legacyTOMLProbe(path string) bool {
	var probe map[string]any
	if _, err := toml.DecodeFile(path, &probe); err != nil {
		return false
	}
	_, ok := probe["thresholds"]
	return ok
}
