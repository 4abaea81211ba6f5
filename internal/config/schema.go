// Package config implements untangle's five-layer configuration resolver:
// defaults -> user config -> project .untangle.toml -> environment
// variables -> CLI flags, each layer recorded in a ProvenanceMap, grounded
// on original_source/src/config/{schema,resolve,mod}.rs and the teacher's
// internal/config/config.go mapstructure/provenance precedent.
package config

// GodModuleRule fires when a module is both high fan-out and high fan-in,
// mirroring mod.rs's GodModuleRule.
type GodModuleRule struct {
	Enabled       bool
	MinFanout     int
	MinFanin      int
	RelativeToP90 bool
}

// HighFanoutRule fires when a module imports too many others, mirroring
// mod.rs's HighFanoutRule. WarningMultiplier gates the Warning/Info split:
// fanout >= WarningMultiplier * p90_fanout is Warning, otherwise Info.
type HighFanoutRule struct {
	Enabled           bool
	MinFanout         int
	RelativeToP90     bool
	WarningMultiplier int
}

// CircularDependencyRule fires once per non-trivial SCC. WarningMinSize
// gates the Warning/Info split: scc.size >= WarningMinSize is Warning,
// otherwise Info. Mirrors mod.rs's CircularDependencyRule.
type CircularDependencyRule struct {
	Enabled        bool
	WarningMinSize int
}

// DeepChainRule is graph-level: it fires at most once per run, when the
// graph's longest dependency chain crosses an absolute or relative
// threshold. Mirrors mod.rs's DeepChainRule.
type DeepChainRule struct {
	Enabled            bool
	AbsoluteDepth      int
	RelativeMultiplier float64
	RelativeMinDepth   int
}

// HighEntropyRule fires when a module's outgoing edge weights are spread
// broadly and its fan-out clears a floor, mirroring mod.rs's
// HighEntropyRule.
type HighEntropyRule struct {
	Enabled    bool
	MinEntropy float64
	MinFanout  int
}

// RulesConfig mirrors the five InsightCategory rules.
type RulesConfig struct {
	GodModule          GodModuleRule
	HighFanout         HighFanoutRule
	CircularDependency CircularDependencyRule
	DeepChain          DeepChainRule
	HighEntropy        HighEntropyRule
}

// GoConfig holds Go-frontend-specific options.
type GoConfig struct {
	ExcludeStdlib bool
}

// RubyConfig holds Ruby-frontend-specific options.
type RubyConfig struct {
	Zeitwerk  bool
	LoadPaths []string
}

// LoggingConfig controls the ambient logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// OverrideConfig is a single per-path-glob override entry. When a file's
// module path matches Path, its Rules entirely replace the globally
// resolved rule set (replace semantics, not a field-by-field merge).
type OverrideConfig struct {
	Path  string
	Rules RulesConfig
}

// Resolved is the fully merged, five-layer configuration, ready for the
// pipeline to consume.
type Resolved struct {
	Include   []string
	Exclude   []string
	Rules     RulesConfig
	FailOn    []string
	Go        GoConfig
	Ruby      RubyConfig
	Logging   LoggingConfig
	Overrides []OverrideConfig
}

// Defaults returns untangle's built-in configuration, matching
// mod.rs's Default impls for HighFanoutRule/GodModuleRule/
// CircularDependencyRule/DeepChainRule/HighEntropyRule.
func Defaults() Resolved {
	return Resolved{
		Rules: RulesConfig{
			GodModule:          GodModuleRule{Enabled: true, MinFanout: 3, MinFanin: 3, RelativeToP90: true},
			HighFanout:         HighFanoutRule{Enabled: true, MinFanout: 5, RelativeToP90: true, WarningMultiplier: 2},
			CircularDependency: CircularDependencyRule{Enabled: true, WarningMinSize: 4},
			DeepChain:          DeepChainRule{Enabled: true, AbsoluteDepth: 8, RelativeMultiplier: 2.0, RelativeMinDepth: 5},
			HighEntropy:        HighEntropyRule{Enabled: true, MinEntropy: 2.5, MinFanout: 5},
		},
		FailOn: nil,
		Go:     GoConfig{ExcludeStdlib: true},
		Ruby:   RubyConfig{Zeitwerk: false},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "human",
		},
	}
}

// FileConfig is the TOML shape of .untangle.toml (and any user config
// file), each field a pointer/zero-value so the resolver can tell "set by
// this file" from "absent from this file" when applying provenance.
type FileConfig struct {
	Include *[]string          `toml:"include"`
	Exclude *[]string          `toml:"exclude"`
	FailOn  *[]string          `toml:"fail_on"`
	Rules   *FileRulesConfig   `toml:"rules"`
	Go      *FileGoConfig      `toml:"go"`
	Ruby    *FileRubyConfig    `toml:"ruby"`
	Logging *FileLoggingConfig `toml:"logging"`

	// Overrides uses TOML's dotted-table syntax, with the rule tables placed
	// directly under the override key (there is no nested `rules` table and
	// no per-override `enabled` switch):
	//   [overrides."**/vendor/**"]
	//   high_fanout.min_fanout = 40
	Overrides map[string]FileRulesConfig `toml:"overrides"`

	// Legacy schema, migrated once into Rules before layering.
	Thresholds *LegacyThresholdsConfig `toml:"thresholds"`
}

// FileRulesConfig is the partial, file-supplied rule overlay — every field
// optional so "unset in this layer" is distinguishable from "set to zero".
type FileRulesConfig struct {
	GodModule          *FileGodModuleRule          `toml:"god_module"`
	HighFanout         *FileHighFanoutRule         `toml:"high_fanout"`
	CircularDependency *FileCircularDependencyRule `toml:"circular_dependency"`
	DeepChain          *FileDeepChainRule          `toml:"deep_chain"`
	HighEntropy        *FileHighEntropyRule        `toml:"high_entropy"`
}

type FileGodModuleRule struct {
	Enabled       *bool `toml:"enabled"`
	MinFanin      *int  `toml:"min_fanin"`
	MinFanout     *int  `toml:"min_fanout"`
	RelativeToP90 *bool `toml:"relative_to_p90"`
}

type FileHighFanoutRule struct {
	Enabled           *bool `toml:"enabled"`
	MinFanout         *int  `toml:"min_fanout"`
	RelativeToP90     *bool `toml:"relative_to_p90"`
	WarningMultiplier *int  `toml:"warning_multiplier"`
}

type FileCircularDependencyRule struct {
	Enabled        *bool `toml:"enabled"`
	WarningMinSize *int  `toml:"warning_min_size"`
}

type FileDeepChainRule struct {
	Enabled            *bool    `toml:"enabled"`
	AbsoluteDepth      *int     `toml:"absolute_depth"`
	RelativeMultiplier *float64 `toml:"relative_multiplier"`
	RelativeMinDepth   *int     `toml:"relative_min_depth"`
}

type FileHighEntropyRule struct {
	Enabled    *bool    `toml:"enabled"`
	MinEntropy *float64 `toml:"min_entropy"`
	MinFanout  *int     `toml:"min_fanout"`
}

type FileGoConfig struct {
	ExcludeStdlib *bool `toml:"exclude_stdlib"`
}

type FileRubyConfig struct {
	Zeitwerk  *bool     `toml:"zeitwerk"`
	LoadPaths *[]string `toml:"load_paths"`
}

type FileLoggingConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LegacyThresholdsConfig is the pre-v2 flat `[thresholds]` schema, kept
// readable for backward compatibility and migrated into Rules once before
// layering (see migrateLegacy in resolve.go).
type LegacyThresholdsConfig struct {
	MaxFanout  *int     `toml:"max_fanout"`
	MaxSccSize *int     `toml:"max_scc_size"`
	MaxDepth   *int     `toml:"max_depth"`
	MaxEntropy *float64 `toml:"max_entropy"`
}
