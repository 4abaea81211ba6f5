package config

import "sort"

// Source identifies which configuration layer supplied a value.
type Source int

const (
	SourceDefault Source = iota
	SourceUser
	SourceProject
	SourceEnv
	SourceCLI
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceUser:
		return "user config"
	case SourceProject:
		return "project config"
	case SourceEnv:
		return "environment variable"
	case SourceCLI:
		return "CLI flag"
	default:
		return "unknown"
	}
}

// ProvenanceMap records, per dotted config key, which layer last set it.
type ProvenanceMap struct {
	entries map[string]Source
}

// NewProvenanceMap creates an empty ProvenanceMap.
func NewProvenanceMap() *ProvenanceMap {
	return &ProvenanceMap{entries: make(map[string]Source)}
}

// Set records that key was supplied by source, overwriting any earlier
// record — later layers always win, matching the resolver's apply order.
func (p *ProvenanceMap) Set(key string, source Source) {
	p.entries[key] = source
}

// Get returns the recorded source for key, and whether one was recorded.
func (p *ProvenanceMap) Get(key string) (Source, bool) {
	s, ok := p.entries[key]
	return s, ok
}

// Keys returns every recorded key in sorted order, for deterministic
// `config show` output.
func (p *ProvenanceMap) Keys() []string {
	keys := make([]string, 0, len(p.entries))
	for k := range p.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// defaultProvenanceKeys is the exhaustive list of dotted keys the resolver
// always sets to SourceDefault before layering begins, so `config show`
// can report every key even when no layer overrides it.
var defaultProvenanceKeys = []string{
	"include",
	"exclude",
	"fail_on",
	"rules.god_module.enabled",
	"rules.god_module.min_fanin",
	"rules.god_module.min_fanout",
	"rules.god_module.relative_to_p90",
	"rules.high_fanout.enabled",
	"rules.high_fanout.min_fanout",
	"rules.high_fanout.relative_to_p90",
	"rules.high_fanout.warning_multiplier",
	"rules.circular_dependency.enabled",
	"rules.circular_dependency.warning_min_size",
	"rules.deep_chain.enabled",
	"rules.deep_chain.absolute_depth",
	"rules.deep_chain.relative_multiplier",
	"rules.deep_chain.relative_min_depth",
	"rules.high_entropy.enabled",
	"rules.high_entropy.min_entropy",
	"rules.high_entropy.min_fanout",
	"go.exclude_stdlib",
	"ruby.zeitwerk",
	"ruby.load_paths",
	"logging.level",
	"logging.format",
}

func setAllDefaultProvenance(p *ProvenanceMap) {
	for _, k := range defaultProvenanceKeys {
		p.Set(k, SourceDefault)
	}
}
