package config

import (
	ignore "github.com/sabhiram/go-gitignore"
)

// ResolveOverrides picks the rule set that applies to modulePath: the
// first override whose glob pattern matches wins outright (its Rules
// entirely replace the globally resolved rules — no field-by-field
// merge), matching config/overrides.rs's first-match-wins, replace
// semantics. If nothing matches, base is returned unchanged.
func ResolveOverrides(overrides []OverrideConfig, modulePath string, base RulesConfig) RulesConfig {
	for _, ov := range overrides {
		m, err := ignore.CompileIgnoreLines(ov.Path)
		if err != nil {
			continue
		}
		if m.MatchesPath(modulePath) {
			return ov.Rules
		}
	}
	return base
}
