// Package output renders analyze and diff results as JSON, human-readable
// text, Graphviz DOT, or SARIF 2.1.0, grounded on
// original_source/src/output/{mod,json,text,dot,sarif}.rs.
package output

import "strings"

// Format is one of untangle's supported output formats.
type Format int

const (
	JSON Format = iota
	Text
	DOT
	SARIF
)

// ParseFormat parses a CLI/config string into a Format, matching
// output/mod.rs's FromStr impl.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, true
	case "text":
		return Text, true
	case "dot":
		return DOT, true
	case "sarif":
		return SARIF, true
	default:
		return JSON, false
	}
}

func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case DOT:
		return "dot"
	case SARIF:
		return "sarif"
	default:
		return "json"
	}
}
