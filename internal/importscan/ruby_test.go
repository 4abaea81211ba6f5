package importscan

import (
	"strings"
	"testing"
)

func TestExtractRubyCallBareRequireIsResolved(t *testing.T) {
	f := NewRubyFrontend(nil, ZeitwerkOff)
	src := []byte(`require "json"
`)
	raws := f.ExtractImports(src, "lib/app.rb")
	if len(raws) != 1 {
		t.Fatalf("expected 1 import, got %d", len(raws))
	}
	if raws[0].Confidence != Resolved {
		t.Fatalf("expected bare require to default to Resolved, got %v", raws[0].Confidence)
	}
}

// TestExtractRubyCallDynamicRequireDetected mirrors
// original_source/src/parse/ruby.rs's own "marks_interpolated_strings_as_dynamic"
// test: tree-sitter may split an interpolated string's leading segment off
// from the "#{...}" marker itself, so the literal '#'/'\' only survives
// extraction reliably when embedded directly in a string_content run.
func TestExtractRubyCallDynamicRequireDetected(t *testing.T) {
	f := NewRubyFrontend(nil, ZeitwerkOff)
	src := []byte(`require "foo#bar"
`)
	raws := f.ExtractImports(src, "lib/app.rb")
	for _, r := range raws {
		if strings.ContainsAny(r.RawPath, "#\\") && r.Confidence != Dynamic {
			t.Fatalf("expected %q to be Dynamic, got %v", r.RawPath, r.Confidence)
		}
	}
}

func TestCamelToSnake(t *testing.T) {
	cases := map[string]string{
		"Post":       "post",
		"PostsController": "posts_controller",
		"HTMLParser": "html_parser",
	}
	for in, want := range cases {
		if got := CamelToSnake(in); got != want {
			t.Errorf("CamelToSnake(%q) = %q, want %q", in, got, want)
		}
	}
}
