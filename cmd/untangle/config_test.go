package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestConfigCommands_Setup(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("configCmd.Use = %q, want %q", configCmd.Use, "config")
	}
	if configShowCmd.Use != "show" {
		t.Errorf("configShowCmd.Use = %q, want %q", configShowCmd.Use, "show")
	}

	hasShow := false
	for _, cmd := range configCmd.Commands() {
		if cmd.Use == "show" {
			hasShow = true
		}
	}
	if !hasShow {
		t.Error("configCmd should have 'show' subcommand registered")
	}

	if configShowCmd.Flags().Lookup("format") == nil {
		t.Error("configShowCmd should have --format flag")
	}
}

func TestRunConfigShow_Text(t *testing.T) {
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(old)

	configShowFormat = "text"

	r, w, _ := os.Pipe()
	oldStdout := os.Stdout
	os.Stdout = w

	err = runConfigShow(configShowCmd, nil)

	w.Close()
	os.Stdout = oldStdout
	if err != nil {
		t.Fatalf("runConfigShow: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	out := buf.String()

	if !strings.Contains(out, "Resolved keys") {
		t.Errorf("expected output to contain %q, got: %s", "Resolved keys", out)
	}
	if !strings.Contains(out, "using defaults") {
		t.Errorf("expected output to note no project config found, got: %s", out)
	}
}

func TestRunConfigShow_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(old)

	configShowFormat = "xml"
	if err := runConfigShow(configShowCmd, nil); err == nil {
		t.Error("expected an error for an unsupported format")
	}
	configShowFormat = "text"
}
