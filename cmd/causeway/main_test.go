package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const confoundedYAML = `
treatment: [T]
outcome: [Y]
edges:
  - {from: Z, to: T}
  - {from: Z, to: Y}
  - {from: T, to: Y}
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

// execute runs the root command with args and returns stdout. Flag
// values are package globals, so every call passes its flags explicitly.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v: %v", args, err)
	}
	return buf.String()
}

func TestIdentifyCommand_JSON(t *testing.T) {
	spec := writeSpec(t, confoundedYAML)
	out := execute(t, "identify", "-f", spec, "--format", "json", "--save=false")

	var decoded struct {
		Identified bool                       `json:"identified"`
		Estimands  map[string]json.RawMessage `json:"estimands"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !decoded.Identified {
		t.Errorf("expected identified=true:\n%s", out)
	}
	if _, ok := decoded.Estimands["backdoor"]; !ok {
		t.Errorf("expected a backdoor slot:\n%s", out)
	}
}

func TestIdentifyCommand_Table(t *testing.T) {
	spec := writeSpec(t, confoundedYAML)
	out := execute(t, "identify", "-f", spec, "--format", "table", "--save=false")

	if !strings.Contains(out, "Backdoor Adjustment") {
		t.Errorf("expected the method name in table output:\n%s", out)
	}
	if !strings.Contains(out, "adjust: Z") {
		t.Errorf("expected the adjustment set in table output:\n%s", out)
	}
}

func TestIdentifyCommand_SaveAndHistory(t *testing.T) {
	spec := writeSpec(t, confoundedYAML)
	dbPath := filepath.Join(t.TempDir(), ".causeway", "causeway.db")

	execute(t, "identify", "-f", spec, "--format", "json", "--save", "--store", dbPath)

	out := execute(t, "history", "--store", dbPath, "--limit", "10", "--id", "0")
	if !strings.Contains(out, "graph.yaml") {
		t.Errorf("expected the saved source in the listing:\n%s", out)
	}
	if !strings.Contains(out, "✓") {
		t.Errorf("expected an identified mark in the listing:\n%s", out)
	}

	out = execute(t, "history", "--store", dbPath, "--id", "1")
	if !strings.Contains(out, "\"identified\": true") {
		t.Errorf("expected the stored summary JSON:\n%s", out)
	}
}

func TestRolesCommand_Table(t *testing.T) {
	spec := writeSpec(t, confoundedYAML)
	out := execute(t, "roles", "-f", spec, "--format", "table")
	if !strings.Contains(out, "Common causes") || !strings.Contains(out, "Z") {
		t.Errorf("expected the derived common cause:\n%s", out)
	}
}

func TestCheckCommand(t *testing.T) {
	spec := writeSpec(t, `
treatment: [A]
outcome: [C]
edges:
  - {from: A, to: B}
  - {from: B, to: C}
`)
	out := execute(t, "check", "-f", spec, "--x", "A", "--y", "C", "--given", "B")
	if !strings.Contains(out, "are d-separated") {
		t.Errorf("expected a separation verdict:\n%s", out)
	}
}

func TestIdentifyCommand_UnknownFormat(t *testing.T) {
	spec := writeSpec(t, confoundedYAML)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"identify", "-f", spec, "--format", "xml", "--save=false"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
