package graphspec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"causeway/internal/identify"
)

const yamlSpec = `
treatment: [T]
outcome: [Y]
nodes:
  - name: U
    unobserved: true
edges:
  - {from: Z, to: T}
  - {from: Z, to: Y}
  - {from: U, to: T}
  - {from: U, to: Y}
  - {from: T, to: Y}
`

const jsonSpec = `{
  "treatment": ["T"],
  "outcome": ["Y"],
  "common_causes": ["Z"],
  "instruments": ["W"]
}`

func TestLoad_YAML(t *testing.T) {
	s, err := Load([]byte(yamlSpec), ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"T"}, s.Treatment); diff != "" {
		t.Errorf("treatment mismatch (-want +got):\n%s", diff)
	}
	if len(s.Edges) != 5 {
		t.Errorf("expected 5 edges, got %d", len(s.Edges))
	}
	if len(s.Nodes) != 1 || !s.Nodes[0].Unobserved {
		t.Errorf("expected one unobserved node, got %+v", s.Nodes)
	}
}

func TestLoad_JSON(t *testing.T) {
	s, err := Load([]byte(jsonSpec), ".json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"Z"}, s.CommonCauses); diff != "" {
		t.Errorf("common causes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"W"}, s.Instruments); diff != "" {
		t.Errorf("instruments mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ContentDetection(t *testing.T) {
	if _, err := Load([]byte(jsonSpec), ""); err != nil {
		t.Errorf("JSON content should be detected without an extension: %v", err)
	}
	if _, err := Load([]byte(yamlSpec), ""); err != nil {
		t.Errorf("YAML content should be detected without an extension: %v", err)
	}
	if _, err := Load([]byte(yamlSpec), ".yml"); err != nil {
		t.Errorf(".yml should parse as YAML: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	if err := os.WriteFile(path, []byte(yamlSpec), 0o644); err != nil {
		t.Fatalf("write spec file: %v", err)
	}

	s, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if len(s.Edges) != 5 {
		t.Errorf("expected 5 edges, got %d", len(s.Edges))
	}

	if _, err := LoadFromPath(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{"valid", Spec{Treatment: []string{"T"}, Outcome: []string{"Y"}}, false},
		{"missing treatment", Spec{Outcome: []string{"Y"}}, true},
		{"missing outcome", Spec{Treatment: []string{"T"}}, true},
		{
			"half edge",
			Spec{Treatment: []string{"T"}, Outcome: []string{"Y"}, Edges: []EdgeSpec{{From: "T"}}},
			true,
		},
		{
			"half bidirected pair",
			Spec{Treatment: []string{"T"}, Outcome: []string{"Y"}, Bidirected: []EdgeSpec{{To: "Y"}}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpec_ModelRoundTrip(t *testing.T) {
	s, err := Load([]byte(yamlSpec), ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	m, err := s.Model()
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if m.Graph().Observed("U") {
		t.Error("U should be unobserved")
	}

	result, err := m.IdentifyEffect(context.Background())
	if err != nil {
		t.Fatalf("IdentifyEffect: %v", err)
	}
	if _, ok := result.Estimand(identify.MethodBackdoor); ok {
		t.Error("backdoor must fail: U confounds T and Y")
	}
}

func TestSpec_ModelValidatesFirst(t *testing.T) {
	s := &Spec{Outcome: []string{"Y"}}
	if _, err := s.Model(); err == nil {
		t.Fatal("expected a validation error")
	}
}
