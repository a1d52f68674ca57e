package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"causeway/internal/identify"
)

const confoundedSpec = `
treatment: [T]
outcome: [Y]
edges:
  - {from: Z, to: T}
  - {from: Z, to: Y}
  - {from: T, to: Y}
`

func loadSpec(t *testing.T, s *Server, spec string) loadGraphOutput {
	t.Helper()
	_, out, err := s.handleLoadGraph(context.Background(), nil, loadGraphInput{Spec: spec})
	if err != nil {
		t.Fatalf("load_graph: %v", err)
	}
	return out
}

func TestLoadGraph(t *testing.T) {
	s := NewServer()
	out := loadSpec(t, s, confoundedSpec)

	if len(out.Nodes) != 3 {
		t.Errorf("expected 3 nodes, got %v", out.Nodes)
	}
	if len(out.Treatments) != 1 || out.Treatments[0] != "T" {
		t.Errorf("treatments = %v", out.Treatments)
	}
}

func TestLoadGraph_FromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	if err := os.WriteFile(path, []byte(confoundedSpec), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}

	s := NewServer()
	_, out, err := s.handleLoadGraph(context.Background(), nil, loadGraphInput{Path: path})
	if err != nil {
		t.Fatalf("load_graph: %v", err)
	}
	if len(out.Nodes) != 3 {
		t.Errorf("expected 3 nodes, got %v", out.Nodes)
	}
}

func TestLoadGraph_InputValidation(t *testing.T) {
	s := NewServer()

	if _, _, err := s.handleLoadGraph(context.Background(), nil, loadGraphInput{}); err == nil {
		t.Error("expected an error when neither spec nor path is given")
	}
	_, _, err := s.handleLoadGraph(context.Background(), nil, loadGraphInput{Spec: confoundedSpec, Path: "x.yaml"})
	if err == nil {
		t.Error("expected an error when both spec and path are given")
	}

	// Structural errors surface at load time, not first query.
	_, _, err = s.handleLoadGraph(context.Background(), nil, loadGraphInput{
		Spec: "treatment: [T]\noutcome: [Y]\nedges:\n  - {from: T, to: Y}\n  - {from: Y, to: T}\n",
	})
	if err == nil {
		t.Error("expected a cycle error at load time")
	}
}

func TestIdentifyEffect(t *testing.T) {
	s := NewServer()
	loadSpec(t, s, confoundedSpec)

	_, out, err := s.handleIdentifyEffect(context.Background(), nil, identifyEffectInput{})
	if err != nil {
		t.Fatalf("identify_effect: %v", err)
	}
	if !out.Result.Identified {
		t.Error("effect should be identified via backdoor on Z")
	}
	bd := out.Result.Estimands[identify.MethodBackdoor]
	if bd == nil || len(bd.AdjustmentSet) != 1 || bd.AdjustmentSet[0] != "Z" {
		t.Errorf("backdoor estimand = %+v", bd)
	}
}

func TestIdentifyEffect_ProceedFlag(t *testing.T) {
	s := NewServer()
	loadSpec(t, s, `
treatment: [T]
outcome: [Y]
nodes:
  - {name: U, unobserved: true}
edges:
  - {from: U, to: T}
  - {from: U, to: Y}
  - {from: T, to: Y}
`)

	_, out, err := s.handleIdentifyEffect(context.Background(), nil, identifyEffectInput{})
	if err != nil {
		t.Fatalf("identify_effect: %v", err)
	}
	if out.Result.Identified {
		t.Error("unobserved confounding should block identification")
	}

	_, out, err = s.handleIdentifyEffect(context.Background(), nil,
		identifyEffectInput{ProceedWhenUnidentifiable: true})
	if err != nil {
		t.Fatalf("identify_effect: %v", err)
	}
	found := false
	for _, n := range out.Result.Notes {
		if strings.Contains(n, "proceeding under caution") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the caution note, got %v", out.Result.Notes)
	}
}

func TestVariableRoles(t *testing.T) {
	s := NewServer()
	loadSpec(t, s, `
treatment: [T]
outcome: [Y]
edges:
  - {from: W, to: T}
  - {from: Z, to: T}
  - {from: Z, to: Y}
  - {from: T, to: Y}
`)

	_, out, err := s.handleVariableRoles(context.Background(), nil, variableRolesInput{})
	if err != nil {
		t.Fatalf("get_variable_roles: %v", err)
	}
	if len(out.CommonCauses) != 1 || out.CommonCauses[0] != "Z" {
		t.Errorf("common causes = %v", out.CommonCauses)
	}
	if len(out.Instruments) != 1 || out.Instruments[0] != "W" {
		t.Errorf("instruments = %v", out.Instruments)
	}
}

func TestCheckSeparation(t *testing.T) {
	s := NewServer()
	loadSpec(t, s, `
treatment: [A]
outcome: [C]
edges:
  - {from: A, to: B}
  - {from: B, to: C}
`)

	_, out, err := s.handleCheckSeparation(context.Background(), nil, checkSeparationInput{
		X: []string{"A"}, Y: []string{"C"},
	})
	if err != nil {
		t.Fatalf("check_separation: %v", err)
	}
	if out.Separated {
		t.Error("A and C are connected through B")
	}

	_, out, err = s.handleCheckSeparation(context.Background(), nil, checkSeparationInput{
		X: []string{"A"}, Y: []string{"C"}, Conditioning: []string{"B"},
	})
	if err != nil {
		t.Fatalf("check_separation: %v", err)
	}
	if !out.Separated {
		t.Error("conditioning on B should separate A and C")
	}

	if _, _, err := s.handleCheckSeparation(context.Background(), nil, checkSeparationInput{X: []string{"A"}}); err == nil {
		t.Error("expected an error for a missing y set")
	}
}

func TestToolsRequireLoadedGraph(t *testing.T) {
	s := NewServer()
	if _, _, err := s.handleIdentifyEffect(context.Background(), nil, identifyEffectInput{}); err == nil {
		t.Error("identify_effect must fail before load_graph")
	}
	if _, _, err := s.handleVariableRoles(context.Background(), nil, variableRolesInput{}); err == nil {
		t.Error("get_variable_roles must fail before load_graph")
	}
	if _, _, err := s.handleCheckSeparation(context.Background(), nil, checkSeparationInput{
		X: []string{"A"}, Y: []string{"B"},
	}); err == nil {
		t.Error("check_separation must fail before load_graph")
	}
}

func TestWatchParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	WatchParent(ctx, cancel)
	// The goroutine must exit quietly when the context is canceled.
	cancel()
}
