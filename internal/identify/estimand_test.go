package identify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"causeway/internal/graph"
)

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(string(m))
		if err != nil {
			t.Errorf("ParseMethod(%q): %v", m, err)
		}
		if got != m {
			t.Errorf("ParseMethod(%q) = %q", m, got)
		}
	}
	if _, err := ParseMethod("propensity"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestSetIdentifierMethod(t *testing.T) {
	g := buildGraph(t, []string{"T"}, []string{"Y"}, graph.WithEdges(
		graph.Edge{From: "Z", To: "T"},
		graph.Edge{From: "Z", To: "Y"},
		graph.Edge{From: "T", To: "Y"},
	))
	result := identify(t, g)

	if err := result.SetIdentifierMethod(MethodBackdoor); err != nil {
		t.Fatalf("selecting the populated backdoor slot: %v", err)
	}
	m, ok := result.IdentifierMethod()
	if !ok || m != MethodBackdoor {
		t.Errorf("IdentifierMethod = %q, %v", m, ok)
	}

	if err := result.SetIdentifierMethod(MethodIV); !errors.Is(err, ErrNotIdentified) {
		t.Errorf("selecting an empty slot: expected ErrNotIdentified, got %v", err)
	}
	if err := result.SetIdentifierMethod(Method("magic")); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("selecting an unknown method: expected ErrUnknownMethod, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	g := buildGraph(t, []string{"T"}, []string{"Y"}, graph.WithEdges(
		graph.Edge{From: "Z", To: "T"},
		graph.Edge{From: "Z", To: "Y"},
		graph.Edge{From: "T", To: "Y"},
	))
	result := identify(t, g)
	s := result.Summary()

	if !s.Identified {
		t.Error("summary should report identified")
	}
	if s.EstimandType != EstimandNonparametricATE {
		t.Errorf("estimand type = %q", s.EstimandType)
	}
	// Failed methods stay in the map as nils so the JSON shows the
	// attempt explicitly.
	if _, present := s.Estimands[MethodIV]; !present {
		t.Error("iv slot should be present even when empty")
	}
	if s.Estimands[MethodIV] != nil {
		t.Error("iv slot should be nil")
	}

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	estimands, ok := decoded["estimands"].(map[string]any)
	if !ok {
		t.Fatalf("estimands missing from %s", raw)
	}
	if v, present := estimands["iv"]; !present || v != nil {
		t.Errorf("iv should serialize as an explicit null, got %v", v)
	}
}

func TestIdentifiedEstimandAccessors(t *testing.T) {
	g := buildGraph(t, []string{"T"}, []string{"Y"}, graph.WithEdges(
		graph.Edge{From: "T", To: "Y"},
	))
	result, err := New(g).IdentifyEffect(context.Background())
	if err != nil {
		t.Fatalf("IdentifyEffect: %v", err)
	}
	if got := result.Treatments(); len(got) != 1 || got[0] != "T" {
		t.Errorf("Treatments = %v", got)
	}
	if got := result.Outcomes(); len(got) != 1 || got[0] != "Y" {
		t.Errorf("Outcomes = %v", got)
	}
	if _, ok := result.IdentifierMethod(); ok {
		t.Error("no identifier method should be selected before estimation")
	}
}

func TestForEachCombination(t *testing.T) {
	var got [][]int
	err := forEachCombination(4, 2, func(idx []int) (bool, error) {
		got = append(got, append([]int(nil), idx...))
		return false, nil
	})
	if err != nil {
		t.Fatalf("forEachCombination: %v", err)
	}
	want := [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if len(got) != len(want) {
		t.Fatalf("got %d combinations, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("combination %d = %v, want %v", i, got[i], want[i])
			}
		}
	}

	// Early stop after the second combination.
	calls := 0
	err = forEachCombination(4, 2, func(idx []int) (bool, error) {
		calls++
		return calls == 2, nil
	})
	if err != nil {
		t.Fatalf("forEachCombination: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected early stop after 2 calls, got %d", calls)
	}

	// k larger than n enumerates nothing.
	if err := forEachCombination(2, 3, func([]int) (bool, error) {
		t.Fatal("callback must not run for k > n")
		return false, nil
	}); err != nil {
		t.Fatalf("forEachCombination: %v", err)
	}
}
