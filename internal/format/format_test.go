package format_test

import (
	"strings"
	"testing"

	"causeway/internal/format"
	"causeway/internal/identify"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Method", "Identified")
	tb.Row("Backdoor Adjustment", "✓")
	out := tb.String()

	if !strings.Contains(out, "Method") {
		t.Errorf("expected header in output:\n%s", out)
	}
	if !strings.Contains(out, "Backdoor Adjustment") {
		t.Errorf("expected row content in output:\n%s", out)
	}
	// StyleLight uses box-drawing characters.
	if !strings.Contains(out, "───") {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Role", "Variables")
	tb.Row("Common causes", "Z1, Z2")
	out := tb.String()

	if !strings.Contains(out, "| Role") {
		t.Errorf("expected markdown header:\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	s := identify.Summary{
		Treatments:   []string{"T"},
		Outcomes:     []string{"Y"},
		EstimandType: identify.EstimandNonparametricATE,
		Identified:   true,
		Estimands: map[identify.Method]*identify.Estimand{
			identify.MethodBackdoor: {
				Method:        identify.MethodBackdoor,
				Expression:    "E[Y|do(T)] = Σ_{Z} E[Y|T,Z]·P(Z)",
				AdjustmentSet: []string{"Z"},
			},
			identify.MethodIV:        nil,
			identify.MethodFrontdoor: nil,
		},
		Notes: []string{"iv: no valid instrument for treatment"},
	}

	out := format.Summary(s, format.ASCII)
	if !strings.Contains(out, "Backdoor Adjustment") {
		t.Errorf("expected backdoor row:\n%s", out)
	}
	if !strings.Contains(out, "adjust: Z") {
		t.Errorf("expected adjustment set:\n%s", out)
	}
	if !strings.Contains(out, "Nonparametric ATE") {
		t.Errorf("expected estimand type line:\n%s", out)
	}
	if !strings.Contains(out, "no valid instrument") {
		t.Errorf("expected notes section:\n%s", out)
	}
}

func TestRoles(t *testing.T) {
	out := format.Roles([]string{"Z"}, nil, nil, format.ASCII)
	if !strings.Contains(out, "Common causes") || !strings.Contains(out, "Z") {
		t.Errorf("expected common causes row:\n%s", out)
	}
	if !strings.Contains(out, "-") {
		t.Errorf("expected dash for empty role sets:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := format.Truncate("abcdef", 5); got != "ab..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := format.Truncate("abc", 5); got != "abc" {
		t.Errorf("Truncate should leave short strings alone, got %q", got)
	}
	if got := format.Truncate("abcdef", 2); got != "ab" {
		t.Errorf("Truncate with tiny max = %q", got)
	}
}

func TestCheckMark(t *testing.T) {
	if format.CheckMark(true) != "✓" || format.CheckMark(false) != "✗" {
		t.Error("unexpected check marks")
	}
}
