package format

import (
	"strings"

	"causeway/internal/display"
	"causeway/internal/identify"
)

// Summary renders an identification summary as a table, one row per
// method in attempt order, followed by the accumulated notes.
func Summary(s identify.Summary, m Mode) string {
	tb := NewTable(m)
	tb.Header("Method", "Identified", "Variables", "Expression")
	tb.Columns(ColumnConfig{Number: 4, MaxWidth: 60})

	for _, method := range identify.Methods() {
		est := s.Estimands[method]
		if est == nil {
			tb.Row(display.Method(method), CheckMark(false), "", "")
			continue
		}
		tb.Row(display.Method(method), CheckMark(true), estimandVars(est), est.Expression)
	}

	var b strings.Builder
	b.WriteString(tb.String())
	b.WriteString("\n\nEstimand type: ")
	b.WriteString(display.EstimandType(s.EstimandType))
	if len(s.Notes) > 0 {
		b.WriteString("\n\nNotes:\n")
		for _, n := range s.Notes {
			b.WriteString("  - ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func estimandVars(est *identify.Estimand) string {
	switch {
	case len(est.AdjustmentSet) > 0:
		return "adjust: " + strings.Join(est.AdjustmentSet, ", ")
	case len(est.InstrumentSet) > 0:
		return "instruments: " + strings.Join(est.InstrumentSet, ", ")
	case len(est.MediatorSet) > 0:
		return "mediators: " + strings.Join(est.MediatorSet, ", ")
	}
	return "adjust: (none needed)"
}

// Roles renders the derived variable roles as a table.
func Roles(common, instruments, modifiers []string, m Mode) string {
	tb := NewTable(m)
	tb.Header("Role", "Variables")
	tb.Row("Common causes", joinOrDash(common))
	tb.Row("Instruments", joinOrDash(instruments))
	tb.Row("Effect modifiers", joinOrDash(modifiers))
	return tb.String()
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
