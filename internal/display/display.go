// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output and markdown reports. Keep raw codes
// for JSON fields, map keys, and equality comparisons.
package display

import "causeway/internal/identify"

var methodNames = map[identify.Method]string{
	identify.MethodBackdoor:  "Backdoor Adjustment",
	identify.MethodIV:        "Instrumental Variable",
	identify.MethodFrontdoor: "Front-Door Criterion",
}

// Method returns the human-readable name for an identification method.
// Unknown codes are returned as-is.
func Method(m identify.Method) string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return string(m)
}

// MethodWithCode returns "Backdoor Adjustment (backdoor)" format.
func MethodWithCode(m identify.Method) string {
	if name, ok := methodNames[m]; ok {
		return name + " (" + string(m) + ")"
	}
	return string(m)
}

var estimandTypes = map[string]string{
	identify.EstimandNonparametricATE: "Nonparametric ATE",
}

// EstimandType returns the human-readable name for an estimand type code.
func EstimandType(code string) string {
	if name, ok := estimandTypes[code]; ok {
		return name
	}
	return code
}

// ObservedTag formats an observability flag for variable listings.
func ObservedTag(observed bool) string {
	if observed {
		return "[observed]"
	}
	return "[unobserved]"
}
