package identify

import (
	"errors"
	"fmt"
)

// Method is an identification method. The set is closed: unknown names
// are rejected at the boundary by ParseMethod rather than discovered as
// missing map keys downstream.
type Method string

const (
	MethodBackdoor  Method = "backdoor"
	MethodIV        Method = "iv"
	MethodFrontdoor Method = "frontdoor"
)

// Methods returns all supported identification methods in attempt order.
func Methods() []Method {
	return []Method{MethodBackdoor, MethodIV, MethodFrontdoor}
}

var (
	// ErrUnknownMethod is returned for a method name outside the closed set.
	ErrUnknownMethod = errors.New("identify: unknown identification method")

	// ErrUnsupportedEstimandType is returned for any estimand type other
	// than nonparametric-ate.
	ErrUnsupportedEstimandType = errors.New("identify: unsupported estimand type")

	// ErrNotIdentified is returned when a caller selects a method whose
	// estimand slot is empty.
	ErrNotIdentified = errors.New("identify: method yielded no estimand")
)

// ParseMethod validates a method name from an external boundary.
func ParseMethod(name string) (Method, error) {
	for _, m := range Methods() {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}
