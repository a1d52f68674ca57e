package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// confirmOnTerminal asks a yes/no question on stderr and reads the answer
// from stdin. This is the interactive implementation of the model's
// confirmation gate; non-interactive callers pass --assume-no-confounding
// instead.
func confirmOnTerminal(prompt string) bool {
	fmt.Fprintf(os.Stderr, "WARN: %s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// splitNames turns a comma-separated flag value into clean names.
func splitNames(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			out = append(out, name)
		}
	}
	return out
}
