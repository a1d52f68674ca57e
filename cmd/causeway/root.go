// causeway is the CLI: identify causal effects from a graph of
// assumptions, report derived variable roles, answer d-separation
// queries, and serve the engine over MCP.
//
// Usage:
//
//	causeway identify -f graph.yaml [--proceed-when-unidentifiable]
//	causeway roles -f graph.yaml
//	causeway check -f graph.yaml --x A --y B --given Z
//	causeway history [--id N]
//	causeway serve
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"causeway/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "causeway",
	Short: "Causal effect identification from graphical assumptions",
	Long: "Causeway formalizes causal assumptions as a graph and determines whether\nthe effect of a treatment on an outcome is identifiable from observed data,\nvia backdoor adjustment, instrumental variables, or the front-door criterion.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", logging.FormatText, "Log format (text, json)")

	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
