package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"causeway/internal/format"
	"causeway/internal/graphspec"
	"causeway/internal/model"
	"causeway/internal/store"
)

var identifyFlags struct {
	specPath     string
	outPath      string
	outFormat    string
	estimandType string
	proceed      bool
	assumeNone   bool
	maxAdjust    int
	save         bool
	storePath    string
}

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Identify the causal effect described by a graph spec",
	Long: `Identify runs backdoor, instrumental-variable and front-door
identification on a graph spec and prints the resulting estimands as JSON.

An empty estimand slot means "not identifiable by this method"; the run
still succeeds. Structural problems in the graph (unknown nodes, cycles)
fail immediately.`,
	Args: cobra.NoArgs,
	RunE: runIdentify,
}

func init() {
	f := identifyCmd.Flags()
	f.StringVarP(&identifyFlags.specPath, "file", "f", "", "Path to graph spec (YAML/JSON)")
	f.StringVarP(&identifyFlags.outPath, "output", "o", "", "Write result JSON to file instead of stdout")
	f.StringVar(&identifyFlags.estimandType, "estimand-type", "", "Target estimand type (default nonparametric-ate)")
	f.BoolVar(&identifyFlags.proceed, "proceed-when-unidentifiable", false, "Search observed adjustment sets despite unobserved confounders")
	f.BoolVar(&identifyFlags.assumeNone, "assume-no-confounding", false, "Proceed when the spec declares no graph, common causes or instruments")
	f.IntVar(&identifyFlags.maxAdjust, "max-adjustment-size", 0, "Bound on backdoor adjustment set size (0 = unbounded)")
	f.StringVar(&identifyFlags.outFormat, "format", "json", "Output format: json, table or markdown")
	f.BoolVar(&identifyFlags.save, "save", false, "Append the result to the analysis history store")
	f.StringVar(&identifyFlags.storePath, "store", store.DefaultDBPath, "Path to the history SQLite database")
	identifyCmd.MarkFlagRequired("file") //nolint:errcheck
}

func runIdentify(cmd *cobra.Command, _ []string) error {
	spec, err := graphspec.LoadFromPath(identifyFlags.specPath)
	if err != nil {
		return err
	}

	opts := []model.Option{
		model.WithMaxAdjustmentSize(identifyFlags.maxAdjust),
	}
	if identifyFlags.estimandType != "" {
		opts = append(opts, model.WithEstimandType(identifyFlags.estimandType))
	}
	if identifyFlags.proceed {
		opts = append(opts, model.ProceedWhenUnidentifiable())
	}
	if identifyFlags.assumeNone {
		opts = append(opts, model.WithConfirm(func(string) bool { return true }))
	} else {
		opts = append(opts, model.WithConfirm(confirmOnTerminal))
	}

	m, err := spec.Model(opts...)
	if err != nil {
		return err
	}
	ie, err := m.IdentifyEffect(cmd.Context())
	if err != nil {
		return err
	}

	summary := ie.Summary()

	if identifyFlags.save {
		s, err := store.Open(identifyFlags.storePath)
		if err != nil {
			return err
		}
		defer s.Close()
		id, err := s.SaveAnalysis(&store.Record{
			Source:     identifyFlags.specPath,
			Treatments: summary.Treatments,
			Outcomes:   summary.Outcomes,
			Identified: summary.Identified,
			Summary:    summary,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved analysis %d to %s\n", id, identifyFlags.storePath)
	}

	var out []byte
	switch identifyFlags.outFormat {
	case "json":
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		out = append(data, '\n')
	case "table":
		out = []byte(format.Summary(summary, format.ASCII) + "\n")
	case "markdown":
		out = []byte(format.Summary(summary, format.Markdown) + "\n")
	default:
		return fmt.Errorf("unknown format %q (use json, table or markdown)", identifyFlags.outFormat)
	}

	if identifyFlags.outPath != "" {
		return os.WriteFile(identifyFlags.outPath, out, 0644)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
