package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"causeway/internal/format"
	"causeway/internal/store"
)

var historyFlags struct {
	storePath string
	limit     int
	id        int64
	markdown  bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or show saved identification runs",
	Long: `History reads the analysis store written by "identify --save".
Without --id it lists recent runs; with --id it prints the stored
summary JSON for one run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.storePath, "store", store.DefaultDBPath, "Path to the history SQLite database")
	f.IntVar(&historyFlags.limit, "limit", 20, "Max runs to list (0 = all)")
	f.Int64Var(&historyFlags.id, "id", 0, "Show the stored summary for one run")
	f.BoolVar(&historyFlags.markdown, "markdown", false, "Render the listing as a Markdown table")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := store.Open(historyFlags.storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if historyFlags.id != 0 {
		rec, err := s.GetAnalysis(historyFlags.id)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(rec.Summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	recs, err := s.ListAnalyses(historyFlags.limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no saved analyses")
		return nil
	}

	mode := format.ASCII
	if historyFlags.markdown {
		mode = format.Markdown
	}
	tb := format.NewTable(mode)
	tb.Header("ID", "When", "Source", "Treatment → Outcome", "Identified")
	tb.Columns(format.ColumnConfig{Number: 1, AlignRight: true})
	for _, r := range recs {
		tb.Row(r.ID, r.CreatedAt, format.Truncate(r.Source, 40),
			fmt.Sprintf("%v → %v", r.Treatments, r.Outcomes),
			format.CheckMark(r.Identified))
	}
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())
	return nil
}
