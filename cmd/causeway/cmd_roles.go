package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"causeway/internal/format"
	"causeway/internal/graphspec"
	"causeway/internal/model"
)

var rolesFlags struct {
	specPath  string
	outFormat string
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Derive variable roles from a graph spec",
	Long: `Roles prints the common causes, valid instruments and effect modifiers
that the supplied graph implies for its treatment/outcome pair. When the
spec declares role sets instead of a graph, the derived roles echo the
declarations plus anything the synthesized structure implies.`,
	Args: cobra.NoArgs,
	RunE: runRoles,
}

func init() {
	rolesCmd.Flags().StringVarP(&rolesFlags.specPath, "file", "f", "", "Path to graph spec (YAML/JSON)")
	rolesCmd.Flags().StringVar(&rolesFlags.outFormat, "format", "json", "Output format: json, table or markdown")
	rolesCmd.MarkFlagRequired("file") //nolint:errcheck
}

func runRoles(cmd *cobra.Command, _ []string) error {
	spec, err := graphspec.LoadFromPath(rolesFlags.specPath)
	if err != nil {
		return err
	}
	m, err := spec.Model(model.WithConfirm(confirmOnTerminal))
	if err != nil {
		return err
	}

	common, err := m.CommonCauses()
	if err != nil {
		return err
	}
	instruments, err := m.Instruments()
	if err != nil {
		return err
	}
	modifiers, err := m.EffectModifiers()
	if err != nil {
		return err
	}

	switch rolesFlags.outFormat {
	case "table":
		fmt.Fprintln(cmd.OutOrStdout(), format.Roles(common, instruments, modifiers, format.ASCII))
		return nil
	case "markdown":
		fmt.Fprintln(cmd.OutOrStdout(), format.Roles(common, instruments, modifiers, format.Markdown))
		return nil
	case "json":
	default:
		return fmt.Errorf("unknown format %q (use json, table or markdown)", rolesFlags.outFormat)
	}

	out := struct {
		Treatments      []string `json:"treatments"`
		Outcomes        []string `json:"outcomes"`
		CommonCauses    []string `json:"common_causes"`
		Instruments     []string `json:"instruments"`
		EffectModifiers []string `json:"effect_modifiers"`
	}{
		Treatments:      m.Treatments(),
		Outcomes:        m.Outcomes(),
		CommonCauses:    common,
		Instruments:     instruments,
		EffectModifiers: modifiers,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
