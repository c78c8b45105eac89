package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Run every built-in impact scenario",
	RunE: func(cmd *cobra.Command, _ []string) error {
		presets, err := domain.Presets()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tENERGY (Mt)\tCRATER (km)\tBLAST (km)\tSEISMIC\tSEVERITY")
		for _, p := range presets {
			r := domain.Compute(p.Parameters()).Rounded()
			fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%s\n",
				p.ID, p.Name, r.KineticEnergyMt, r.CraterDiameterKm, r.BlastRadiusKm, r.SeismicMagnitude, r.Severity)
		}
		return tw.Flush()
	},
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Print the mitigation strategy catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		strategies, err := domain.MitigationStrategies()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), strategies)
	},
}
