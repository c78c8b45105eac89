package main

import (
	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/spf13/cobra"
)

// oracleParams is the fixed regression case: a 1 km rocky body at 20 km/s, vertical.
var oracleParams = domain.ImpactParameters{Diameter: 1000, Velocity: 20, Angle: 90, Density: 2600}

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Print full-precision results for the regression reference case",
	Long: "oracle prints the unrounded impact result for a 1000 m, 20 km/s, 90 degree, " +
		"2600 kg/m3 impactor. The values are the literals pinned by the impact model tests.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd.OutOrStdout(), struct {
			Parameters domain.ImpactParameters `json:"parameters"`
			Result     domain.ImpactResult     `json:"result"`
		}{oracleParams, domain.Compute(oracleParams)})
	},
}
