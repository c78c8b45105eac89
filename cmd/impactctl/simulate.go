package main

import (
	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/spf13/cobra"
)

var (
	simDiameter    float64
	simVelocity    float64
	simAngle       float64
	simDensity     float64
	simComposition string
	simExact       bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Compute impact effects for one impactor",
	Long:  "simulate validates the impactor parameters and prints the impact result as JSON.",
	Example: `  impactctl simulate --diameter 340 --velocity 12.6 --angle 45 --composition rocky
  impactctl simulate --diameter 50 --velocity 15 --angle 45 --density 2000 --exact`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := domain.SimulationRequest{Composition: simComposition}
		flags := cmd.Flags()
		if flags.Changed("diameter") {
			req.Diameter = &simDiameter
		}
		if flags.Changed("velocity") {
			req.Velocity = &simVelocity
		}
		if flags.Changed("angle") {
			req.Angle = &simAngle
		}
		if flags.Changed("density") {
			req.Density = &simDensity
		}

		params, err := req.Resolve()
		if err != nil {
			return err
		}
		result := domain.Compute(params)
		if !simExact {
			result = result.Rounded()
		}
		return printJSON(cmd.OutOrStdout(), struct {
			Parameters domain.ImpactParameters `json:"parameters"`
			Result     domain.ImpactResult     `json:"result"`
		}{params, result})
	},
}

func init() {
	f := simulateCmd.Flags()
	f.Float64Var(&simDiameter, "diameter", 0, "impactor diameter in meters")
	f.Float64Var(&simVelocity, "velocity", 0, "impact velocity in km/s")
	f.Float64Var(&simAngle, "angle", 90, "entry angle in degrees, (0, 90]")
	f.Float64Var(&simDensity, "density", 0, "bulk density in kg/m3")
	f.StringVar(&simComposition, "composition", "", "composition class: rocky, metallic or icy")
	f.BoolVar(&simExact, "exact", false, "print full-precision values instead of rounded ones")
	simulateCmd.MarkFlagsMutuallyExclusive("density", "composition")
	simulateCmd.MarkFlagsOneRequired("density", "composition")
	_ = simulateCmd.MarkFlagRequired("diameter")
	_ = simulateCmd.MarkFlagRequired("velocity")
}
