// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	m "github.com/mkhts/gomlat"
)

// Corners of a cube with edge 3 [m]
func demoRefs() []m.PosXYZ {
	return []m.PosXYZ{
		{X: 0, Y: 0, Z: 0},
		{X: 3, Y: 0, Z: 0},
		{X: 0, Y: 3, Z: 0},
		{X: 3, Y: 3, Z: 0},
		{X: 0, Y: 0, Z: 3},
		{X: 3, Y: 0, Z: 3},
		{X: 0, Y: 3, Z: 3},
		{X: 3, Y: 3, Z: 3},
	}
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Solve with the eight corners of a cube, each 1.5 m away",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := demoRefs()
			dists := make([]float64, len(refs))
			for i := range dists {
				dists[i] = 1.5
			}
			sol, err := m.CalcMlat(refs, dists, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "trilateration result:")
			printSol(cmd.OutOrStdout(), sol)
			return nil
		},
	}
}
