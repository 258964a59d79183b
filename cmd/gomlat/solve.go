// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	m "github.com/mkhts/gomlat"
)

type solveOpt struct {
	refs   []string
	dists  []float64
	inFn   string
	pivot  m.PivotMode
	method m.LsMethod
	weight int
}

func newSolveCmd(ro *rootOpt) *cobra.Command {
	so := &solveOpt{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve for a position from reference points and distances",
		Long: `Solve for a position from reference points and distances.

References are given either as repeated --ref/--dist pairs
	gomlat solve --ref 0,0,0 --dist 1.5 --ref 3,0,0 --dist 1.5 ...
or as a file (--input, "-" for stdin) with one reference per line
	x y z distance
Lines starting with # are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := loggerFromContext(cmd.Context())

			opt, err := ro.cfg.MlatOpt()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pivot") {
				opt.Pivot = so.pivot
			}
			if cmd.Flags().Changed("method") {
				opt.Method = so.method
			}
			if cmd.Flags().Changed("weight") {
				opt.WghMode = so.weight
			}

			refs, dists, err := so.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			log.Debug("references loaded", "n", len(refs))

			sol, err := m.CalcMlat(refs, dists, opt)
			if err != nil {
				return err
			}
			printSol(cmd.OutOrStdout(), sol)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&so.refs, "ref", nil, "reference point \"x,y,z\" (repeat, paired with --dist)")
	cmd.Flags().Float64SliceVar(&so.dists, "dist", nil, "distance to the matching --ref (repeat)")
	cmd.Flags().StringVarP(&so.inFn, "input", "i", "", "reference file (x y z distance per line), - for stdin")
	cmd.Flags().Var(&so.pivot, "pivot", "linearization pivot: first, spread")
	cmd.Flags().Var(&so.method, "method", "least squares method: normal, qr")
	cmd.Flags().IntVarP(&so.weight, "weight", "w", 0, "weighting: 0(OFF), 1(1/d^2)")
	cmd.MarkFlagsMutuallyExclusive("input", "ref")
	return cmd
}

// Collect references from flags or the input file
func (so *solveOpt) load(stdin io.Reader) ([]m.PosXYZ, []float64, error) {

	if so.inFn != "" {
		if so.inFn == "-" {
			return readRefs(stdin)
		}
		f, err := os.Open(so.inFn)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		return readRefs(f)
	}

	if len(so.refs) != len(so.dists) {
		return nil, nil, fmt.Errorf("%d --ref but %d --dist", len(so.refs), len(so.dists))
	}
	refs := make([]m.PosXYZ, len(so.refs))
	for i, s := range so.refs {
		if err := refs[i].Set(s); err != nil {
			return nil, nil, fmt.Errorf("--ref #%d: %w", i+1, err)
		}
	}
	return refs, so.dists, nil
}

// Read "x y z distance" lines
func readRefs(r io.Reader) ([]m.PosXYZ, []float64, error) {
	refs := []m.PosXYZ{}
	dists := []float64{}
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(f) != 4 {
			return nil, nil, fmt.Errorf("line %d: need x y z distance, got %d fields", ln, len(f))
		}
		var v [4]float64
		for i := range f {
			x, err := strconv.ParseFloat(f[i], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", ln, err)
			}
			v[i] = x
		}
		refs = append(refs, m.PosXYZ{X: v[0], Y: v[1], Z: v[2]})
		dists = append(dists, v[3])
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return refs, dists, nil
}

// Print multilateration result
func printSol(w io.Writer, sol *m.MlatSol) {
	fmt.Fprintf(w, "pos   : %12.4f %12.4f %12.4f\n", sol.Pos.X, sol.Pos.Y, sol.Pos.Z)
	fmt.Fprintf(w, "pivot : %d\n", sol.Pivot)
	fmt.Fprintf(w, "rms   : %12.4f\n", sol.Rms)
	fmt.Fprintf(w, "dop   : %12.4f\n", sol.Dop)
}
