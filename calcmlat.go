// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// Reference used as the linearization origin
type PivotMode int

const (
	PivotFirst  PivotMode = iota // Reference 0
	PivotSpread                  // Reference with the largest summed distance to the others
)

func (p *PivotMode) Set(s string) error {
	switch strings.ToLower(s) {
	case "first", "0":
		*p = PivotFirst
	case "spread", "1":
		*p = PivotSpread
	default:
		return fmt.Errorf("unknown pivot mode %q (first, spread)", s)
	}
	return nil
}

func (p *PivotMode) String() string {
	switch *p {
	case PivotFirst:
		return "first"
	case PivotSpread:
		return "spread"
	default:
		return "UNKNOWN!"
	}
}

func (p *PivotMode) Type() string {
	return "pivot"
}

// Least squares method
type LsMethod int

const (
	LsNormal LsMethod = iota // Normal equations, LU
	LsQR                     // QR decomposition of the design matrix
)

func (p *LsMethod) Set(s string) error {
	switch strings.ToLower(s) {
	case "normal", "0":
		*p = LsNormal
	case "qr", "1":
		*p = LsQR
	default:
		return fmt.Errorf("unknown least squares method %q (normal, qr)", s)
	}
	return nil
}

func (p *LsMethod) String() string {
	switch *p {
	case LsNormal:
		return "normal"
	case LsQR:
		return "qr"
	default:
		return "UNKNOWN!"
	}
}

func (p *LsMethod) Type() string {
	return "method"
}

// MlatOpt contains options for the multilateration calculation
type MlatOpt struct {
	Pivot   PivotMode // Linearization pivot selection
	Method  LsMethod  // Least squares method
	WghMode int       // Weighting scheme: 0(OFF), 1(1/d^2 by measured distance of each row)
}

// NewMlatOpt creates a new MlatOpt with default values
func NewMlatOpt() *MlatOpt {
	return &MlatOpt{
		Pivot:   PivotFirst, // Reference 0
		Method:  LsNormal,   // (A^t A)^-1 A^t b
		WghMode: 0,          // No weighting
	}
}

// MlatSol contains the results of the multilateration calculation
type MlatSol struct {
	Pos   PosXYZ        // Estimated position
	Pivot int           // Index of the reference used as pivot
	Cov   [3][3]float64 // (A^t W A)^-1
	Res   []float64     // Residual |Pos - ref_i| - d_i for each reference (input order)
	Rms   float64       // RMS of Res
	Dop   float64       // sqrt(trace(Cov))
}

// Multilaterate estimates the position whose distances to refs are dists.
// It is CalcMlat with default options.
// Degenerate geometry returns an error matching ErrNoSolution.
func Multilaterate(refs []PosXYZ, dists []float64) (PosXYZ, error) {
	sol, err := CalcMlat(refs, dists, nil)
	if err != nil {
		return PosXYZ{}, err
	}
	return sol.Pos, nil
}

// CalcMlat solves the linearized multilateration problem by least squares.
//
// With p the pivot reference, each other reference i gives the row
//
//	(ref_i - p) . x = (d_p^2 - d_i^2 + |ref_i - p|^2) / 2
//
// and the estimate is p + x.
func CalcMlat(refs []PosXYZ, dists []float64, opt *MlatOpt) (*MlatSol, error) {

	if opt == nil {
		opt = NewMlatOpt()
	}
	if err := checkInput(refs, dists); err != nil {
		return nil, err
	}

	pv := selectPivot(refs, opt.Pivot)
	order := pivotOrder(len(refs), pv)
	logger.Debug("pivot selected", "mode", opt.Pivot.String(), "index", pv, "ref", refs[pv].String())

	G, dr, W := buildEquations(refs, dists, order, opt.WghMode)
	logMat("A", G)
	logMat("b", dr)

	var dx mat.Vector
	var cov mat.Matrix
	var err error
	switch opt.Method {
	case LsQR:
		dx, cov, err = solveWeightedQR(G, dr, W)
	default:
		var Wm mat.Matrix
		if W != nil {
			Wm = W
		}
		dx, cov, err = SolveLS(G, dr, Wm)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: degenerate reference geometry: %w", ErrNoSolution, err)
	}

	pos := refs[pv].Add(PosXYZ{X: dx.AtVec(0), Y: dx.AtVec(1), Z: dx.AtVec(2)})
	if !pos.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite estimate", ErrNoSolution)
	}

	sol := &MlatSol{
		Pos:   pos,
		Pivot: pv,
		Res:   make([]float64, len(refs)),
	}
	for i := 0; i < NDIM; i++ {
		for j := 0; j < NDIM; j++ {
			sol.Cov[i][j] = cov.At(i, j)
		}
	}
	sol.Dop = math.Sqrt(sol.Cov[0][0] + sol.Cov[1][1] + sol.Cov[2][2])

	ss := 0.0
	for i := range refs {
		sol.Res[i] = EucDist(&pos, &refs[i]) - dists[i]
		ss += SQ(sol.Res[i])
	}
	sol.Rms = math.Sqrt(ss / float64(len(refs)))

	logger.Debug("multilateration solved", "pos", pos.String(), "rms", sol.Rms, "dop", sol.Dop)
	return sol, nil
}

// checkInput validates the caller contract
func checkInput(refs []PosXYZ, dists []float64) error {
	if len(refs) != len(dists) {
		return fmt.Errorf("%w: %d references but %d distances", ErrInvalidInput, len(refs), len(dists))
	}
	if len(refs) < MinRefs {
		return fmt.Errorf("%w: %d references, need at least %d", ErrInvalidInput, len(refs), MinRefs)
	}
	for i, d := range dists {
		if !isFinite(d) || d < 0 {
			return fmt.Errorf("%w: distance[%d] = %v", ErrInvalidInput, i, d)
		}
		if !refs[i].IsFinite() {
			return fmt.Errorf("%w: reference[%d] = %s", ErrInvalidInput, i, refs[i].String())
		}
	}
	return nil
}

// selectPivot returns the index of the linearization pivot
func selectPivot(refs []PosXYZ, mode PivotMode) int {
	if mode != PivotSpread {
		return 0
	}
	best, bestSum := 0, -1.0
	for i := range refs {
		sum := 0.0
		for j := range refs {
			sum += EucDist(&refs[i], &refs[j])
		}
		if sum > bestSum {
			best, bestSum = i, sum
		}
	}
	return best
}

// pivotOrder returns reference indices with the pivot first, the rest in input order
func pivotOrder(n, pv int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	idx = slices.Delete(idx, pv, pv+1)
	return slices.Insert(idx, 0, pv)
}

// buildEquations sets up A (n-1 x 3), b (n-1) and the weight matrix W (nil for unit weights)
func buildEquations(refs []PosXYZ, dists []float64, order []int, wghMode int) (*mat.Dense, *mat.VecDense, *mat.DiagDense) {

	p := refs[order[0]]
	dp := dists[order[0]]
	n := len(order) - 1

	G := mat.NewDense(n, NDIM, nil)
	dr := mat.NewVecDense(n, nil)
	var w []float64
	if wghMode == 1 {
		w = make([]float64, n)
	}

	for k, i := range order[1:] {
		d := refs[i].Sub(p)
		G.Set(k, 0, d.X)
		G.Set(k, 1, d.Y)
		G.Set(k, 2, d.Z)
		dr.SetVec(k, (SQ(dp)-SQ(dists[i])+SQ(d.Norm()))/2)
		if w != nil {
			// Distances below 1 m are weighted as 1 m
			w[k] = 1 / SQ(math.Max(dists[i], 1))
		}
	}

	if w == nil {
		return G, dr, nil
	}
	return G, dr, mat.NewDiagDense(n, w)
}

// solveWeightedQR scales each row by sqrt(w) and solves by QR
func solveWeightedQR(G *mat.Dense, dr *mat.VecDense, W *mat.DiagDense) (mat.Vector, mat.Matrix, error) {
	if W == nil {
		return SolveQR(G, dr)
	}
	n, _ := G.Dims()
	var Gw mat.Dense
	Gw.CloneFrom(G)
	var drw mat.VecDense
	drw.CloneFromVec(dr)
	for k := 0; k < n; k++ {
		s := math.Sqrt(W.At(k, k))
		row := Gw.RawRowView(k)
		for j := range row {
			row[j] *= s
		}
		drw.SetVec(k, drw.AtVec(k)*s)
	}
	return SolveQR(&Gw, &drw)
}
