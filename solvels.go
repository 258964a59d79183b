// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Solve the observation equation using weighted least squares
// - dx = (G^t W G)^-1 G^t W dr
// - Return the error covariance matrix (G^t W G)^-1 as cov
// - W == nil means unit weights
func SolveLS(G mat.Matrix, dr mat.Vector, W mat.Matrix) (dx mat.Vector, cov mat.Matrix, err error) {

	n, m := G.Dims()
	if l := dr.Len(); l != n {
		return nil, nil, fmt.Errorf("invalid matrix size. G(%d x %d), dr(%d x 1)", n, m, l)
	}
	if W == nil {
		W = eye(n)
	}
	if r, c := W.Dims(); r != n || c != n {
		return nil, nil, fmt.Errorf("invalid matrix size. G(%d x %d), W(%d x %d)", n, m, r, c)
	}

	// A (G^t W G)
	var WG mat.Dense
	WG.Mul(W, G)
	var A mat.Dense
	A.Mul(G.T(), &WG)
	logMat("G^t W G", &A)

	// b (G^t W dr)
	var GtW mat.Dense
	GtW.Mul(G.T(), W)
	var b mat.VecDense
	b.MulVec(&GtW, dr)

	// Solve for x (x = A^-1 b). An ill-conditioned A is reported as mat.Condition.
	var x mat.VecDense
	if err = x.SolveVec(&A, &b); err != nil {
		return nil, nil, err
	}

	// Set (G^T W G)^-1 as the covariance matrix
	var c mat.Dense
	if err = c.Inverse(&A); err != nil {
		return nil, nil, err
	}

	return &x, &c, nil
}

// Solve min |G dx - dr| by QR decomposition of G without forming the normal matrix.
// cov is (G^t G)^-1 = (R^t R)^-1.
func SolveQR(G mat.Matrix, dr mat.Vector) (dx mat.Vector, cov mat.Matrix, err error) {

	n, m := G.Dims()
	if l := dr.Len(); l != n {
		return nil, nil, fmt.Errorf("invalid matrix size. G(%d x %d), dr(%d x 1)", n, m, l)
	}
	if n < m {
		return nil, nil, fmt.Errorf("underdetermined system. G(%d x %d)", n, m)
	}

	var qr mat.QR
	qr.Factorize(G)

	var x mat.VecDense
	if err = qr.SolveVecTo(&x, false, dr); err != nil {
		return nil, nil, err
	}

	var R mat.Dense
	qr.RTo(&R)
	var RtR mat.Dense
	RtR.Mul(R.T(), &R)
	var c mat.Dense
	if err = c.Inverse(&RtR); err != nil {
		return nil, nil, err
	}

	return &x, &c, nil
}

func eye(n int) *mat.DiagDense {
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}
	return mat.NewDiagDense(n, d)
}
