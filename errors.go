// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import "errors"

var (
	// ErrInvalidInput reports a caller contract violation:
	// mismatched lengths, too few references or unusable distances.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSolution reports degenerate reference geometry (singular normal matrix).
	ErrNoSolution = errors.New("no solution")
)
