// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

const (
	PI        = 3.1415926535897932  // Pi
	Re        = 6378137.0           // Earth's radius [m]
	Fe        = 1.0 / 298.257223563 // Earth's flattening
	FSPLConst = 27.55               // Free space path loss constant for [MHz] and [m]
	NDIM      = 3                   // Number of unknowns (x, y, z)
	MinRefs   = NDIM + 1            // Minimum number of references (pivot + 3 equations)
)
