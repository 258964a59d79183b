// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import "math"

// PathLossModel converts received signal strength to distance by free space path loss
//
//	d = 10^((K - 20 log10(f) + |s|) / 20)
//
// with f in [MHz], s in [dBm] and d in [m].
type PathLossModel struct {
	K float64 // Path loss constant [dB]
}

func NewPathLossModel() *PathLossModel {
	return &PathLossModel{K: FSPLConst}
}

// Distance [m] from frequency [MHz] and signal level [dBm]
func (m *PathLossModel) Distance(freq, signal float64) float64 {
	return math.Pow(10, (m.K-20*math.Log10(freq)+math.Abs(signal))/20)
}

// SignalDistance uses the free space constant FSPLConst
func SignalDistance(freq, signal float64) float64 {
	return NewPathLossModel().Distance(freq, signal)
}
