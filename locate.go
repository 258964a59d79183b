// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import "fmt"

// LocOpt contains options for locating a device from a wireless scan
type LocOpt struct {
	Mlat      *MlatOpt       // Multilateration options
	Model     *PathLossModel // Signal level to distance conversion
	MinSignal float64        // Signal level mask [dBm]. 0 means no mask
}

// NewLocOpt creates a new LocOpt with default values
func NewLocOpt() *LocOpt {
	return &LocOpt{
		Mlat:      NewMlatOpt(),
		Model:     NewPathLossModel(),
		MinSignal: 0,
	}
}

// LocSol contains the result of Locate
type LocSol struct {
	*MlatSol
	Used  []string  // BSSIDs passed to the solver, in order
	Dists []float64 // Distances [m] derived from signal levels, same order as Used
	Llh   *PosLLH   // Geodetic position, when the table has an origin
}

// Locate estimates the device position from scan records and the access point table.
func Locate(recs []ScanRec, db *APDB, opt *LocOpt) (*LocSol, error) {

	if opt == nil {
		opt = NewLocOpt()
	}
	model := opt.Model
	if model == nil {
		model = NewPathLossModel()
	}

	refs := []PosXYZ{}
	sol := &LocSol{Used: []string{}, Dists: []float64{}}

	for _, r := range Strongest(recs) {
		if opt.MinSignal != 0 && r.Signal < opt.MinSignal {
			logger.Debug("signal mask", "bssid", r.BSSID, "signal", r.Signal, "mask", opt.MinSignal)
			continue
		}
		ap, ok := db.Lookup(r.BSSID)
		if !ok {
			logger.Debug("unknown access point", "bssid", r.BSSID, "ssid", r.SSID)
			continue
		}
		if r.Freq <= 0 {
			logger.Debug("invalid frequency", "bssid", r.BSSID, "freq", r.Freq)
			continue
		}
		d := model.Distance(r.Freq, r.Signal)
		logger.Debug("reference", "bssid", r.BSSID, "name", ap.Name, "freq", r.Freq, "signal", r.Signal, "dist", d)
		refs = append(refs, ap.Pos)
		sol.Used = append(sol.Used, ap.BSSID)
		sol.Dists = append(sol.Dists, d)
	}

	if len(refs) < MinRefs {
		return nil, fmt.Errorf("%w: %d usable access points of %d scanned, need at least %d", ErrInvalidInput, len(refs), len(recs), MinRefs)
	}

	ms, err := CalcMlat(refs, sol.Dists, opt.Mlat)
	if err != nil {
		return nil, err
	}
	sol.MlatSol = ms

	if llh, ok := db.ToLLH(ms.Pos); ok {
		sol.Llh = &llh
	}
	return sol, nil
}
