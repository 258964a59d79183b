// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// AP is a reference access point with a known position in the local frame [m]
type AP struct {
	BSSID string
	Name  string
	Pos   PosXYZ
}

// APDB holds the reference access points by BSSID.
// Positions given as latitude/longitude are stored in the ENU frame around Origin.
type APDB struct {
	Origin *PosLLH
	aps    map[string]AP
}

type apdbFile struct {
	Origin *struct {
		Lat float64 `toml:"lat"`
		Lon float64 `toml:"lon"`
		Hei float64 `toml:"hei"`
	} `toml:"origin"`
	AP []struct {
		BSSID string    `toml:"bssid"`
		Name  string    `toml:"name"`
		XYZ   []float64 `toml:"xyz"`
		LLH   []float64 `toml:"llh"`
	} `toml:"ap"`
}

// Load access point table from a TOML file
func LoadAPDB(fn string) (*APDB, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	db, err := ReadAPDB(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return db, nil
}

// Read access point table (TOML)
func ReadAPDB(r io.Reader) (*APDB, error) {

	var f apdbFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode access point table: %w", err)
	}

	db := &APDB{aps: map[string]AP{}}
	var base PosXYZ
	if f.Origin != nil {
		db.Origin = NewPosLLHDeg(f.Origin.Lat, f.Origin.Lon, f.Origin.Hei)
		base = db.Origin.ToXYZ()
	}

	for i, e := range f.AP {
		id := strings.ToLower(strings.TrimSpace(e.BSSID))
		if id == "" {
			return nil, fmt.Errorf("ap[%d]: missing bssid", i)
		}
		if _, ok := db.aps[id]; ok {
			return nil, fmt.Errorf("ap[%d]: duplicate bssid %s", i, id)
		}
		ap := AP{BSSID: id, Name: e.Name}
		switch {
		case e.XYZ != nil && e.LLH != nil:
			return nil, fmt.Errorf("ap[%d] %s: both xyz and llh given", i, id)
		case e.XYZ != nil:
			if len(e.XYZ) != 3 {
				return nil, fmt.Errorf("ap[%d] %s: xyz needs 3 values, got %d", i, id, len(e.XYZ))
			}
			ap.Pos = PosXYZ{X: e.XYZ[0], Y: e.XYZ[1], Z: e.XYZ[2]}
		case e.LLH != nil:
			if len(e.LLH) != 3 {
				return nil, fmt.Errorf("ap[%d] %s: llh needs 3 values, got %d", i, id, len(e.LLH))
			}
			if db.Origin == nil {
				return nil, fmt.Errorf("ap[%d] %s: llh requires [origin]", i, id)
			}
			xyz := NewPosLLHDeg(e.LLH[0], e.LLH[1], e.LLH[2]).ToXYZ()
			enu := xyz.ToENU(base)
			ap.Pos = enu.Local()
		default:
			return nil, fmt.Errorf("ap[%d] %s: no position (xyz or llh)", i, id)
		}
		db.aps[id] = ap
	}

	logger.Debug("access point table loaded", "aps", len(db.aps), "origin", db.Origin != nil)
	return db, nil
}

// Lookup returns the access point for bssid (case insensitive)
func (db *APDB) Lookup(bssid string) (AP, bool) {
	ap, ok := db.aps[strings.ToLower(bssid)]
	return ap, ok
}

func (db *APDB) Len() int {
	return len(db.aps)
}

// Sorted BSSIDs
func (db *APDB) BSSIDs() []string {
	keys := maps.Keys(db.aps)
	slices.Sort(keys)
	return keys
}

// ToLLH converts a local position to latitude/longitude. ok is false without an origin.
func (db *APDB) ToLLH(local PosXYZ) (llh PosLLH, ok bool) {
	if db.Origin == nil {
		return PosLLH{}, false
	}
	enu := ENUFromLocal(local)
	xyz := enu.ToXYZ(db.Origin.ToXYZ())
	return xyz.ToLLH(), true
}
