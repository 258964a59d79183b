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
	"strconv"
	"strings"
)

//-------------------------------------------------------------------
// PosXYZ
//-------------------------------------------------------------------

// PosXYZ is a point in a Cartesian frame [m].
// The frame is either ECEF or a local frame (X=east, Y=north, Z=up) depending on the caller.
type PosXYZ struct {
	X float64
	Y float64
	Z float64
}

func NewPosXYZ(x, y, z float64) *PosXYZ {
	return &PosXYZ{
		X: x,
		Y: y,
		Z: z,
	}
}

func (pos PosXYZ) Add(o PosXYZ) PosXYZ {
	return PosXYZ{X: pos.X + o.X, Y: pos.Y + o.Y, Z: pos.Z + o.Z}
}

func (pos PosXYZ) Sub(o PosXYZ) PosXYZ {
	return PosXYZ{X: pos.X - o.X, Y: pos.Y - o.Y, Z: pos.Z - o.Z}
}

func (pos PosXYZ) Norm() float64 {
	return math.Sqrt(SQ(pos.X) + SQ(pos.Y) + SQ(pos.Z))
}

// Round to the given number of decimals
func (pos PosXYZ) Round(dec int) PosXYZ {
	s := math.Pow(10, float64(dec))
	return PosXYZ{
		X: math.Round(pos.X*s) / s,
		Y: math.Round(pos.Y*s) / s,
		Z: math.Round(pos.Z*s) / s,
	}
}

func (pos PosXYZ) IsFinite() bool {
	return isFinite(pos.X) && isFinite(pos.Y) && isFinite(pos.Z)
}

// Read from string. Accepts "x,y,z" or "x y z".
func (pos *PosXYZ) Set(s string) error {
	f := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(f) != 3 {
		return fmt.Errorf("position needs 3 coordinates, got %d (%q)", len(f), s)
	}
	var v [3]float64
	for i := range f {
		x, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", f[i], err)
		}
		v[i] = x
	}
	pos.X, pos.Y, pos.Z = v[0], v[1], v[2]
	return nil
}

// Convert to string
func (pos *PosXYZ) String() string {
	return fmt.Sprintf("%.4f,%.4f,%.4f", pos.X, pos.Y, pos.Z)
}

// Type name for command flags
func (pos *PosXYZ) Type() string {
	return "x,y,z"
}

// ECEF to geodetic (WGS84)
func (pos *PosXYZ) ToLLH() PosLLH {
	if pos.X == 0 && pos.Y == 0 && pos.Z == 0 {
		return PosLLH{Lat: 0, Lon: 0, Hei: -Re}
	}

	a := Re
	b := a * (1 - Fe)
	e2 := Fe * (2 - Fe)

	// Bowring's method
	h := a*a - b*b
	p := math.Hypot(pos.X, pos.Y)
	t := math.Atan2(pos.Z*a, p*b)
	st, ct := math.Sincos(t)

	lat := math.Atan2(pos.Z+h/b*st*st*st, p-h/a*ct*ct*ct)
	n := a / math.Sqrt(1-e2*SQ(math.Sin(lat)))
	return PosLLH{
		Lat: lat,
		Lon: math.Atan2(pos.Y, pos.X),
		Hei: p/math.Cos(lat) - n,
	}
}

// ECEF to ENU around base (ECEF)
func (pos *PosXYZ) ToENU(base PosXYZ) PosENU {
	d := pos.Sub(base)
	llh := base.ToLLH()
	so, co := math.Sincos(llh.Lon)
	sa, ca := math.Sincos(llh.Lat)
	return PosENU{
		E: -d.X*so + d.Y*co,
		N: -d.X*co*sa - d.Y*so*sa + d.Z*ca,
		U: d.X*co*ca + d.Y*so*ca + d.Z*sa,
	}
}

//-------------------------------------------------------------------
// PosLLH
//-------------------------------------------------------------------

// PosLLH is a geodetic position. Lat/Lon in [rad], Hei in [m].
type PosLLH struct {
	Lat float64
	Lon float64
	Hei float64
}

// Create from latitude/longitude in degrees
func NewPosLLHDeg(lat, lon, hei float64) *PosLLH {
	return &PosLLH{
		Lat: ToRad(lat),
		Lon: ToRad(lon),
		Hei: hei,
	}
}

func (llh *PosLLH) ToXYZ() PosXYZ {
	a := Re
	e2 := Fe * (2 - Fe)
	sa, ca := math.Sincos(llh.Lat)
	so, co := math.Sincos(llh.Lon)
	n := a / math.Sqrt(1-e2*sa*sa) // Radius of curvature in the prime vertical
	return PosXYZ{
		X: (n + llh.Hei) * ca * co,
		Y: (n + llh.Hei) * ca * so,
		Z: (n*(1-e2) + llh.Hei) * sa,
	}
}

// Read from string (degrees): "lat lon hei"
func (llh *PosLLH) Set(s string) error {
	var p PosXYZ
	if err := p.Set(s); err != nil {
		return err
	}
	*llh = *NewPosLLHDeg(p.X, p.Y, p.Z)
	return nil
}

// Convert to string (degrees)
func (llh *PosLLH) String() string {
	return fmt.Sprintf("%.8f %.8f %.4f", ToDeg(llh.Lat), ToDeg(llh.Lon), llh.Hei)
}

func (llh *PosLLH) Type() string {
	return "lat,lon,hei"
}

//-------------------------------------------------------------------
// PosENU
//-------------------------------------------------------------------

type PosENU struct {
	E float64
	N float64
	U float64
}

// ENU around base (ECEF) to ECEF
func (enu *PosENU) ToXYZ(base PosXYZ) PosXYZ {
	llh := base.ToLLH()
	so, co := math.Sincos(llh.Lon)
	sa, ca := math.Sincos(llh.Lat)
	return base.Add(PosXYZ{
		X: -enu.E*so - enu.N*co*sa + enu.U*co*ca,
		Y: enu.E*co - enu.N*so*sa + enu.U*so*ca,
		Z: enu.N*ca + enu.U*sa,
	})
}

// Local frame used by the solver (X=E, Y=N, Z=U)
func (enu *PosENU) Local() PosXYZ {
	return PosXYZ{X: enu.E, Y: enu.N, Z: enu.U}
}

func ENUFromLocal(p PosXYZ) PosENU {
	return PosENU{E: p.X, N: p.Y, U: p.Z}
}
