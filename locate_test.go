// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Signal level [dBm] that the path loss model maps back to d [m]
func levelFor(freq, d float64) float64 {
	return -(20*math.Log10(d) - FSPLConst + 20*math.Log10(freq))
}

// cubeAPDB puts eight access points on the corners of a 3 m cube
func cubeAPDB(t *testing.T) *APDB {
	t.Helper()
	var b bytes.Buffer
	for i, p := range cubeRefs() {
		fmt.Fprintf(&b, "[[ap]]\nbssid = \"aa:bb:cc:00:00:%02x\"\nxyz = [%.1f, %.1f, %.1f]\n", i, p.X, p.Y, p.Z)
	}
	db, err := ReadAPDB(&b)
	require.NoError(t, err)
	return db
}

// scanText renders iw style output for a device at p
func scanText(p PosXYZ, freq float64, extra string) string {
	var b strings.Builder
	for i, r := range cubeRefs() {
		d := EucDist(&r, &p)
		fmt.Fprintf(&b, "BSS aa:bb:cc:00:00:%02x(on wlan0)\n\tfreq: %g\n\tsignal: %.12f dBm\n\tSSID: ap%d\n", i, freq, levelFor(freq, d), i)
	}
	b.WriteString(extra)
	return b.String()
}

func TestLocate(t *testing.T) {
	p := PosXYZ{X: 1.2, Y: 0.4, Z: 2.1}
	db := cubeAPDB(t)

	extra := "BSS 11:22:33:44:55:66\n\tfreq: 2412\n\tsignal: -30.00 dBm\n"
	recs, err := ParseScan(strings.NewReader(scanText(p, 2437, extra)))
	require.NoError(t, err)
	require.Len(t, recs, 9)

	sol, err := Locate(recs, db, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(p, sol.Pos, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, sol.Used, 8)
	assert.NotContains(t, sol.Used, "11:22:33:44:55:66")
	assert.Equal(t, "aa:bb:cc:00:00:00", sol.Used[0])
	require.Len(t, sol.Dists, 8)
	assert.InDelta(t, p.Norm(), sol.Dists[0], 1e-6)
	assert.Nil(t, sol.Llh)
}

func TestLocateSignalMask(t *testing.T) {
	p := PosXYZ{X: 0.5, Y: 0.5, Z: 0.5}
	db := cubeAPDB(t)
	recs, err := ParseScan(strings.NewReader(scanText(p, 2437, "")))
	require.NoError(t, err)

	// Only the nearest corner is stronger than the mask
	opt := NewLocOpt()
	opt.MinSignal = levelFor(2437, 1.0)
	_, err = Locate(recs, db, opt)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "1 usable")
}

func TestLocateTooFewKnown(t *testing.T) {
	db := cubeAPDB(t)
	recs := []ScanRec{
		{BSSID: "aa:bb:cc:00:00:00", Freq: 2412, Signal: -50},
		{BSSID: "aa:bb:cc:00:00:01", Freq: 2412, Signal: -50},
		{BSSID: "aa:bb:cc:00:00:02", Freq: 2412, Signal: -50},
		{BSSID: "aa:bb:cc:00:00:02", Freq: 2412, Signal: -40},
		{BSSID: "00:00:00:00:00:00", Freq: 2412, Signal: -50},
	}
	_, err := Locate(recs, db, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLocateDegenerate(t *testing.T) {
	src := `
[[ap]]
bssid = "a1"
xyz = [0.0, 0.0, 0.0]
[[ap]]
bssid = "a2"
xyz = [4.0, 0.0, 0.0]
[[ap]]
bssid = "a3"
xyz = [0.0, 4.0, 0.0]
[[ap]]
bssid = "a4"
xyz = [4.0, 4.0, 0.0]
`
	db, err := ReadAPDB(strings.NewReader(src))
	require.NoError(t, err)
	recs := []ScanRec{
		{BSSID: "a1", Freq: 2412, Signal: -45},
		{BSSID: "a2", Freq: 2412, Signal: -50},
		{BSSID: "a3", Freq: 2412, Signal: -52},
		{BSSID: "a4", Freq: 2412, Signal: -48},
	}
	_, err = Locate(recs, db, nil)
	require.ErrorIs(t, err, ErrNoSolution)
}

func TestLocateGeodetic(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("[origin]\nlat = 35.0\nlon = 139.0\nhei = 40.0\n")
	for i, p := range cubeRefs() {
		fmt.Fprintf(&b, "[[ap]]\nbssid = \"aa:bb:cc:00:00:%02x\"\nxyz = [%.1f, %.1f, %.1f]\n", i, p.X, p.Y, p.Z)
	}
	db, err := ReadAPDB(&b)
	require.NoError(t, err)

	p := PosXYZ{X: 1, Y: 2, Z: 1}
	recs, err := ParseScan(strings.NewReader(scanText(p, 5180, "")))
	require.NoError(t, err)

	sol, err := Locate(recs, db, nil)
	require.NoError(t, err)
	require.NotNil(t, sol.Llh)
	assert.InDelta(t, 41.0, sol.Llh.Hei, 1e-3)
	assert.Greater(t, sol.Llh.Lat, ToRad(35.0))
	assert.Greater(t, sol.Llh.Lon, ToRad(139.0))
}
