// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apdbXYZ = `
[[ap]]
bssid = "AA:BB:CC:00:00:01"
name  = "hall"
xyz   = [0.0, 0.0, 0.0]

[[ap]]
bssid = "aa:bb:cc:00:00:02"
xyz   = [3.0, 0.0, 1.5]
`

func TestReadAPDB(t *testing.T) {
	db, err := ReadAPDB(strings.NewReader(apdbXYZ))
	require.NoError(t, err)
	assert.Equal(t, 2, db.Len())
	assert.Nil(t, db.Origin)
	assert.Equal(t, []string{"aa:bb:cc:00:00:01", "aa:bb:cc:00:00:02"}, db.BSSIDs())

	ap, ok := db.Lookup("aa:bb:cc:00:00:01")
	require.True(t, ok)
	assert.Equal(t, AP{BSSID: "aa:bb:cc:00:00:01", Name: "hall", Pos: PosXYZ{}}, ap)

	ap, ok = db.Lookup("AA:BB:CC:00:00:02")
	require.True(t, ok)
	assert.Equal(t, PosXYZ{X: 3, Y: 0, Z: 1.5}, ap.Pos)

	_, ok = db.Lookup("ff:ff:ff:ff:ff:ff")
	assert.False(t, ok)

	_, ok = db.ToLLH(PosXYZ{})
	assert.False(t, ok)
}

func TestReadAPDBGeodetic(t *testing.T) {
	src := `
[origin]
lat = 35.0
lon = 139.0
hei = 40.0

[[ap]]
bssid = "aa:bb:cc:00:00:01"
llh   = [35.0, 139.0, 40.0]

[[ap]]
bssid = "aa:bb:cc:00:00:02"
llh   = [35.0, 139.0, 43.0]

[[ap]]
bssid = "aa:bb:cc:00:00:03"
xyz   = [5.0, 5.0, 0.0]
`
	db, err := ReadAPDB(strings.NewReader(src))
	require.NoError(t, err)
	require.NotNil(t, db.Origin)

	ap, _ := db.Lookup("aa:bb:cc:00:00:01")
	assert.InDelta(t, 0, ap.Pos.Norm(), 1e-6)

	ap, _ = db.Lookup("aa:bb:cc:00:00:02")
	assert.InDelta(t, 0, ap.Pos.X, 1e-6)
	assert.InDelta(t, 0, ap.Pos.Y, 1e-6)
	assert.InDelta(t, 3, ap.Pos.Z, 1e-6)

	llh, ok := db.ToLLH(PosXYZ{X: 0, Y: 0, Z: 3})
	require.True(t, ok)
	assert.InDelta(t, ToRad(35.0), llh.Lat, 1e-10)
	assert.InDelta(t, ToRad(139.0), llh.Lon, 1e-10)
	assert.InDelta(t, 43.0, llh.Hei, 1e-4)
}

func TestReadAPDBErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"syntax", "[[ap]\n", "decode"},
		{"missing bssid", "[[ap]]\nxyz = [0.0, 0.0, 0.0]\n", "missing bssid"},
		{"duplicate", "[[ap]]\nbssid = \"a\"\nxyz = [0.0, 0.0, 0.0]\n[[ap]]\nbssid = \"A\"\nxyz = [1.0, 0.0, 0.0]\n", "duplicate"},
		{"no position", "[[ap]]\nbssid = \"a\"\n", "no position"},
		{"both", "[[ap]]\nbssid = \"a\"\nxyz = [0.0, 0.0, 0.0]\nllh = [0.0, 0.0, 0.0]\n", "both"},
		{"short xyz", "[[ap]]\nbssid = \"a\"\nxyz = [0.0, 0.0]\n", "3 values"},
		{"llh without origin", "[[ap]]\nbssid = \"a\"\nllh = [35.0, 139.0, 0.0]\n", "origin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAPDB(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadAPDB(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "aps.toml")
	require.NoError(t, os.WriteFile(fn, []byte(apdbXYZ), 0o644))

	db, err := LoadAPDB(fn)
	require.NoError(t, err)
	assert.Equal(t, 2, db.Len())

	_, err = LoadAPDB(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
