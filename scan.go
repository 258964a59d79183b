// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ScanRec is one access point seen in a wireless scan
type ScanRec struct {
	BSSID  string  // Lower case MAC address
	SSID   string  // Network name (may be empty)
	Freq   float64 // Center frequency [MHz]
	Signal float64 // Signal level [dBm]
}

// FieldValue returns the text after "key:" in line, trimmed.
func FieldValue(line, key string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, key) {
		return "", false
	}
	s = strings.TrimPrefix(s, key)
	if !strings.HasPrefix(s, ":") {
		return "", false
	}
	return strings.TrimSpace(s[1:]), true
}

// ParseScan reads "iw dev <if> scan" style output.
// Records missing frequency or signal level are skipped.
func ParseScan(r io.Reader) ([]ScanRec, error) {

	recs := []ScanRec{}
	var cur *ScanRec
	var hasFreq, hasSig bool

	flush := func() {
		if cur != nil && hasFreq && hasSig {
			recs = append(recs, *cur)
		} else if cur != nil {
			logger.Debug("incomplete scan record", "bssid", cur.BSSID, "freq", hasFreq, "signal", hasSig)
		}
		cur, hasFreq, hasSig = nil, false, false
	}

	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := sc.Text()

		// New BSS block (header line is not indented)
		if strings.HasPrefix(line, "BSS ") {
			flush()
			f := strings.Fields(strings.TrimPrefix(line, "BSS "))
			if len(f) == 0 {
				return nil, fmt.Errorf("line %d: BSS without address", ln)
			}
			mac, _, _ := strings.Cut(f[0], "(")
			cur = &ScanRec{BSSID: strings.ToLower(mac)}
			continue
		}
		if cur == nil {
			continue
		}

		if v, ok := FieldValue(line, "freq"); ok {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid freq %q: %w", ln, v, err)
			}
			cur.Freq, hasFreq = x, true
		} else if v, ok := FieldValue(line, "signal"); ok {
			v = strings.TrimSpace(strings.TrimSuffix(v, "dBm"))
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid signal %q: %w", ln, v, err)
			}
			cur.Signal, hasSig = x, true
		} else if v, ok := FieldValue(line, "SSID"); ok {
			cur.SSID = v
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	return recs, nil
}

// Strongest keeps the record with the highest signal level for each BSSID, sorted by BSSID
func Strongest(recs []ScanRec) []ScanRec {
	m := map[string]ScanRec{}
	for _, r := range recs {
		if p, ok := m[r.BSSID]; !ok || r.Signal > p.Signal {
			m[r.BSSID] = r
		}
	}
	keys := maps.Keys(m)
	slices.Sort(keys)
	out := make([]ScanRec, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
