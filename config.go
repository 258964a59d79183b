// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gomlat

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the TOML configuration file
//
//	[solver]
//	pivot  = "first"   # first, spread
//	method = "normal"  # normal, qr
//	weight = 0         # 0(OFF), 1(1/d^2)
//
//	[model]
//	k          = 27.55 # path loss constant [dB]
//	min_signal = 0     # signal level mask [dBm], 0 for no mask
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Model  ModelConfig  `toml:"model"`
}

type SolverConfig struct {
	Pivot  string `toml:"pivot"`
	Method string `toml:"method"`
	Weight int    `toml:"weight"`
}

type ModelConfig struct {
	K         float64 `toml:"k"`
	MinSignal float64 `toml:"min_signal"`
}

func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Pivot:  "first",
			Method: "normal",
			Weight: 0,
		},
		Model: ModelConfig{
			K:         FSPLConst,
			MinSignal: 0,
		},
	}
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are an error.
func LoadConfig(fn string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(fn, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", fn, err)
	}
	if u := md.Undecoded(); len(u) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", fn, u[0].String())
	}
	if _, err := cfg.MlatOpt(); err != nil {
		return nil, fmt.Errorf("config %s: %w", fn, err)
	}
	return cfg, nil
}

// MlatOpt builds solver options from the configuration
func (c *Config) MlatOpt() (*MlatOpt, error) {
	opt := NewMlatOpt()
	if err := opt.Pivot.Set(c.Solver.Pivot); err != nil {
		return nil, err
	}
	if err := opt.Method.Set(c.Solver.Method); err != nil {
		return nil, err
	}
	if c.Solver.Weight < 0 || c.Solver.Weight > 1 {
		return nil, fmt.Errorf("unknown weighting mode %d (0, 1)", c.Solver.Weight)
	}
	opt.WghMode = c.Solver.Weight
	return opt, nil
}

// LocOpt builds locator options from the configuration
func (c *Config) LocOpt() (*LocOpt, error) {
	mopt, err := c.MlatOpt()
	if err != nil {
		return nil, err
	}
	opt := NewLocOpt()
	opt.Mlat = mopt
	opt.Model = &PathLossModel{K: c.Model.K}
	opt.MinSignal = c.Model.MinSignal
	return opt, nil
}
