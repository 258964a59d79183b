// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	m "github.com/mkhts/gomlat"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, m.ErrNoSolution) {
			fmt.Fprintln(os.Stderr, "no position: reference geometry or measurements are degenerate")
		}
		fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
		os.Exit(1)
	}
}

// Options shared by all commands
type rootOpt struct {
	verbose bool
	cfgFn   string
	cfg     *m.Config
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	ro := &rootOpt{}

	root := &cobra.Command{
		Use:           "gomlat",
		Short:         "Estimate a position from distances to known reference points",
		Long:          "gomlat estimates a 3D position by linearized least squares multilateration from reference points and measured distances, or from a Wi-Fi scan and an access point table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if ro.verbose {
				level = charmlog.DebugLevel
			}
			l := newLogger(stderr, level)
			m.SetLogger(l)
			cmd.SetContext(withLogger(cmd.Context(), l))

			ro.cfg = m.DefaultConfig()
			if ro.cfgFn != "" {
				cfg, err := m.LoadConfig(ro.cfgFn)
				if err != nil {
					return err
				}
				ro.cfg = cfg
				l.Debug("config loaded", "file", ro.cfgFn)
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&ro.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	root.PersistentFlags().StringVarP(&ro.cfgFn, "config", "c", "", "TOML configuration file")

	root.AddCommand(newSolveCmd(ro))
	root.AddCommand(newLocateCmd(ro))
	root.AddCommand(newDemoCmd())

	return root
}
