// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	m "github.com/mkhts/gomlat"
)

type locateOpt struct {
	apsFn     string
	minSignal float64
	k         float64
}

func newLocateCmd(ro *rootOpt) *cobra.Command {
	lo := &locateOpt{}

	cmd := &cobra.Command{
		Use:   "locate --aps aps.toml [scan.txt|-]",
		Short: "Locate this device from a Wi-Fi scan and an access point table",
		Long: `Locate this device from a Wi-Fi scan and an access point table.

The scan is "iw dev <if> scan" output read from a file or stdin.
Signal levels are converted to distances by free space path loss.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := loggerFromContext(cmd.Context())

			opt, err := ro.cfg.LocOpt()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("min-signal") {
				opt.MinSignal = lo.minSignal
			}
			if cmd.Flags().Changed("k") {
				opt.Model = &m.PathLossModel{K: lo.k}
			}

			db, err := m.LoadAPDB(lo.apsFn)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			recs, err := m.ParseScan(in)
			if err != nil {
				return fmt.Errorf("failed to parse scan: %w", err)
			}
			log.Debug("scan parsed", "records", len(recs), "aps", db.Len())

			sol, err := m.Locate(recs, db, opt)
			if err != nil {
				return err
			}
			printLoc(cmd.OutOrStdout(), sol)
			return nil
		},
	}

	cmd.Flags().StringVarP(&lo.apsFn, "aps", "a", "", "access point table (TOML)")
	cmd.Flags().Float64Var(&lo.minSignal, "min-signal", 0, "signal level mask [dBm], 0 for no mask")
	cmd.Flags().Float64Var(&lo.k, "k", m.FSPLConst, "path loss constant [dB]")
	_ = cmd.MarkFlagRequired("aps")
	return cmd
}

// Print locate result
func printLoc(w io.Writer, sol *m.LocSol) {
	printSol(w, sol.MlatSol)
	if sol.Llh != nil {
		fmt.Fprintf(w, "llh   : %s\n", sol.Llh.String())
	}
	for i, id := range sol.Used {
		fmt.Fprintf(w, "ap    : %s %10.3f %10.3f\n", id, sol.Dists[i], sol.Res[i])
	}
}
