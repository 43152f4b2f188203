package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newComputeCmd() *cobra.Command {
	var rev string
	var legacy bool
	var showStats bool
	var noSubmodules bool

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the tree checksum of a revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, cfg, err := openRepo(cmd)
			if err != nil {
				return err
			}
			commit, err := r.ResolveRev(rev)
			if err != nil {
				return err
			}
			acc, err := computeChecksum(r, commit, cfg.Submodules && !noSubmodules)
			if err != nil {
				return err
			}

			prefix := selectPrefix(cfg, legacy)
			fmt.Fprintln(cmd.OutOrStdout(), prefix.Line(acc.Digest()))
			if showStats {
				printStats(cmd.ErrOrStderr(), acc.Stats())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rev, "rev", "HEAD", "revision to checksum")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "print the legacy footer prefix")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print per-kind object counts to stderr")
	cmd.Flags().BoolVar(&noSubmodules, "no-submodules", false, "skip submodule initialization")

	return cmd
}
