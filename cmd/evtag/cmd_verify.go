package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/evtag/pkg/tag"
)

func newVerifyCmd() *cobra.Command {
	var noSubmodules bool

	cmd := &cobra.Command{
		Use:   "verify <tagname>",
		Short: "Verify a tag's tree checksum and signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			r, cfg, err := openRepo(cmd)
			if err != nil {
				return err
			}

			msg, err := r.TagMessage(name)
			if err != nil {
				return err
			}
			stored, ok := tag.Extract(msg)
			if !ok {
				return fmt.Errorf("verify: tag %q carries no checksum footer", name)
			}

			commit, err := r.ResolveRev(name)
			if err != nil {
				return err
			}
			acc, err := computeChecksum(r, commit, cfg.Submodules && !noSubmodules)
			if err != nil {
				return err
			}

			outcome := tag.Judge(stored, acc.Digest(), r.VerifyTagSignature(name))
			report := outcome.Report(name, stored, acc.Digest())
			if !outcome.Ok() {
				return errors.New(report)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSubmodules, "no-submodules", false, "skip submodule initialization")

	return cmd
}
