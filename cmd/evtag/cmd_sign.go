package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/evtag/pkg/git"
	"github.com/odvcencio/evtag/pkg/tag"
)

func newSignCmd() *cobra.Command {
	var message string
	var legacy bool
	var noSign bool
	var force bool

	cmd := &cobra.Command{
		Use:   "sign <tagname>",
		Short: "Create a signed annotated tag carrying the tree checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			r, cfg, err := openRepo(cmd)
			if err != nil {
				return err
			}

			// New tags point at the current head. Re-signing an
			// existing tag (with --force) keeps its target and reuses
			// its message as the editing seed.
			target := "HEAD"
			base := message
			if r.TagExists(name) {
				if !force {
					return fmt.Errorf("sign: %w: %q", git.ErrTagExists, name)
				}
				target = name
				if base == "" {
					base, err = r.TagMessage(name)
					if err != nil {
						return err
					}
				}
			}

			commit, err := r.ResolveRev(target)
			if err != nil {
				return err
			}
			acc, err := computeChecksum(r, commit, cfg.Submodules)
			if err != nil {
				return err
			}

			if message == "" {
				base, err = editMessage(cfg.EditorCommand(), tag.Clean(base))
				if err != nil {
					return err
				}
			}

			prefix := selectPrefix(cfg, legacy)
			final := tag.Embed(base, acc.Digest(), prefix)
			if err := r.CreateTag(name, commit, final, !noSign, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tagged %s at %s\n%s\n", name, commit, prefix.Line(acc.Digest()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "tag message (skips the editor)")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "write the legacy footer prefix")
	cmd.Flags().BoolVar(&noSign, "no-sign", false, "create an unsigned annotated tag")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace and re-checksum an existing tag")

	return cmd
}
