package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odvcencio/evtag/pkg/checksum"
	"github.com/odvcencio/evtag/pkg/config"
	"github.com/odvcencio/evtag/pkg/git"
	"github.com/odvcencio/evtag/pkg/object"
	"github.com/odvcencio/evtag/pkg/tag"
	"github.com/odvcencio/evtag/pkg/walk"
)

// openRepo resolves --repo into a repository handle plus its config.
func openRepo(cmd *cobra.Command) (*git.Repository, *config.Config, error) {
	path, err := cmd.Flags().GetString("repo")
	if err != nil {
		return nil, nil, err
	}
	r, err := git.Open(path)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(r.Root)
	if err != nil {
		return nil, nil, err
	}
	return r, cfg, nil
}

// computeChecksum walks the full graph reachable from commit and
// returns the loaded accumulator. Submodules are initialized first so
// nested roots exist on disk when the walk descends into them.
func computeChecksum(r *git.Repository, commit object.ID, initSubmodules bool) (*checksum.Accumulator, error) {
	if initSubmodules {
		if err := r.InitSubmodules(); err != nil {
			return nil, err
		}
	}
	acc := checksum.New()
	w := walk.New(acc, func(root string) (walk.Source, error) {
		return git.OpenSource(root)
	})
	if err := w.Walk(r.Root, commit); err != nil {
		return nil, err
	}
	return acc, nil
}

// selectPrefix applies the --legacy override on top of the config.
func selectPrefix(cfg *config.Config, legacy bool) tag.Prefix {
	if legacy {
		return tag.PrefixLegacy
	}
	return cfg.Prefix()
}

func printStats(w io.Writer, stats map[object.Kind]checksum.Stat) {
	for _, kind := range []object.Kind{object.KindCommit, object.KindTree, object.KindBlob} {
		s := stats[kind]
		fmt.Fprintf(w, "%s: %d objects, %d bytes\n", kind, s.Count, s.Bytes)
	}
}
