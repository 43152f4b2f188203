// Package checksum implements the streaming digest accumulated over a
// full repository object walk.
package checksum

import (
	"crypto/sha512"
	"encoding/hex"
	"hash"

	"github.com/odvcencio/evtag/pkg/object"
)

// Stat counts objects and raw bytes seen for one object kind.
type Stat struct {
	Count int
	Bytes int64
}

// Accumulator folds every visited object into a single running SHA-512.
// It is append-only: bytes go in, nothing is ever rewound, and the
// digest is meaningful only once the walk that feeds it has completed.
type Accumulator struct {
	sum   hash.Hash
	stats map[object.Kind]Stat
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{
		sum:   sha512.New(),
		stats: make(map[object.Kind]Stat),
	}
}

// Update feeds p into the running hash and charges its length to kind.
func (a *Accumulator) Update(kind object.Kind, p []byte) {
	a.sum.Write(p)
	s := a.stats[kind]
	s.Bytes += int64(len(p))
	a.stats[kind] = s
}

// Increment records one more visited object of the given kind.
func (a *Accumulator) Increment(kind object.Kind) {
	s := a.stats[kind]
	s.Count++
	a.stats[kind] = s
}

// IngestObject feeds one object occurrence: the framing header first,
// then the raw content. Identical content referenced twice is ingested
// twice; the stream is a record of visits, not of distinct objects.
func (a *Accumulator) IngestObject(kind object.Kind, content []byte) {
	a.Update(kind, object.Header(kind, int64(len(content))))
	a.Increment(kind)
	a.Update(kind, content)
}

// Digest returns the current hash as lowercase hex. Callers must not
// read it before the traversal feeding the accumulator has finished.
func (a *Accumulator) Digest() string {
	return hex.EncodeToString(a.sum.Sum(nil))
}

// Stats returns a copy of the per-kind visit counters.
func (a *Accumulator) Stats() map[object.Kind]Stat {
	out := make(map[object.Kind]Stat, len(a.stats))
	for k, v := range a.stats {
		out[k] = v
	}
	return out
}
