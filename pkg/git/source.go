package git

import "github.com/odvcencio/evtag/pkg/object"

// ObjectReader bundles a repository with its batch channel so a walk
// can fetch bodies and list trees through one handle per root.
type ObjectReader struct {
	repo  *Repository
	batch *Batch
}

// OpenSource opens path as a repository and starts its batch channel.
// The caller owns the reader and must Close it on every exit path.
func OpenSource(path string) (*ObjectReader, error) {
	repo, err := Open(path)
	if err != nil {
		return nil, err
	}
	batch, err := repo.StartBatch()
	if err != nil {
		return nil, err
	}
	return &ObjectReader{repo: repo, batch: batch}, nil
}

// Object fetches one object body over the batch channel.
func (s *ObjectReader) Object(id object.ID) (object.Kind, []byte, error) {
	return s.batch.Get(id)
}

// Tree lists the direct entries of a tree object in backend order.
func (s *ObjectReader) Tree(id object.ID) ([]object.TreeEntry, error) {
	return s.repo.ListTree(id)
}

// Close releases the batch channel and surfaces the backend's exit
// status.
func (s *ObjectReader) Close() error {
	return s.batch.Close()
}
