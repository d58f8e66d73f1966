package source

import (
	"context"
	"errors"
	"io/fs"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
)

// FileSource reads a payload from a JSON file on every Fetch, so edits to
// the file show up on the next load. Neighborhood queries are answered
// locally with Extract.
type FileSource struct {
	path string
}

// NewFileSource returns a source for the payload file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (f *FileSource) Name() string { return "file" }

// Path returns the payload file path.
func (f *FileSource) Path() string { return f.path }

// Fetch implements Source.
func (f *FileSource) Fetch(ctx context.Context, q Query) (graph.Payload, error) {
	if err := ctx.Err(); err != nil {
		return graph.Payload{}, err
	}
	p, err := graph.ReadPayloadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return graph.Payload{}, kgerrors.Wrap(kgerrors.ErrCodeFileNotFound, err, "payload file %s", f.path)
	}
	if err != nil {
		return graph.Payload{}, kgerrors.Wrap(kgerrors.ErrCodeInvalidPayload, err, "payload file %s", f.path)
	}
	if q.Full() && len(q.Relations) == 0 {
		return p, nil
	}
	if !q.Full() {
		q = q.Normalize()
	}
	if err := q.Validate(); err != nil {
		return graph.Payload{}, err
	}
	return Extract(p, q)
}

var _ Source = (*FileSource)(nil)
