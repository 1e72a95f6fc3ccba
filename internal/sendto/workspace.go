package sendto

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// workspace is the private staging directory of one Dispatch call.
// Removing it removes every file the call staged.
type workspace struct {
	id    string
	dir   string
	names uniqueNames
}

func newWorkspace(root string) (*workspace, error) {
	id := uuid.NewString()
	dir := filepath.Join(root, id)
	// MkdirAll is idempotent and safe when concurrent calls create root
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &workspace{id: id, dir: dir, names: make(uniqueNames)}, nil
}

// stage copies exactly f.Size bytes of f into the workspace.
func (w *workspace) stage(ctx context.Context, f FileEntry) (Attachment, error) {
	if err := ctx.Err(); err != nil {
		return Attachment{}, err
	}
	if f.Open == nil {
		return Attachment{}, fmt.Errorf("no content for %q", attachmentName(f.Name))
	}

	src, err := f.Open()
	if err != nil {
		return Attachment{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(w.dir, w.names.next(f.Name))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return Attachment{}, err
	}

	if _, err := io.CopyN(dst, src, f.Size); err != nil {
		dst.Close()
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Attachment{}, fmt.Errorf("copy upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return Attachment{}, err
	}

	return Attachment{Name: attachmentName(f.Name), Path: path}, nil
}

func (w *workspace) remove() error {
	return os.RemoveAll(w.dir)
}
