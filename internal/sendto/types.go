package sendto

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSizeLimit caps the sum of all file sizes in one request (25 MiB).
const DefaultSizeLimit int64 = 26_214_400

// DefaultExtensions are the file types e-readers accept by mail.
var DefaultExtensions = []string{".epub", ".pdf"}

// FileEntry is one uploaded file. Content is opened lazily so that
// request validation never touches it.
type FileEntry struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// NewFileEntry wraps an in-memory or already opened reader.
func NewFileEntry(name string, size int64, r io.Reader) FileEntry {
	return FileEntry{
		Name: name,
		Size: size,
		Open: func() (io.ReadCloser, error) {
			if rc, ok := r.(io.ReadCloser); ok {
				return rc, nil
			}
			return io.NopCloser(r), nil
		},
	}
}

// FileEntryFromPath describes a local file; it is opened only when staged.
func FileEntryFromPath(path string) (FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileEntry{}, err
	}
	return FileEntry{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func (f FileEntry) ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Request is a single device delivery: destination address plus files.
type Request struct {
	Destination string
	Files       []FileEntry
}

// TotalSize sums declared sizes, zero-length entries included.
func (r Request) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// Policy is the immutable send-to-device configuration.
type Policy struct {
	AllowSendTo         bool
	SizeLimit           int64
	PermittedExtensions []string
	TempPath            string
}

// DefaultPolicy returns an enabled policy with the standard limits, staging
// under the system temp directory.
func DefaultPolicy() Policy {
	return Policy{
		AllowSendTo:         true,
		SizeLimit:           DefaultSizeLimit,
		PermittedExtensions: DefaultExtensions,
		TempPath:            filepath.Join(os.TempDir(), "kindle-send"),
	}
}

func (p Policy) permits(ext string) bool {
	if ext == "" {
		return false
	}
	for _, allowed := range p.PermittedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// Attachment binds a staged file to the name the recipient should see.
type Attachment struct {
	Name string
	Path string
}

// MailDispatcher hands an attachment set to the mail transport.
type MailDispatcher interface {
	SendToDevice(ctx context.Context, destination string, attachments []Attachment) error
}

// Receipt describes an accepted delivery. It confirms submission to the
// mail transport only, not receipt on the device.
type Receipt struct {
	RequestID   string
	Attachments int
	Bytes       int64
}
