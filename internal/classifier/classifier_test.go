package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "Some Book.EPUB")
	links := filepath.Join(dir, "links.txt")
	require.NoError(t, os.WriteFile(book, []byte("epub"), 0o600))
	require.NoError(t, os.WriteFile(links, []byte("http://example.com\n"), 0o600))

	got := Classify([]string{
		"http://paulgraham.com/alien.html",
		book,
		links,
		filepath.Join(dir, "missing.pdf"),
		dir,
	})

	assert.Equal(t, []Request{
		{Path: "http://paulgraham.com/alien.html", Kind: Link},
		{Path: book, Kind: File},
		{Path: links, Kind: LinkFile},
	}, got)
}

func TestClassifyEmpty(t *testing.T) {
	assert.Empty(t, Classify(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "link file", LinkFile.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
