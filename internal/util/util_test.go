package util

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	content := "# reading list\nhttp://paulgraham.com/alien.html\n\n  https://example.com/a  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	links, err := ExtractLinks(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://paulgraham.com/alien.html", "https://example.com/a"}, links)
}

func TestExtractLinksMissingFile(t *testing.T) {
	_, err := ExtractLinks(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestGetHashIsStable(t *testing.T) {
	assert.Equal(t, GetHash("abc"), GetHash("abc"))
	assert.NotEqual(t, GetHash("abc"), GetHash("abd"))
	assert.Len(t, GetHash("anything"), 16)
}

func TestFormatError(t *testing.T) {
	msg := FormatError(MailError, "sending mail", errors.New("dial tcp: timeout"))
	assert.Equal(t, "Mail error: sending mail - dial tcp: timeout", msg)

	msg = FormatErrorf(FileError, "staging", "%d files", 3)
	assert.Equal(t, "File error: staging - 3 files", msg)
}
