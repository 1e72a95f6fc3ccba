package cmdutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryan-gang/kindle-sendto/internal/classifier"
	"github.com/ryan-gang/kindle-sendto/internal/config"
)

type makeCall struct {
	urls  []string
	title string
}

type fakeMaker struct {
	calls []makeCall
	fail  map[string]bool
}

func (f *fakeMaker) Make(urls []string, title, storeDir string) (string, error) {
	f.calls = append(f.calls, makeCall{urls: urls, title: title})
	if f.fail[urls[0]] {
		return "", errors.New("unreadable")
	}
	return filepath.Join(storeDir, urls[0][len(urls[0])-1:]+".epub"), nil
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	links := filepath.Join(dir, "reading.txt")
	require.NoError(t, os.WriteFile(links, []byte("http://a.com/1\n# skip\nhttp://a.com/2\n"), 0o600))

	maker := &fakeMaker{fail: map[string]bool{"http://bad.com/x": true}}
	paths := Resolve([]classifier.Request{
		{Path: "book.epub", Kind: classifier.File},
		{Path: "http://a.com/3", Kind: classifier.Link},
		{Path: "http://bad.com/x", Kind: classifier.Link},
		{Path: links, Kind: classifier.LinkFile},
	}, maker, "/store")

	assert.Equal(t, []string{"book.epub", "/store/3.epub", "/store/1.epub"}, paths)
	require.Len(t, maker.calls, 3)
	assert.Equal(t, makeCall{urls: []string{"http://a.com/1", "http://a.com/2"}, title: "reading"}, maker.calls[2])
}

func TestProjections(t *testing.T) {
	c := config.NewConfig()
	c.SizeLimit = 99
	c.TempPath = "/tmp/x"
	c.EnableValidation = true
	c.ValidationAPIKey = "k"
	cfg := config.NewConfigProvider(c)

	p := PolicyFrom(cfg)
	assert.True(t, p.AllowSendTo)
	assert.Equal(t, int64(99), p.SizeLimit)
	assert.Equal(t, "/tmp/x", p.TempPath)
	assert.Equal(t, []string{".epub", ".pdf"}, p.PermittedExtensions)

	v := ValidationFrom(cfg)
	assert.True(t, v.Enabled)
	assert.Equal(t, "k", v.APIKey)
	assert.Equal(t, config.DefaultValidationURL, v.BaseURL)
	assert.True(t, v.InsecureSkipVerify)
}
