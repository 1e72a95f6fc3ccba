package epubgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bmaupin/go-epub"
	"github.com/go-shiori/go-readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func articleServer(t *testing.T) *httptest.Server {
	t.Helper()
	paragraph := strings.Repeat("The quick brown fox jumps over the lazy dog while reading. ", 20)
	pic := testPNG(t)

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><head><title>Foxes and Dogs</title></head><body>
<article><h1>Foxes and Dogs</h1>
<p>%s</p><img src="%s/pic.png" alt="pic"><p>%s</p><p>%s</p>
</article></body></html>`, paragraph, srv.URL, paragraph, paragraph)
	})
	mux.HandleFunc("/pic.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pic)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMakeWritesEpub(t *testing.T) {
	srv := articleServer(t)
	store := filepath.Join(t.TempDir(), "books")

	out, err := New(nil).Make([]string{srv.URL + "/article"}, "My Reading List", store)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store, "my-reading-list.epub"), out)

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	var sawSection bool
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".xhtml") && strings.Contains(f.Name, "section") {
			sawSection = true
		}
	}
	assert.True(t, sawSection, "epub has no content section")
}

func TestMakeNoReadablePages(t *testing.T) {
	_, err := New(nil).Make([]string{"http://127.0.0.1:1/nothing"}, "x", t.TempDir())
	assert.ErrorIs(t, err, ErrNoReadableURL)

	_, err = New(nil).Make(nil, "x", t.TempDir())
	assert.ErrorIs(t, err, ErrNoReadableURL)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "paul-graham-essays.epub", outputName("Paul Graham: Essays", "body"))
	name := outputName("!!!", "body")
	assert.True(t, strings.HasPrefix(name, "kindle-send-doc-"))
	assert.True(t, strings.HasSuffix(name, ".epub"))
}

func TestImageExt(t *testing.T) {
	assert.Equal(t, ".png", imageExt("https://x.com/a/b.PNG?w=100"))
	assert.Equal(t, ".jpg", imageExt("https://x.com/a.jpg#frag"))
	assert.Equal(t, "", imageExt("https://x.com/image"))
}

func TestCompressImage(t *testing.T) {
	pic := testPNG(t)
	out, err := compressImage(pic, "https://x.com/pic.png")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), len(pic))

	_, err = compressImage([]byte("not an image"), "x.png")
	assert.Error(t, err)
}

func TestMakeCreatesStoreDir(t *testing.T) {
	srv := articleServer(t)
	store := filepath.Join(t.TempDir(), "a", "b")

	out, err := New(nil).Make([]string{srv.URL + "/article", srv.URL + "/broken"}, "", store)
	require.NoError(t, err)

	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestEmbedImagesSharedAcrossArticles(t *testing.T) {
	pic := testPNG(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		// keep the download in flight while the other article asks for it
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pic)
	}))
	defer srv.Close()

	b := &book{
		epub:      epub.NewEpub("shared"),
		imageDir:  t.TempDir(),
		downloads: make(map[string]*embeddedImage),
	}
	m := New(nil)

	articles := make([]readability.Article, 4)
	for i := range articles {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(
			fmt.Sprintf(`<div><p>article %d</p><img src="%s/shared.png"></div>`, i, srv.URL)))
		require.NoError(t, err)
		articles[i].Node = doc.Nodes[0]
	}

	var wg sync.WaitGroup
	for i := range articles {
		wg.Add(1)
		go func(a *readability.Article) {
			defer wg.Done()
			m.embedImages(b, a)
		}(&articles[i])
	}
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for i, a := range articles {
		assert.NotContains(t, a.Content, srv.URL, "article %d kept the remote image", i)
		assert.Contains(t, a.Content, "images/", "article %d", i)
	}
}
