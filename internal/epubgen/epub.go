// Package epubgen turns web pages into a single epub.
package epubgen

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bmaupin/go-epub"
	"github.com/go-shiori/go-readability"
	"github.com/gosimple/slug"

	"github.com/ryan-gang/kindle-sendto/internal/logger"
	"github.com/ryan-gang/kindle-sendto/internal/util"
)

const (
	DefaultFetchTimeout = 30 * time.Second
	// images larger than this are left out of the book
	maxImageBytes = 10 << 20
)

var ErrNoReadableURL = errors.New("no readable url given")

type Maker struct {
	client  *http.Client
	timeout time.Duration
	log     logger.LoggerInterface
}

func New(log logger.LoggerInterface) *Maker {
	if log == nil {
		log = logger.NewNop()
	}
	return &Maker{
		client:  &http.Client{Timeout: DefaultFetchTimeout},
		timeout: DefaultFetchTimeout,
		log:     log,
	}
}

// book holds the state of one epub under construction. Articles embed
// their images concurrently; mu guards downloads and the epub itself.
type book struct {
	epub     *epub.Epub
	imageDir string

	mu        sync.Mutex
	downloads map[string]*embeddedImage
}

type embeddedImage struct {
	once sync.Once
	ref  string
	err  error
}

// Make generates a single epub from pageURLs and writes it into storeDir.
// Unreadable pages are skipped. An empty title inherits the first article's.
func (m *Maker) Make(pageURLs []string, title, storeDir string) (string, error) {
	articles := make([]readability.Article, 0, len(pageURLs))
	for _, pageURL := range pageURLs {
		article, err := readability.FromURL(pageURL, m.timeout)
		if err != nil {
			m.log.Warnf("Couldn't convert %s: %v", pageURL, err)
			util.Magenta.Println("SKIPPING ", pageURL)
			continue
		}
		util.Green.Printf("Fetched %s --> %s\n", pageURL, article.Title)
		articles = append(articles, article)
	}
	if len(articles) == 0 {
		return "", ErrNoReadableURL
	}

	if title == "" {
		title = articles[0].Title
		m.log.Infof("No title supplied, using title of first article: %s", title)
	}

	imageDir, err := os.MkdirTemp("", "kindle-send-img-*")
	if err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	// go-epub reads image sources again on Write
	defer os.RemoveAll(imageDir)

	b := &book{
		epub:      epub.NewEpub(title),
		imageDir:  imageDir,
		downloads: make(map[string]*embeddedImage),
	}

	var wg sync.WaitGroup
	for i := range articles {
		wg.Add(1)
		go func(article *readability.Article) {
			defer wg.Done()
			m.embedImages(b, article)
		}(&articles[i])
	}
	wg.Wait()

	if err := m.addContent(b, articles); err != nil {
		return "", err
	}

	if storeDir == "" {
		if storeDir, err = os.Getwd(); err != nil {
			storeDir = "."
		}
	}
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return "", fmt.Errorf("create store dir: %w", err)
	}

	out := filepath.Join(storeDir, outputName(title, articles[0].Content))
	if err := b.epub.Write(out); err != nil {
		return "", fmt.Errorf("write epub: %w", err)
	}
	return out, nil
}

func outputName(title, fallback string) string {
	if s := slug.Make(title); s != "" {
		return s + ".epub"
	}
	return "kindle-send-doc-" + util.GetHash(fallback) + ".epub"
}

// embedImages downloads the article's images into the book and points the
// img tags at the embedded copies.
func (m *Maker) embedImages(b *book, article *readability.Article) {
	if article.Node == nil {
		return
	}
	doc := goquery.NewDocumentFromNode(article.Node)

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		img.RemoveAttr("loading")
		img.RemoveAttr("srcset")
		src, ok := img.Attr("src")
		if !ok {
			return
		}
		if ref, ok := m.imageRef(b, src); ok {
			img.SetAttr("src", ref)
		}
	})

	content, err := doc.Html()
	if err != nil {
		m.log.Warnf("Could not render %s, sending without images: %v", article.Title, err)
		return
	}
	article.Content = content
}

// imageRef returns the book-internal path of src, downloading it on first
// use. Callers asking for an image that is still downloading wait for it.
func (m *Maker) imageRef(b *book, src string) (string, bool) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return "", false
	}

	b.mu.Lock()
	img, ok := b.downloads[src]
	if !ok {
		img = &embeddedImage{}
		b.downloads[src] = img
	}
	b.mu.Unlock()

	img.once.Do(func() {
		img.ref, img.err = m.downloadImage(b, src)
		if img.err != nil {
			m.log.Warnf("Couldn't embed image %s: %v", src, img.err)
		}
	})
	return img.ref, img.err == nil
}

func (m *Maker) downloadImage(b *book, src string) (string, error) {
	resp, err := m.client.Get(src)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", err
	}

	compressed, err := compressImage(data, src)
	if err != nil {
		m.log.Debugf("Keeping original image %s: %v", src, err)
		compressed = data
	}

	name := util.GetHash(src) + imageExt(src)
	local := filepath.Join(b.imageDir, name)
	if err := os.WriteFile(local, compressed, 0o600); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.epub.AddImage(local, name)
}

func imageExt(src string) string {
	p := src
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg":
		return ext
	}
	return ""
}

func (m *Maker) addContent(b *book, articles []readability.Article) error {
	added := 0
	for _, article := range articles {
		if _, err := b.epub.AddSection(prepare(article), article.Title, "", ""); err != nil {
			m.log.Warnf("Couldn't add %s to epub: %v", article.Title, err)
			continue
		}
		added++
	}
	m.log.Infof("Added %d articles", added)
	if added == 0 {
		return errors.New("no article was added, epub creation failed")
	}
	return nil
}

func prepare(article readability.Article) string {
	return "<h1>" + article.Title + "</h1>" + article.Content
}
