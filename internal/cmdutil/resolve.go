package cmdutil

import (
	"path/filepath"
	"strings"

	"github.com/ryan-gang/kindle-sendto/internal/classifier"
	"github.com/ryan-gang/kindle-sendto/internal/util"
)

// EpubMaker converts web pages into an epub written below storeDir.
type EpubMaker interface {
	Make(pageURLs []string, title, storeDir string) (string, error)
}

// Resolve turns classified requests into local file paths. Links become one
// epub each, a link file becomes one epub holding all of its links. Failed
// conversions are reported and skipped.
func Resolve(requests []classifier.Request, maker EpubMaker, storeDir string) []string {
	paths := make([]string, 0, len(requests))
	for _, req := range requests {
		switch req.Kind {
		case classifier.File:
			paths = append(paths, req.Path)
		case classifier.Link:
			if p, ok := convert(maker, []string{req.Path}, "", storeDir); ok {
				paths = append(paths, p)
			}
		case classifier.LinkFile:
			links, err := util.ExtractLinks(req.Path)
			if err != nil {
				util.LogError(util.FileError, "reading links from "+req.Path, err)
				continue
			}
			if len(links) == 0 {
				util.Magenta.Println("No links found in ", req.Path)
				continue
			}
			title := strings.TrimSuffix(filepath.Base(req.Path), filepath.Ext(req.Path))
			if p, ok := convert(maker, links, title, storeDir); ok {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

func convert(maker EpubMaker, links []string, title, storeDir string) (string, bool) {
	p, err := maker.Make(links, title, storeDir)
	if err != nil {
		util.LogError(util.NetworkError, "converting "+strings.Join(links, ", "), err)
		return "", false
	}
	return p, true
}
