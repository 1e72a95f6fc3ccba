// Package classifier sorts command line arguments into e-book files, web
// links and files of links.
package classifier

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ryan-gang/kindle-sendto/internal/util"
)

type Kind int

const (
	File Kind = iota
	Link
	LinkFile
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Link:
		return "link"
	case LinkFile:
		return "link file"
	}
	return "unknown"
}

type Request struct {
	Path string
	Kind Kind
}

// ebookExtensions are sent as they are; any other existing file is read
// as a list of links.
var ebookExtensions = map[string]bool{
	".epub": true,
	".pdf":  true,
	".mobi": true,
	".azw":  true,
	".azw3": true,
	".doc":  true,
	".docx": true,
	".rtf":  true,
	".html": true,
	".htm":  true,
}

// Classify returns one request per usable argument, in argument order.
// Unknown arguments are reported and skipped.
func Classify(args []string) []Request {
	requests := make([]Request, 0, len(args))
	for _, arg := range args {
		switch {
		case util.IsLink(arg):
			requests = append(requests, Request{Path: arg, Kind: Link})
		case isRegularFile(arg):
			kind := LinkFile
			if ebookExtensions[strings.ToLower(filepath.Ext(arg))] {
				kind = File
			}
			requests = append(requests, Request{Path: arg, Kind: kind})
		default:
			util.Red.Printf("Skipping %s: neither a link nor a readable file\n", arg)
		}
	}
	return requests
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
