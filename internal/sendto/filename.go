package sendto

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultFileName = "unnamed"
	// maxFileNameLen is in bytes and includes any duplicate suffix.
	maxFileNameLen = 128
	// room kept free for the "-N" suffix added by uniqueNames
	suffixReserve = 8
)

// stagedName builds the on-disk name for an uploaded file: every '.' and
// path separator becomes '_' and control characters are dropped, so the
// result can never leave the workspace. The extension is lost on purpose;
// the recipient sees the declared name, not this one.
//
//	"book.epub"          -> "book_epub"
//	"../../etc/passwd"   -> "______etc_passwd"
//	"a\x00b.pdf"         -> "ab_pdf"
func stagedName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))

	for _, r := range name {
		switch {
		case r == '.' || r == '/' || r == '\\':
			r = '_'
		case unicode.IsControl(r) || !unicode.IsPrint(r):
			continue
		}
		if sb.Len()+utf8.RuneLen(r) > maxFileNameLen-suffixReserve {
			break
		}
		sb.WriteRune(r)
	}

	if sb.Len() == 0 {
		return defaultFileName
	}
	return sb.String()
}

// attachmentName is the name shown to the recipient: the declared base name
// with separators and control characters removed.
func attachmentName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return defaultFileName
	}
	return name
}

// uniqueNames hands out staged names, suffixing repeats within one request.
type uniqueNames map[string]bool

func (u uniqueNames) next(name string) string {
	base := stagedName(name)
	candidate := base
	for i := 1; u[candidate]; i++ {
		candidate = base + "-" + strconv.Itoa(i)
	}
	u[candidate] = true
	return candidate
}
