package sendto

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestStagedName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "epub", in: "book.epub", want: "book_epub"},
		{name: "many_dots", in: "my.great.book.pdf", want: "my_great_book_pdf"},
		{name: "unix_traversal", in: "../../etc/passwd", want: "______etc_passwd"},
		{name: "windows_traversal", in: `..\..\boot.ini`, want: "______boot_ini"},
		{name: "control_chars", in: "a\x00b\nc.pdf", want: "abc_pdf"},
		{name: "spaces_kept", in: "War and Peace.epub", want: "War and Peace_epub"},
		{name: "unicode_kept", in: "Война и мир.epub", want: "Война и мир_epub"},
		{name: "empty", in: "", want: "unnamed"},
		{name: "only_controls", in: "\x01\x02", want: "unnamed"},
		{name: "long", in: strings.Repeat("x", 300) + ".pdf", want: strings.Repeat("x", maxFileNameLen-suffixReserve)},
		{name: "long_multibyte", in: strings.Repeat("書", 100) + ".epub", want: strings.Repeat("書", (maxFileNameLen-suffixReserve)/3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stagedName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, ".")
			assert.LessOrEqual(t, len(got), maxFileNameLen-suffixReserve)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestAttachmentName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"book.epub", "book.epub"},
		{"/home/user/book.epub", "book.epub"},
		{`C:\Users\me\manual.pdf`, "manual.pdf"},
		{"invoice.pdf\r\nBcc:spam@example.com", "invoice.pdfBcc:spam@example.com"},
		{"", "unnamed"},
		{"dir/", "dir"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, attachmentName(tt.in), tt.in)
	}
}

func TestUniqueNames(t *testing.T) {
	u := make(uniqueNames)
	assert.Equal(t, "a_epub", u.next("a.epub"))
	assert.Equal(t, "a_epub-1", u.next("a.epub"))
	assert.Equal(t, "a_epub-2", u.next("a_epub"))
	assert.Equal(t, "a_epub-1-1", u.next("a_epub-1"))
}
