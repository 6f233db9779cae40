package filesystem

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/IvanShishkin/csr/pkg/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadText reads a whole file as UTF-8 text.
// Failures are returned as a skip reason, never as an error: a file that
// cannot be opened, read or decoded is simply not searchable. The handle is
// closed on every return path.
func ReadText(path string) ([]byte, models.SkipReason) {
	f, err := os.Open(path)
	if err != nil {
		return nil, readFailure(err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, readFailure(err)
	}

	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, models.SkipDecode
	}

	// Normalize line endings to "\n" like a text-mode read
	if bytes.IndexByte(content, '\r') >= 0 {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		content = bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))
	}

	return content, models.SkipNone
}

// readFailure maps an open/read error to a skip reason
func readFailure(err error) models.SkipReason {
	if errors.Is(err, fs.ErrPermission) {
		return models.SkipPermission
	}
	return models.SkipRead
}
