package utils

import (
	"encoding/json"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/unicode/norm"
)

// ErrTooLarge is returned by CopyFile when the source exceeds the size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "atomic rename")
	}
	return nil
}

// CopyFile copies src to dst through a temp file. A positive limit caps the
// number of bytes accepted; larger sources fail with ErrTooLarge and leave dst
// untouched.
func CopyFile(dst, src string, limit int64) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, errors.Wrap(err, "open source")
	}
	defer in.Close()

	var r io.Reader = in
	if limit > 0 {
		r = io.LimitReader(in, limit+1)
	}
	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, errors.Wrap(err, "create temp file")
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && limit > 0 && n > limit {
		err = errors.Wrapf(ErrTooLarge, "%s is larger than %d bytes", src, limit)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return 0, errors.Wrap(err, "atomic rename")
	}
	return n, nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal json")
	}
	return b, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces an uploaded file name to a safe ASCII base name:
// path separators and whitespace become '_', other characters outside
// [A-Za-z0-9_.-] are dropped, and leading/trailing dots and underscores are
// trimmed. It may return "".
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return ' '
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}
