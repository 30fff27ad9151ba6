// Package fileserver resolves an HTTP request path against a document root:
// canonicalizing the path, verifying it never escapes the root (even via a
// symlink), and opening the resulting file for a zero-copy response body.
package fileserver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/yourusername/filereactor/pkg/filereactor/fileserver/mime"
)

// Status is the HTTP status a failed Resolve should respond with.
type Status int

const (
	// StatusOK indicates the file was resolved and opened successfully.
	StatusOK Status = 200
	// StatusForbidden is returned when the canonical path escapes the
	// document root, or when opening fails with EACCES.
	StatusForbidden Status = 403
	// StatusNotFound is returned when the path does not name a regular file.
	StatusNotFound Status = 404
	// StatusInternalError is returned for any other stat/open failure.
	StatusInternalError Status = 500
)

// Root wraps a canonicalized document root directory.
type Root struct {
	canonical string
}

// NewRoot canonicalizes dir (resolving symlinks) so every subsequent
// Resolve call can do a cheap string-prefix containment check.
func NewRoot(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	return &Root{canonical: canon}, nil
}

// String returns the canonicalized root path.
func (r *Root) String() string { return r.canonical }

// File is an opened, resolved static file ready for a zero-copy response.
type File struct {
	Handle      *os.File
	Size        int64
	ContentType string
}

// Close closes the underlying handle.
func (f *File) Close() error {
	if f == nil || f.Handle == nil {
		return nil
	}
	return f.Handle.Close()
}

// Resolve maps an HTTP request path (as parsed from the request line, e.g.
// "/a/b.png") onto a file beneath root. A trailing "/" (including the root
// path "/" itself) substitutes "index.html". The canonical resolved path
// must retain root's prefix, which rejects both literal ".." segments and
// symlinks that point outside the root.
func Resolve(root *Root, urlPath string) (*File, Status) {
	clean := urlPath
	if clean == "" {
		clean = "/"
	}
	if strings.HasSuffix(clean, "/") {
		clean += "index.html"
	}

	joined := filepath.Join(root.canonical, filepath.FromSlash(clean))

	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, StatusNotFound
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, StatusForbidden
		}
		return nil, StatusInternalError
	}

	if !withinRoot(root.canonical, canonical) {
		return nil, StatusForbidden
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, classifyStatErr(err)
	}
	if !info.Mode().IsRegular() {
		return nil, StatusNotFound
	}

	handle, err := os.Open(canonical)
	if err != nil {
		return nil, classifyStatErr(err)
	}

	ext := extension(canonical)
	contentType := mime.DefaultHTML
	if ext != "" {
		contentType = mime.Lookup(ext)
	}

	return &File{Handle: handle, Size: info.Size(), ContentType: contentType}, StatusOK
}

func withinRoot(root, candidate string) bool {
	if candidate == root {
		return true
	}
	return strings.HasPrefix(candidate, root+string(filepath.Separator))
}

func classifyStatErr(err error) Status {
	if errors.Is(err, syscall.EACCES) || errors.Is(err, fs.ErrPermission) {
		return StatusForbidden
	}
	if errors.Is(err, fs.ErrNotExist) {
		return StatusNotFound
	}
	return StatusInternalError
}

// extension returns the substring after the final '.' in the last path
// segment, or "" if the last segment has no '.'.
func extension(path string) string {
	base := filepath.Base(path)
	idx := strings.LastIndexByte(base, '.')
	if idx == -1 {
		return ""
	}
	return base[idx+1:]
}
