package muxhandlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
)

// ErrStaticFilesNoFS is returned when StaticFilesConfig.FS is nil.
var ErrStaticFilesNoFS = errors.New("static files: file system must not be nil")

// StaticFilesConfig configures the static file handler.
type StaticFilesConfig struct {
	// FS is the file system to serve files from. Required.
	// Works with os.DirFS, embed.FS, and any fs.FS implementation.
	FS fs.FS

	// Prefix is stripped from the request path before the file is looked
	// up, e.g. "/static".
	Prefix string

	// MaxAge sets "Cache-Control: public, max-age=N" on served files.
	// When zero, no Cache-Control header is set.
	MaxAge int
}

// noDirListingFS wraps an fs.FS to prevent directory listing.
// Opening a directory returns fs.ErrNotExist so http.FileServer responds
// with 404.
type noDirListingFS struct {
	fs fs.FS
}

func (n *noDirListingFS) Open(name string) (fs.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if stat.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}

	return f, nil
}

// StaticFilesHandler returns an http.Handler that serves the stylesheet and
// image assets of the site from the provided file system. Directories are
// never listed. It is not middleware: it serves files directly without
// calling a next handler.
func StaticFilesHandler(cfg StaticFilesConfig) (http.Handler, error) {
	if cfg.FS == nil {
		return nil, ErrStaticFilesNoFS
	}

	var handler http.Handler = http.FileServer(http.FS(&noDirListingFS{fs: cfg.FS}))

	if cfg.Prefix != "" {
		handler = http.StripPrefix(strings.TrimSuffix(cfg.Prefix, "/"), handler)
	}

	if cfg.MaxAge > 0 {
		cacheControl := fmt.Sprintf("public, max-age=%d", cfg.MaxAge)
		inner := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", cacheControl)
			inner.ServeHTTP(w, r)
		})
	}

	return handler, nil
}
