// Package static serves the site's asset directory and falls back to a
// single default document for every path it cannot resolve.
package static

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
)

const dirIndex = "index.html"

// Handler serves files from an fs.FS.
type Handler struct {
	files fs.FS
	index string
	log   logrus.FieldLogger
}

// New returns a Handler serving files and falling back to index, a path
// relative to the root of files.
func New(files fs.FS, index string, log logrus.FieldLogger) *Handler {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Handler{
		files: files,
		index: strings.TrimPrefix(index, "/"),
		log:   log,
	}
}

// ServeHTTP serves the file named by the request path, or the default
// document when there is none. It answers every method.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if name, ok := h.resolve(r.URL.Path); ok {
		if err := h.serveFile(w, r, name); err == nil {
			return
		}
	}
	h.serveIndex(w, r)
}

// resolve maps a URL path to a regular file inside the asset root.
func (h *Handler) resolve(urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}
	if !fs.ValidPath(name) || hasDotSegment(name) {
		return "", false
	}

	info, err := fs.Stat(h.files, name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		name = path.Join(name, dirIndex)
		info, err = fs.Stat(h.files, name)
		if err != nil || info.IsDir() {
			return "", false
		}
	}
	if !info.Mode().IsRegular() {
		return "", false
	}
	return name, true
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.serveFile(w, r, h.index); err != nil {
		h.log.WithError(err).WithField("index", h.index).Error("default document unavailable")
		http.NotFound(w, r)
	}
}

// serveFile writes name with http.ServeContent. Nothing is written when an
// error is returned.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, name string) error {
	f, err := h.files.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		content = bytes.NewReader(data)
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
	return nil
}

func hasDotSegment(name string) bool {
	if name == "." {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
