// Package view renders the HTML pages of the site from embedded
// html/template files. Every page is executed inside the shared layout and
// may include partials by name.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/vitalvas/workopia/internal/models"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet and image assets served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Flash holds the one-shot messages shown at the top of a page.
type Flash struct {
	Success string
	Error   string
}

// Page is the data every template receives.
type Page struct {
	Title    string
	User     *models.SessionUser
	Flash    Flash
	Errors   map[string]string
	Values   map[string]string
	Listing  *models.Listing
	Listings []models.Listing
	IsOwner  bool
	Keywords string
	Location string
	Status   int
	Message  string
}

// Renderer executes named pages.
type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	return NewFromFS(sub)
}

// NewFromFS parses layout.html, partials/*.html and every pages/**.html file
// from fsys. A page is named by its path below pages/ without the
// extension, e.g. "listings/show".
func NewFromFS(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	funcs := r.funcs()

	partials, err := template.New("partials").Funcs(funcs).ParseFS(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}
	r.partials = partials

	err = fs.WalkDir(fsys, "pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}

		name := strings.TrimSuffix(strings.TrimPrefix(p, "pages/"), ".html")

		page, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "layout.html", p)
		if err != nil {
			return fmt.Errorf("parse page %s: %w", name, err)
		}

		r.pages[name] = page
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"partial":      r.partial,
		"formatSalary": FormatSalary,
		"splitTags":    SplitTags,
	}
}

// partial executes the named partial with data. An unknown partial renders
// a notice in its place instead of failing the whole page.
func (r *Renderer) partial(name string, data any) (template.HTML, error) {
	t := r.partials.Lookup(name)
	if t == nil {
		return template.HTML(template.HTMLEscapeString("Partial " + name + " not found!")), nil
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("partial %s: %w", name, err)
	}

	// Output of an html/template execution is already escaped.
	return template.HTML(buf.String()), nil
}

// Has reports whether a page named name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render writes the page name with data and the given status. The page is
// rendered into a buffer first, so a template error leaves w untouched and
// is returned to the caller. An unknown page writes a plain notice.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	page, ok := r.pages[name]
	if !ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, err := fmt.Fprint(w, template.HTMLEscapeString("View "+name+" not found!"))
		return err
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)

	return err
}
