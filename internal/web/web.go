package web

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"static-video-server/internal/catalog"
)

//go:embed assets/index.html
var indexHTML string

//go:embed assets/index.js
var indexJS []byte

//go:embed assets/index.css
var indexCSS []byte

//go:embed assets/favicon.ico
var favicon []byte

// Content types of the embedded assets.
const (
	ContentTypeHTML       = "text/html; charset=utf-8"
	ContentTypeJavaScript = "application/javascript"
	ContentTypeCSS        = "text/css"
	ContentTypeIcon       = "image/x-icon"
)

// Asset is an embedded static file with a fixed content type.
type Asset struct {
	Body        []byte
	ContentType string
}

// Embedded assets served outside the catalog.
var (
	Script     = Asset{Body: indexJS, ContentType: ContentTypeJavaScript}
	Stylesheet = Asset{Body: indexCSS, ContentType: ContentTypeCSS}
	Favicon    = Asset{Body: favicon, ContentType: ContentTypeIcon}
)

var indexTemplate = template.Must(template.New("index").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(indexHTML))

// IndexPage is the data rendered by the index template.
type IndexPage struct {
	Generation uint64
	BuiltAt    time.Time
	Videos     []catalog.Entry
	Count      int
	Extensions []string
}

// NewIndexPage builds the page data for one catalog generation.
func NewIndexPage(gen *catalog.Generation, extensions []string) IndexPage {
	return IndexPage{
		Generation: gen.Number,
		BuiltAt:    gen.BuiltAt,
		Videos:     gen.Entries,
		Count:      gen.Len(),
		Extensions: extensions,
	}
}

// RenderError reports a template execution failure.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render template %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// RenderIndex renders the index page into w. The page is rendered into a
// buffer first, so nothing reaches w when rendering fails.
func RenderIndex(w io.Writer, page IndexPage) error {
	return render(w, indexTemplate, page)
}

func render(w io.Writer, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return &RenderError{Template: tmpl.Name(), Err: err}
	}
	_, err := buf.WriteTo(w)
	return err
}
