package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

// LayoutTemplate wraps a screen into a full page.
const LayoutTemplate = "layout"

// Renderer executes the embedded templates. Every call receives the mount
// base path as "Base" unless the caller already set it.
type Renderer struct {
	templates *template.Template
	basePath  string
}

func NewRenderer(basePath string) (*Renderer, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: templates, basePath: basePath}, nil
}

// Render executes the named template with attrs.
func (r *Renderer) Render(name string, attrs map[string]any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, r.withBase(attrs)); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) withBase(attrs map[string]any) map[string]any {
	merged := make(map[string]any, len(attrs)+1)
	merged["Base"] = r.basePath
	for k, v := range attrs {
		merged[k] = v
	}
	return merged
}

// Page is the layout input.
type Page struct {
	Title   string
	Notice  string
	Content template.HTML
}

// Echo adapts the renderer to echo.Renderer for full page responses.
func (r *Renderer) Echo() echo.Renderer {
	return echoRenderer{r}
}

type echoRenderer struct {
	renderer *Renderer
}

func (e echoRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return e.renderer.templates.ExecuteTemplate(w, name, data)
}
