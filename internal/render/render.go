// Package render turns a finished request record into the HTML fragment the
// injection engine splices into observed pages. The template and stylesheet
// are embedded so the toolbar stays a single self-contained dependency.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/JacobCoffee/debug-toolbar/internal/panels"
)

//go:embed toolbar.html.tmpl toolbar.css
var assets embed.FS

// Renderer renders the toolbar fragment for one record.
type Renderer struct {
	tmpl   *template.Template
	prefix string
	style  template.CSS
}

// New compiles the embedded fragment template. pathPrefix is where the
// toolbar's own routes are mounted, used for the history link.
func New(pathPrefix string) (*Renderer, error) {
	tmpl, err := template.ParseFS(assets, "toolbar.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing toolbar template: %w", err)
	}
	css, err := assets.ReadFile("toolbar.css")
	if err != nil {
		return nil, fmt.Errorf("reading toolbar stylesheet: %w", err)
	}
	return &Renderer{
		tmpl:   tmpl,
		prefix: pathPrefix,
		style:  template.CSS(css),
	}, nil
}

// fragmentData is the template's view of a record.
type fragmentData struct {
	Record   panels.Record
	Prefix   string
	Style    template.CSS
	Duration string
	Version  string
}

// Fragment renders the injectable HTML fragment for rec. All panel stat
// values pass through html/template's contextual escaping, so captured
// header values cannot break out of the fragment.
func (r *Renderer) Fragment(rec panels.Record) ([]byte, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, fragmentData{
		Record:   rec,
		Prefix:   r.prefix,
		Style:    r.style,
		Duration: fmt.Sprintf("%.1fms", float64(rec.Duration.Microseconds())/1000.0),
		Version:  panels.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering toolbar fragment: %w", err)
	}
	return buf.Bytes(), nil
}

// CSS returns the embedded stylesheet, served by the toolbar's static route.
func CSS() []byte {
	css, err := assets.ReadFile("toolbar.css")
	if err != nil {
		// The file is embedded at compile time; a read failure means a
		// broken build, not a runtime condition.
		panic(err)
	}
	return css
}
