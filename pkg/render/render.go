// Package render implements the api.Renderer contract with pongo2
// templates. Template identifiers are file names resolved against the
// configured directory.
package render

import (
	"github.com/flosch/pongo2/v6"

	"github.com/petrijr/stepform/pkg/api"
)

// Pongo2Renderer renders templates from a local directory.
type Pongo2Renderer struct {
	set *pongo2.TemplateSet
}

var _ api.Renderer = (*Pongo2Renderer)(nil)

// New creates a renderer rooted at dir.
func New(dir string) (*Pongo2Renderer, error) {
	loader, err := pongo2.NewLocalFileSystemLoader(dir)
	if err != nil {
		return nil, err
	}
	return &Pongo2Renderer{
		set: pongo2.NewSet("stepform", loader),
	}, nil
}

// Render executes the named template with data as its context.
func (r *Pongo2Renderer) Render(template string, data map[string]any) ([]byte, error) {
	tpl, err := r.set.FromCache(template)
	if err != nil {
		return nil, err
	}
	return tpl.ExecuteBytes(pongo2.Context(data))
}
