package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

// Renderer renders the embedded project files for one TemplateData.
type Renderer struct {
	data TemplateData
}

// NewRenderer creates a renderer bound to data.
func NewRenderer(data TemplateData) *Renderer {
	return &Renderer{data: data}
}

// Render returns the content for the named file. Sources without a .tmpl
// suffix are fixed bodies and are returned verbatim.
func (r *Renderer) Render(name TemplateName) ([]byte, error) {
	t, err := Get(name)
	if err != nil {
		return nil, err
	}

	source := t.Source(r.data)
	content, err := fs.ReadFile(filesFS, source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	if !strings.HasSuffix(source, ".tmpl") {
		return content, nil
	}

	return r.execute(source, content)
}

// execute renders content as a template named source. Unknown fields fail
// instead of rendering "<no value>".
func (r *Renderer) execute(source string, content []byte) ([]byte, error) {
	tmpl, err := template.New(source).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", source, err)
	}
	return buf.Bytes(), nil
}
