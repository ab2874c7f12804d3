package templates

import (
	"fmt"
	"strings"
)

// TemplateName identifies a generated file.
type TemplateName string

const (
	README          TemplateName = "readme"
	GitIgnore       TemplateName = "gitignore"
	License         TemplateName = "license"
	CI              TemplateName = "ci"
	Discovery       TemplateName = "discovery"
	IntegrationTest TemplateName = "integration-test"
)

// Template describes one generated file.
type Template struct {
	// Name is the template identifier.
	Name TemplateName

	// Target is the output path relative to the project or unit root.
	Target string

	// Description explains what the file is for.
	Description string

	source func(TemplateData) string
}

// Source returns the embedded file the template renders for data.
func (t Template) Source(data TemplateData) string {
	return "files/" + t.source(data)
}

func fixed(name string) func(TemplateData) string {
	return func(TemplateData) string { return name }
}

// templates is the internal registry of generated files.
var templates = map[TemplateName]Template{
	README: {
		Name:        README,
		Target:      "README.md",
		Description: "Project overview",
		source:      fixed("README.md.tmpl"),
	},
	GitIgnore: {
		Name:        GitIgnore,
		Target:      ".gitignore",
		Description: "Build output and editor ignores",
		source:      fixed("gitignore.tmpl"),
	},
	License: {
		Name:        License,
		Target:      "LICENSE",
		Description: "License text",
		source: func(d TemplateData) string {
			if strings.EqualFold(d.License, "MIT") {
				return "LICENSE-MIT.tmpl"
			}
			return "LICENSE-SPDX.tmpl"
		},
	},
	CI: {
		Name:        CI,
		Target:      ".github/workflows/ci.yml",
		Description: "CI workflow running build then test on push and pull request",
		source:      fixed("ci.yml.tmpl"),
	},
	Discovery: {
		Name:        Discovery,
		Target:      "src/lib.rs",
		Description: "Discovery example library body",
		source:      fixed("discovery_lib.rs"),
	},
	IntegrationTest: {
		Name:        IntegrationTest,
		Target:      "tests/integration_test.rs",
		Description: "Integration test placeholder",
		source:      fixed("integration_test.rs.tmpl"),
	},
}

// Get returns a template by name.
func Get(name TemplateName) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, fmt.Errorf("unknown template %q", name)
	}
	return t, nil
}

// RootFiles returns the templates written at the project root, in order.
func RootFiles() []Template {
	return []Template{
		templates[README],
		templates[GitIgnore],
		templates[License],
	}
}
