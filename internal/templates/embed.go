// Package templates provides the embedded files written into a scaffolded
// project and their rendering.
package templates

import (
	"embed"
	"time"

	"github.com/opmodel/cratekit/internal/config"
)

//go:embed files/*
var filesFS embed.FS

// TemplateData contains data for template rendering.
type TemplateData struct {
	// Name is the project name (e.g., "my-app").
	Name string

	// CrateIdent is Name as a Rust identifier (e.g., "my_app").
	CrateIdent string

	// Description is the one-line project description.
	Description string

	// Author is optional.
	Author string

	// License is the SPDX license identifier.
	License string

	// Edition is the Rust edition.
	Edition string

	// Year is the copyright year.
	Year int
}

// NewTemplateData builds template data from the run config.
func NewTemplateData(cfg config.Config, now time.Time) TemplateData {
	return TemplateData{
		Name:        cfg.Name,
		CrateIdent:  CrateIdent(cfg.Name),
		Description: cfg.Description,
		Author:      cfg.Author,
		License:     cfg.License,
		Edition:     cfg.Edition,
		Year:        now.Year(),
	}
}
