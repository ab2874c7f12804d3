package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/cratekit/internal/action"
)

// RunReport is the end-of-run summary of a pipeline.
type RunReport struct {
	Project string          `json:"project" yaml:"project"`
	Root    string          `json:"root" yaml:"root"`
	DryRun  bool            `json:"dryRun" yaml:"dryRun"`
	Summary action.Summary  `json:"summary" yaml:"summary"`
	Actions []action.Result `json:"actions" yaml:"actions"`
}

// WriteRunReport writes the report in the requested format.
func WriteRunReport(w io.Writer, format OutputFormat, report RunReport) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, renderRunReportText(report))
		return err
	}
}

func renderRunReportText(report RunReport) string {
	var sb strings.Builder

	sb.WriteString(resultTable(report.Actions))
	sb.WriteString("\n")
	sb.WriteString(RenderCreatedTree(report.Project, report.Actions))

	s := report.Summary
	line := fmt.Sprintf("%d created, %d skipped, %d backed up, %d simulated, %d failed",
		s.Created, s.Skipped, s.BackedUp, s.Simulated, s.Failed)
	if report.DryRun {
		line = "Dry run: " + line
	}
	sb.WriteString(StyleSummary.Render(line))
	sb.WriteString("\n")

	return sb.String()
}
