package output

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/opmodel/cratekit/internal/action"
)

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		name     string
		kind     action.Kind
		wantBold bool
		wantFG   lipgloss.TerminalColor
		wantDim  bool
	}{
		{name: "created returns green", kind: action.Created, wantFG: ColorGreen},
		{name: "skipped returns faint", kind: action.Skipped, wantDim: true},
		{name: "backed up returns yellow", kind: action.BackedUp, wantFG: ColorYellow},
		{name: "simulated returns blue", kind: action.Simulated, wantFG: ColorBlue},
		{name: "failed returns bold red", kind: action.Failed, wantBold: true, wantFG: ColorBoldRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := StatusStyle(tt.kind)
			assert.Equal(t, tt.wantBold, style.GetBold())
			assert.Equal(t, tt.wantDim, style.GetFaint())
			if tt.wantFG != nil {
				assert.Equal(t, tt.wantFG, style.GetForeground())
			}
		})
	}
}

func TestFormatCheckmarkAndCross(t *testing.T) {
	assert.Contains(t, FormatCheckmark("done"), "✔")
	assert.Contains(t, FormatCheckmark("done"), "done")
	assert.Contains(t, FormatCross("failed"), "✘")
}
