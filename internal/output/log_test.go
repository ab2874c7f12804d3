package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_DefaultInfoLevel(t *testing.T) {
	l := NewLogger(&bytes.Buffer{}, LogConfig{})
	assert.Equal(t, log.InfoLevel, l.GetLevel())
}

func TestNewLogger_VerboseEnablesDebugLevel(t *testing.T) {
	l := NewLogger(&bytes.Buffer{}, LogConfig{Verbose: true})
	assert.Equal(t, log.DebugLevel, l.GetLevel())
}

func TestNewLogger_NoTimestampsByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LogConfig{})
	l.Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "[INF]"), "line should start with the level tag: %q", buf.String())
}

func TestNewLogger_TimestampsExplicit(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LogConfig{Timestamps: BoolPtr(true)})
	l.Info("hello")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}`, buf.String())
}

func TestNewLogger_ErrorPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LogConfig{})
	l.Error("cargo not found")
	assert.Contains(t, buf.String(), "[ERR] cargo not found")
}
