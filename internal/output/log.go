// Package output provides terminal output utilities: leveled logging, styles,
// progress indicators and run summaries.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// logger is the process-wide logger used before a Reporter exists.
var logger = NewLogger(os.Stderr, LogConfig{})

// LogConfig holds logging configuration.
type LogConfig struct {
	// Verbose enables debug level and forces timestamps on.
	Verbose bool

	// Timestamps overrides timestamp display. Nil means off unless Verbose.
	Timestamps *bool
}

func (c LogConfig) timestamps() bool {
	if c.Verbose {
		return true
	}
	if c.Timestamps != nil {
		return *c.Timestamps
	}
	return false
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// NewLogger creates a logger writing to w with cratekit's level labels.
func NewLogger(w io.Writer, cfg LogConfig) *log.Logger {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: cfg.timestamps(),
		ReportCaller:    false,
		TimeFormat:      "15:04:05",
	})
	l.SetStyles(levelStyles())
	return l
}

// levelStyles replaces the default level badges with bracketed tags so error
// lines always carry an [ERR] prefix, colored or not.
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().SetString("[DBG]").Faint(true)
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("[INF]").Foreground(ColorCyan)
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("[WRN]").Foreground(ColorYellow)
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("[ERR]").Bold(true).Foreground(ColorBoldRed)
	styles.Levels[log.FatalLevel] = lipgloss.NewStyle().SetString("[FTL]").Bold(true).Foreground(ColorBoldRed)
	return styles
}

// SetupLogging configures the process-wide logger.
func SetupLogging(cfg LogConfig) {
	logger = NewLogger(os.Stderr, cfg)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// Println prints a message to stdout with a newline.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}
