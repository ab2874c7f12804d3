package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// lockedBuffer is a bytes.Buffer safe for the ticker goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStopJoinsTicker(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf lockedBuffer
	style := spinnerStyle
	style.interval = 5 * time.Millisecond

	p := startProgress(&buf, "initializing demo", style)
	assert.True(t, p.Running())
	time.Sleep(40 * time.Millisecond)
	p.Stop("initialized demo", true)

	assert.False(t, p.Running())
	out := buf.String()
	assert.Contains(t, out, "initializing demo")
	assert.Contains(t, out, "\r")
	assert.True(t, strings.HasSuffix(out, "initialized demo\n"), "final line must come last: %q", out)

	// Nothing is written after Stop returns.
	before := buf.String()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, buf.String())
}

func TestDotsAppendDots(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf lockedBuffer
	style := dotsStyle
	style.interval = 5 * time.Millisecond

	p := startProgress(&buf, "committing", style)
	time.Sleep(40 * time.Millisecond)
	p.Stop("git repository initialized", false)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "committing."), "dots follow the message: %q", out)
	assert.Contains(t, out, "git repository initialized")
}

func TestStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf lockedBuffer
	p := startProgress(&buf, "work", spinnerStyle)
	p.Stop("done", true)
	p.Stop("done again", true)

	assert.Equal(t, 1, strings.Count(buf.String(), "done"))
}

func TestNoopProgress(t *testing.T) {
	p := noopProgress()
	assert.False(t, p.Running())
	p.Stop("ignored", true)
}

func TestReporterDegradesWhenNotInteractive(t *testing.T) {
	defer goleak.VerifyNone(t)

	var errBuf bytes.Buffer
	r := NewReporter(ReporterOptions{Out: &bytes.Buffer{}, Err: &errBuf})

	p := r.StartSpinner("initializing demo")
	assert.False(t, p.Running())
	p.Stop("initialized demo", true)

	out := errBuf.String()
	assert.Equal(t, 1, strings.Count(out, "initializing demo"))
	assert.NotContains(t, out, "initialized demo")
}

func TestReporterKeepsOneLiveIndicator(t *testing.T) {
	defer goleak.VerifyNone(t)

	var errBuf lockedBuffer
	r := NewReporter(ReporterOptions{Out: &bytes.Buffer{}, Err: &errBuf, Interactive: true})

	first := r.StartSpinner("first")
	second := r.StartDots("second")

	assert.False(t, first.Running(), "starting a new indicator stops the previous one")
	assert.True(t, second.Running())

	second.Stop("second done", true)
	assert.Nil(t, r.active)
}
