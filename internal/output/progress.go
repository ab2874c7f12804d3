package output

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

const (
	// SpinnerInterval is the glyph cycle interval of a spinner.
	SpinnerInterval = 120 * time.Millisecond

	// DotsInterval is the dot append interval of dotted progress.
	DotsInterval = 600 * time.Millisecond
)

// progressStyle selects how a ticker renders.
type progressStyle struct {
	frames   []string
	interval time.Duration
	dots     bool
}

var (
	spinnerStyle = progressStyle{frames: spinner.Line.Frames, interval: SpinnerInterval}
	dotsStyle    = progressStyle{frames: []string{"."}, interval: DotsInterval, dots: true}
)

// Progress is a running progress indicator owned by one action.
//
// Start returns immediately; Stop blocks until the background ticker has
// exited, so nothing the ticker writes can follow the final line.
type Progress struct {
	w      io.Writer
	msg    string
	style  progressStyle
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	onStop func(*Progress)
}

// startProgress starts a ticker goroutine writing to w.
func startProgress(w io.Writer, msg string, style progressStyle) *Progress {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Progress{
		w:      w,
		msg:    msg,
		style:  style,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if style.dots {
		fmt.Fprint(w, msg)
	} else {
		fmt.Fprintf(w, "%s %s", style.frames[0], msg)
	}

	go p.run(ctx)
	return p
}

// noopProgress is returned when interactive output is disabled.
func noopProgress() *Progress {
	return &Progress{}
}

func (p *Progress) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.style.interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame++
			if p.style.dots {
				fmt.Fprint(p.w, ".")
			} else {
				fmt.Fprintf(p.w, "\r%s %s", p.style.frames[frame%len(p.style.frames)], p.msg)
			}
		}
	}
}

// Stop halts the ticker, waits for it to exit and prints final as a
// success or failure line. Calling Stop more than once is a no-op.
func (p *Progress) Stop(final string, ok bool) {
	p.once.Do(func() {
		if p.cancel == nil {
			return
		}

		p.cancel()
		<-p.done

		if p.style.dots {
			fmt.Fprintln(p.w)
		} else {
			// Return to column 0 and clear the spinner line.
			fmt.Fprint(p.w, "\r\x1b[K")
		}

		if final != "" {
			if ok {
				fmt.Fprintln(p.w, FormatCheckmark(final))
			} else {
				fmt.Fprintln(p.w, FormatCross(final))
			}
		}

		if p.onStop != nil {
			p.onStop(p)
		}
	})
}

// Running reports whether the ticker goroutine is still alive.
func (p *Progress) Running() bool {
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}
