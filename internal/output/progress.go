package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY reports whether w is a file attached to a terminal.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ProgressBar tracks a fixed number of steps, such as files being imported.
// Example: [=========>          ]  45% groceries.csv
//
// On a terminal the bar is redrawn in place. Elsewhere one line is written
// per completed step so logs stay readable.
type ProgressBar struct {
	mu      sync.Mutex
	w       io.Writer
	tty     bool
	total   int
	current int
	width   int
	label   string
}

// NewProgress creates a progress bar of total steps writing to w.
func NewProgress(w io.Writer, total int) *ProgressBar {
	return &ProgressBar{
		w:     w,
		tty:   writerIsTTY(w),
		total: total,
		width: 30,
	}
}

// Step advances the bar by one and labels it with the item just handled.
func (p *ProgressBar) Step(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.total {
		p.current++
	}
	p.label = label
	p.render()
}

// Current returns the number of completed steps.
func (p *ProgressBar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Finish ends the in-place line on a terminal.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tty {
		fmt.Fprintln(p.w)
	}
}

// render must be called with p.mu held.
func (p *ProgressBar) render() {
	percentage := 100
	filled := p.width
	if p.total > 0 {
		percentage = p.current * 100 / p.total
		filled = p.current * p.width / p.total
	}

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < p.width; i++ {
		switch {
		case i < filled-1:
			bar.WriteString("=")
		case i == filled-1:
			bar.WriteString(">")
		default:
			bar.WriteString(" ")
		}
	}
	bar.WriteString("]")

	if p.tty {
		fmt.Fprintf(p.w, "\r%s %3d%% %s", bar.String(), percentage, p.label)
		return
	}
	fmt.Fprintf(p.w, "%s %3d%% %s\n", bar.String(), percentage, p.label)
}

// Spinner animates while a mining run is in progress.
// Example: |  Mining groceries (3s elapsed)
//
// On anything other than a terminal the message is printed once and no
// goroutine is started.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	message string
	running bool
	start   time.Time
	done    chan struct{}
	stopped chan struct{}
}

var spinnerFrames = []string{"|", "/", "-", "\\"}

// NewSpinner creates a spinner writing to w. It does not start it.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{w: w, message: message}
}

// Start begins the animation. Calling Start twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.start = time.Now()

	if !writerIsTTY(s.w) {
		fmt.Fprintf(s.w, "%s...\n", s.message)
		return
	}

	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.loop(s.done, s.stopped)
}

func (s *Spinner) loop(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for idx := 0; ; idx = (idx + 1) % len(spinnerFrames) {
		select {
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s  %s (%ds elapsed)", spinnerFrames[idx], s.message, int(time.Since(s.start).Seconds()))
			s.mu.Unlock()
		case <-done:
			return
		}
	}
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	done, stopped := s.done, s.stopped
	s.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	<-stopped

	s.mu.Lock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+24))
	s.mu.Unlock()
}
