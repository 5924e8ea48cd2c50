package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// SpinnerInterval is the time between animation frames.
const SpinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a single status line on a terminal while a long
// operation runs. An optional status function is polled on every frame
// and its result appended to the message.
type Spinner struct {
	w       io.Writer
	message string
	status  func() string

	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	started bool
}

// NewSpinner creates a spinner that shows message.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// WithStatus sets a function polled on every frame, for example to show
// a running operation count. It must be called before Start.
func (s *Spinner) WithStatus(fn func() string) *Spinner {
	s.status = fn
	return s
}

// Start starts the animation. It must be called at most once.
func (s *Spinner) Start() {
	s.started = true
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.stopped)
	ticker := time.NewTicker(SpinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprint(s.w, "\r\033[K"+s.line(spinnerFrames[i%len(spinnerFrames)]))
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
	}
}

func (s *Spinner) line(frame string) string {
	if s.status == nil {
		return frame + " " + s.message
	}
	return frame + " " + s.message + " " + s.status()
}

// halt stops the animation goroutine and waits for its last write, so the
// final line is never overwritten by a late frame. It reports whether this
// was the first stop.
func (s *Spinner) halt() bool {
	first := false
	s.once.Do(func() {
		first = true
		close(s.done)
		if s.started {
			<-s.stopped
		}
	})
	return first
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	if s.halt() {
		fmt.Fprint(s.w, "\r\033[K")
	}
}

// Success stops the spinner and leaves a success line.
func (s *Spinner) Success(message string) {
	if s.halt() {
		fmt.Fprintf(s.w, "\r\033[K✓ %s\n", message)
	}
}

// Fail stops the spinner and leaves a failure line.
func (s *Spinner) Fail(message string) {
	if s.halt() {
		fmt.Fprintf(s.w, "\r\033[K✗ %s\n", message)
	}
}
