package commands

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner draws a loading indicator on a terminal while the counter has
// pending requests.
type Spinner struct {
	w        io.Writer
	counter  *admin.PendingCounter
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// StartSpinner starts a spinner on w when w is a terminal. On anything else
// the returned spinner does nothing.
func StartSpinner(w io.Writer, counter *admin.PendingCounter) *Spinner {
	return startSpinner(w, counter, isTerminal(w), constants.SpinnerInterval)
}

func startSpinner(w io.Writer, counter *admin.PendingCounter, enabled bool, interval time.Duration) *Spinner {
	s := &Spinner{
		w:        w,
		counter:  counter,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if !enabled || counter == nil {
		close(s.done)

		return s
	}

	go s.run()

	return s
}

func (s *Spinner) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	frame := 0
	visible := false

	for {
		select {
		case <-s.stop:
			if visible {
				s.clear()
			}

			return
		case <-ticker.C:
			if s.counter.Busy() {
				_, _ = fmt.Fprintf(s.w, "\r%s Loading...", spinnerFrames[frame%len(spinnerFrames)])
				frame++
				visible = true

				continue
			}

			if visible {
				s.clear()
				visible = false
			}
		}
	}
}

func (s *Spinner) clear() {
	_, _ = fmt.Fprint(s.w, "\r\033[K")
}

// Stop erases the spinner and waits for it to exit. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}

	s.stopOnce.Do(func() {
		close(s.stop)
	})

	<-s.done
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
