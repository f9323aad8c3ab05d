package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w while a long computation runs. On
// anything but a terminal it stays silent. It stops on Stop or when ctx
// is done, whichever comes first.
type spinner struct {
	w     io.Writer
	msg   string
	start time.Time
	live  bool

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once
	width  int // of the last rendered line
}

// newSpinner starts a spinner. Callers must call Stop.
func newSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:      w,
		msg:    msg,
		start:  time.Now(),
		live:   isTerminal(w),
		parent: ctx,
		ctx:    sctx,
		cancel: cancel,
		exited: make(chan struct{}),
	}
	go s.run()
	return s
}

// isTerminal reports whether w is a character device we can redraw on.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *spinner) run() {
	defer close(s.exited)
	if !s.live {
		<-s.ctx.Done()
		return
	}
	t := time.NewTicker(spinnerInterval)
	defer t.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-t.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

// draw renders one frame; runs on the spinner goroutine only.
func (s *spinner) draw(frame string) {
	line := frame + " " + s.msg
	if d := time.Since(s.start); d >= time.Second {
		line += fmt.Sprintf(" %ds", int(d.Seconds()))
	}
	s.width = len([]rune(line))
	fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(line[len(frame)+1:]))
}

func (s *spinner) clear() {
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%*s\r", s.width, "")
	}
}

// Stop halts the animation and clears the line. It is safe to call more
// than once and returns the time elapsed since the spinner started.
func (s *spinner) Stop() time.Duration {
	s.once.Do(s.cancel)
	<-s.exited
	return time.Since(s.start)
}

// Canceled reports whether the caller's context ended before Stop.
func (s *spinner) Canceled() bool {
	return s.parent.Err() != nil
}
