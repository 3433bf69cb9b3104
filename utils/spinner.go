package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

var spinnerFrames = []rune(`⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`)

// Spinner is a terminal progress indicator. It draws a rotating frame after
// its message and the stage the tracing has reached, which Stage updates
// while the spinner runs.
type Spinner struct {
	// StopMsg is printed in place of the indicator by Stop.
	StopMsg string

	mu         sync.Mutex
	w          io.Writer
	delay      time.Duration
	message    string
	stage      string
	frame      int
	width      int // runes drawn by the last frame
	hideCursor bool
	running    bool
	stop       chan struct{}
	done       chan struct{}
}

// NewSpinner returns a spinner drawing msg on stderr every d.
func NewSpinner(msg string, d time.Duration, hideCursor bool) *Spinner {
	return &Spinner{
		w:          os.Stderr,
		delay:      d,
		message:    msg,
		hideCursor: hideCursor,
	}
}

// Start starts drawing the indicator. Starting a running spinner does
// nothing.
func (s *Spinner) Start() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stage = ""
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	if s.hideCursor && runtime.GOOS != "windows" {
		fmt.Fprint(s.w, "\033[?25l")
	}
	s.draw()

	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		t := time.NewTicker(s.delay)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				s.mu.Lock()
				s.frame++
				s.draw()
				s.mu.Unlock()
			}
		}
	}(s.stop, s.done)
}

// Stage replaces the stage shown after the message and redraws the
// indicator. It is safe to call on a stopped spinner. Like every Spinner
// method it does nothing on a nil one.
func (s *Spinner) Stage(format string, args ...any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = fmt.Sprintf(format, args...)
	if s.running {
		s.draw()
	}
}

// Stop clears the indicator and prints StopMsg. It waits for the drawing
// goroutine to return.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.halt()
}

// StopWith sets StopMsg to msg and stops the spinner. Goroutines sharing a
// spinner use it instead of setting StopMsg themselves.
func (s *Spinner) StopWith(msg string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.StopMsg = msg
	s.halt()
}

// halt stops the drawing goroutine and prints StopMsg. It is called with
// the lock held and releases it.
func (s *Spinner) halt() {
	if !s.running {
		if s.StopMsg != "" {
			fmt.Fprint(s.w, s.StopMsg)
		}
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.RestoreCursor()
	if s.StopMsg != "" {
		fmt.Fprint(s.w, s.StopMsg)
	}
}

// RestoreCursor makes the cursor visible again.
func (s *Spinner) RestoreCursor() {
	if s != nil && s.hideCursor && runtime.GOOS != "windows" {
		fmt.Fprint(s.w, "\033[?25h")
	}
}

// draw redraws the current frame. Caller must hold the lock.
func (s *Spinner) draw() {
	s.clear()
	out := fmt.Sprintf("%s%s %c%s", s.message, SuccessColor, spinnerFrames[s.frame%len(spinnerFrames)], DefaultColor)
	if s.stage != "" {
		out += " " + s.stage
	}
	fmt.Fprint(s.w, "\r"+out)
	s.width = utf8.RuneCountInString(out)
}

// clear erases the last frame. Caller must hold the lock.
func (s *Spinner) clear() {
	if s.width == 0 {
		return
	}
	if runtime.GOOS == "windows" {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
	} else {
		fmt.Fprint(s.w, "\r\033[K") // clear line
	}
	s.width = 0
}
