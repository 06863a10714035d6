package headless

import (
	"fmt"
	"io"
	"sync"

	"github.com/killallgit/scrollback/pkg/logger"
)

// Output writes the replay transcript
type Output struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// Step starts the block of step n
func (o *Output) Step(n int, format string, args ...interface{}) {
	o.printf("#%d %s\n", n, fmt.Sprintf(format, args...))
}

// Event records something the list did during the current step
func (o *Output) Event(format string, args ...interface{}) {
	o.printf("   %s\n", fmt.Sprintf(format, args...))
}

// Result closes the current step with the resulting state
func (o *Output) Result(format string, args ...interface{}) {
	o.printf("   => %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message using the logger
func (o *Output) Error(msg string) {
	logger.Error("%s", msg)
	o.printf("!! %s\n", msg)
}

func (o *Output) printf(format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, format, args...)
}
