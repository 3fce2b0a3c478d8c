// Package notifier renders user-facing messages and progress traces of the
// agents on a terminal.
package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/secmon-lab/analytics-agent/pkg/utils/msg"
)

// Console writes notifications to out and traces to traceOut. Traces are
// dimmed so that replies stand out.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	traceOut io.Writer
	quiet    bool

	notify *color.Color
	trace  *color.Color
	err    *color.Color
}

type ConsoleOption func(*Console)

// WithQuietTrace drops traces.
func WithQuietTrace(quiet bool) ConsoleOption {
	return func(c *Console) {
		c.quiet = quiet
	}
}

// WithNoColor disables colors, for files and tests.
func WithNoColor() ConsoleOption {
	return func(c *Console) {
		c.notify.DisableColor()
		c.trace.DisableColor()
		c.err.DisableColor()
	}
}

func NewConsole(out, traceOut io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:      out,
		traceOut: traceOut,
		notify:   color.New(color.FgHiWhite, color.Bold),
		trace:    color.New(color.FgHiBlack),
		err:      color.New(color.FgRed, color.Bold),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) Notify(ctx context.Context, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.notify.Fprintln(c.out, message)
}

func (c *Console) Trace(ctx context.Context, message string) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		_, _ = c.trace.Fprintln(c.traceOut, "  "+line)
	}
}

// Bind registers c as the message sink of ctx.
func (c *Console) Bind(ctx context.Context) context.Context {
	return msg.With(ctx, c.Notify, c.Trace)
}

// Errorf prints an error line to out.
func (c *Console) Errorf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.err.Fprintf(c.out, "❌ "+format+"\n", args...)
}

// Printf writes plain text to out.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}
