package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel is the most detailed kind of message that is printed
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

type messageStyle struct {
	level  DiagnosticLevel
	label  string
	attr   color.Attribute
	stderr bool
}

var (
	styleError   = messageStyle{DiagnosticError, "ERROR", color.FgRed, true}
	styleWarn    = messageStyle{DiagnosticWarn, "WARN", color.FgYellow, false}
	styleInfo    = messageStyle{DiagnosticInfo, "INFO", color.FgBlue, false}
	styleSuccess = messageStyle{DiagnosticInfo, "OK", color.FgGreen, false}
	styleVerbose = messageStyle{DiagnosticVerbose, "VERBOSE", color.FgHiBlack, false}
	styleDebug   = messageStyle{DiagnosticDebug, "DEBUG", color.FgMagenta, false}
)

// Stat is one line of a run summary
type Stat struct {
	Name  string
	Value any
}

// DiagnosticSystem writes levelled terminal output for a generation run.
// Workers share one instance, so every write holds the lock.
type DiagnosticSystem struct {
	mu       sync.Mutex
	level    DiagnosticLevel
	colors   bool
	stamps   bool
	out      io.Writer
	errOut   io.Writer
	depth    int
	warnings int
	errors   int
}

// NewDiagnosticSystem writes to stdout and stderr. Colours follow
// fatih/color's terminal detection; timestamps appear from verbose up.
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:  level,
		colors: !color.NoColor,
		stamps: level >= DiagnosticVerbose,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// NewBufferedDiagnostics writes everything to w, plain, for tests and
// captured output
func NewBufferedDiagnostics(level DiagnosticLevel, w io.Writer) *DiagnosticSystem {
	return &DiagnosticSystem{level: level, out: w, errOut: w}
}

// SetOutput redirects normal and error output
func (d *DiagnosticSystem) SetOutput(out, errOut io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out, d.errOut = out, errOut
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// WarningCount counts every warning, printed or not
func (d *DiagnosticSystem) WarningCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.warnings
}

// ErrorCount counts every error, printed or not
func (d *DiagnosticSystem) ErrorCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errors
}

// Error reports a failure on the error output. Errors are counted even when
// the level is silent.
func (d *DiagnosticSystem) Error(format string, args ...any) {
	d.mu.Lock()
	d.errors++
	d.mu.Unlock()
	d.message(styleError, format, args...)
}

// Warn reports a recoverable problem. Warnings are counted even when the
// level suppresses them.
func (d *DiagnosticSystem) Warn(format string, args ...any) {
	d.mu.Lock()
	d.warnings++
	d.mu.Unlock()
	d.message(styleWarn, format, args...)
}

func (d *DiagnosticSystem) Info(format string, args ...any) { d.message(styleInfo, format, args...) }
func (d *DiagnosticSystem) Success(format string, args ...any) {
	d.message(styleSuccess, format, args...)
}
func (d *DiagnosticSystem) Verbose(format string, args ...any) {
	d.message(styleVerbose, format, args...)
}
func (d *DiagnosticSystem) Debug(format string, args ...any) { d.message(styleDebug, format, args...) }

// Section prints a heading
func (d *DiagnosticSystem) Section(title string) {
	if d.level >= DiagnosticInfo {
		d.write(false, d.paint(color.FgCyan, "rtgen: "+title)+"\n")
	}
}

// List prints a bullet at the current nesting depth
func (d *DiagnosticSystem) List(format string, args ...any) {
	if d.level >= DiagnosticInfo {
		d.write(false, d.prefix()+"- "+fmt.Sprintf(format, args...)+"\n")
	}
}

// Nested runs fn with output indented one step further
func (d *DiagnosticSystem) Nested(fn func()) {
	d.mu.Lock()
	d.depth++
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.depth--
		d.mu.Unlock()
	}()
	fn()
}

// Summary prints stats in the given order under title
func (d *DiagnosticSystem) Summary(title string, stats ...Stat) {
	if d.level < DiagnosticInfo {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", title)
	for _, s := range stats {
		fmt.Fprintf(&b, "   %s: %v\n", s.Name, s.Value)
	}
	d.write(false, b.String())
}

func (d *DiagnosticSystem) message(style messageStyle, format string, args ...any) {
	if d.level < style.level {
		return
	}
	var b strings.Builder
	b.WriteString(d.prefix())
	if d.stamps {
		b.WriteString(time.Now().Format("15:04:05 "))
	}
	b.WriteString(d.paint(style.attr, "["+style.label+"]"))
	b.WriteByte(' ')
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')
	d.write(style.stderr, b.String())
}

func (d *DiagnosticSystem) write(stderr bool, s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.out
	if stderr {
		w = d.errOut
	}
	io.WriteString(w, s)
}

func (d *DiagnosticSystem) paint(attr color.Attribute, s string) string {
	if !d.colors {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func (d *DiagnosticSystem) prefix() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.Repeat("  ", d.depth)
}
