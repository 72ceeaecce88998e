package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/rtgen/internal/errors"
)

// DiagnosticReporter prints failed runs with location, context and hints
type DiagnosticReporter struct {
	out     io.Writer
	verbose bool
}

// NewDiagnosticReporter creates a reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{out: out, verbose: verbose}
}

// ReportError prints err. Collections are reported one entry at a time.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(r.out, "\nERROR: Generation Failed\n")
	fmt.Fprintf(r.out, "========================\n\n")

	var multi *errors.MultipleErrors
	if errors.As(err, &multi) {
		for i, e := range multi.Errors {
			fmt.Fprintf(r.out, "[%d/%d] ", i+1, len(multi.Errors))
			r.reportOne(e)
		}
		return
	}
	r.reportOne(err)
}

func (r *DiagnosticReporter) reportOne(err error) {
	var rt errors.RtError
	if !errors.As(err, &rt) {
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
		r.printHints(errors.AllHints(err))
		return
	}

	title := rt.ErrorCode().Title()
	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("-", len(title)+6))
	fmt.Fprintf(r.out, "Message: %s\n", err.Error())

	if loc := rt.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n", loc.String())
	}
	if fields := rt.Fields(); len(fields) > 0 {
		r.printContext(fields)
	}
	if r.verbose && rt.Unwrap() != nil {
		fmt.Fprintf(r.out, "Underlying cause: %+v\n", rt.Unwrap())
	}
	r.printHints(errors.AllHints(err))
	fmt.Fprintln(r.out)
}

func (r *DiagnosticReporter) printContext(fields []errors.Field) {
	fmt.Fprintf(r.out, "Context:\n")
	for _, f := range fields {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(f.Key), f.Value)
	}
}

// formatContextKey turns snake_case keys into Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) printHints(hints []string) {
	if len(hints) == 0 {
		return
	}
	fmt.Fprintf(r.out, "Suggestions:\n")
	for _, h := range hints {
		fmt.Fprintf(r.out, "   - %s\n", h)
	}
}
