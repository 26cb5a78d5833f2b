// Package ui renders engine diagnostics for terminal consumption.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/compiler/source"
)

// PrintOptions configures diagnostic rendering
type PrintOptions struct {
	// Name is the display name of the source, usually its path
	Name string
	// File supplies source lines for context frames; may be nil
	File *source.File
	// NoColor disables ANSI colors
	NoColor bool
}

// PrintDiagnostics renders diags to w, one block per diagnostic, followed
// by a severity summary line.
func PrintDiagnostics(w io.Writer, diags []errors.Diagnostic, opts PrintOptions) {
	headerFor := map[errors.Severity]*color.Color{
		errors.Error:   color.New(color.FgRed, color.Bold),
		errors.Warning: color.New(color.FgYellow, color.Bold),
		errors.Hint:    color.New(color.FgCyan, color.Bold),
	}
	location := color.New(color.FgWhite)
	gutter := color.New(color.FgBlue)
	marker := color.New(color.FgRed)
	if opts.NoColor {
		for _, c := range headerFor {
			c.DisableColor()
		}
		location.DisableColor()
		gutter.DisableColor()
		marker.DisableColor()
	}

	var nErrors, nWarnings, nHints int
	for _, d := range diags {
		switch d.Severity {
		case errors.Error:
			nErrors++
		case errors.Warning:
			nWarnings++
		case errors.Hint:
			nHints++
		}

		headerFor[d.Severity].Fprintf(w, "%s[%s]", d.Severity, d.Code)
		fmt.Fprintf(w, ": %s\n", d.Message)
		location.Fprintf(w, "  --> %s:%d:%d\n", opts.Name, d.Span.Line, d.Span.Column)

		if opts.File != nil && d.Span.Line >= 1 && d.Span.Line <= opts.File.LineCount() {
			line := opts.File.Line(d.Span.Line)
			gutter.Fprintf(w, "%4d | ", d.Span.Line)
			fmt.Fprintln(w, line)
			gutter.Fprint(w, "     | ")
			pad := d.Span.Column - 1
			if pad < 0 {
				pad = 0
			}
			width := d.Span.End - d.Span.Start
			if width <= 0 || pad+width > len(line) {
				width = 1
			}
			marker.Fprintf(w, "%s%s\n", strings.Repeat(" ", pad), strings.Repeat("^", width))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, Summary(nErrors, nWarnings, nHints, opts.NoColor))
}

// Summary formats a one-line count of findings by severity
func Summary(nErrors, nWarnings, nHints int, noColor bool) string {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	if noColor {
		red.DisableColor()
		yellow.DisableColor()
		cyan.DisableColor()
		green.DisableColor()
	}

	if nErrors == 0 && nWarnings == 0 && nHints == 0 {
		return green.Sprint("no problems found")
	}
	var parts []string
	if nErrors > 0 {
		parts = append(parts, red.Sprintf("%d error(s)", nErrors))
	}
	if nWarnings > 0 {
		parts = append(parts, yellow.Sprintf("%d warning(s)", nWarnings))
	}
	if nHints > 0 {
		parts = append(parts, cyan.Sprintf("%d hint(s)", nHints))
	}
	return strings.Join(parts, ", ")
}
