// Package printer writes user-facing status lines for the CLI.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Out is where status lines go. Tests may swap it.
var Out io.Writer = os.Stderr

// Success prints a green line prefixed with a checkmark.
func Success(format string, a ...any) {
	_, _ = green.Fprintf(Out, "✓ %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Step prints a progress line.
func Step(format string, a ...any) {
	_, _ = cyan.Fprintf(Out, "⚙️  %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Warning prints a yellow warning line.
func Warning(format string, a ...any) {
	_, _ = yellow.Fprintf(Out, "⚠️  %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Failure prints a red line prefixed with a cross.
func Failure(format string, a ...any) {
	_, _ = red.Fprintf(Out, "✗ %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Banner prints a boxed title.
func Banner(title string) {
	rule := strings.Repeat("═", 59)
	_, _ = fmt.Fprintf(Out, "\n%s\n  %s\n%s\n\n", rule, title, rule)
}
