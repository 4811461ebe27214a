// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting and delegate
// business logic to services.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	failMark = color.New(color.FgRed).Sprint("✗")

	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

const rule = "────────────────────────────────────────────────────────────────"

// errFailed is returned after a failure has already been printed, so the
// command exits non-zero without repeating the message.
type errFailed struct{ msg string }

func (e *errFailed) Error() string { return e.msg }

func failed(format string, args ...any) error {
	return &errFailed{msg: fmt.Sprintf(format, args...)}
}

// printLog writes an indented processing log.
func printLog(out io.Writer, log string) {
	if log == "" {
		return
	}
	fmt.Fprintln(out, bold("Processing log:"))
	for _, line := range strings.Split(strings.TrimRight(log, "\n"), "\n") {
		fmt.Fprintf(out, "  %s\n", dim(line))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
