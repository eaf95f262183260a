package ui

import (
	"fmt"
	"io"
)

// OK prints a success line.
func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymDone+" "+msg))
}

// Fail prints a failure line.
func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// Hint prints a muted line.
func Hint(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Muted.Render(msg))
}
