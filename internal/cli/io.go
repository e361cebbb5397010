package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// IO carries a command's streams.
type IO struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

// NewIO creates a new IO instance. in may be nil when no input is expected.
func NewIO(in io.Reader, out, errOut io.Writer) *IO {
	if in == nil {
		in = strings.NewReader("")
	}
	return &IO{in: bufio.NewReader(in), out: out, errOut: errOut}
}

func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.out, a...)
}

func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.out, format, a...)
}

func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Confirm prints question and reads one line of input. Only y or yes
// (any case) count as agreement; end of input declines.
func (o *IO) Confirm(question string) bool {
	o.Printf("%s [y/N] ", question)
	line, _ := o.in.ReadString('\n')
	o.Println()
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
