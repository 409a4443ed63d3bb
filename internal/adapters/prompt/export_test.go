package prompt

import "io"

// NewWith creates a Prompter on the given streams.
func NewWith(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{in: in, out: out, isTerminal: func() bool { return interactive }}
}
