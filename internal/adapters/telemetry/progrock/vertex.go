package progrock

import (
	"fmt"
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex is the progress record of one planned change.
type Vertex struct {
	rec *progrock.VertexRecorder
}

// Stdout is the change's output stream. LogWriter forwards each line to the logger.
func (v *Vertex) Stdout() io.Writer {
	return v.rec.Stdout()
}

// Log writes msg to the change output, tagged with its level.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.Stdout(), "[%s] %s\n", level, msg)
}

// Complete finishes the change. A nil err marks it done.
func (v *Vertex) Complete(err error) {
	v.rec.Done(err)
}

// Cached finishes a change that needed no work, such as a package carried over unchanged.
func (v *Vertex) Cached() {
	v.rec.Cached()
}
