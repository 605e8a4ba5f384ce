package runtime

import (
	"io"
	"log/slog"
)

// Context is the collaborator threaded through every Execute call and
// through object printing: it carries at least an output sink for `print`
// (§4.6). As an ambient-stack addition it also carries a structured logger
// for internal evaluator diagnostics; nothing written through Log affects a
// program's observable Output.
type Context struct {
	Output io.Writer
	Log    *slog.Logger
}

// NewContext builds a Context writing program output to out. If log is nil,
// diagnostics are discarded.
func NewContext(out io.Writer, log *slog.Logger) *Context {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Context{Output: out, Log: log}
}
