package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Span is a minimal source range, duplicated from ast.Span to avoid a
// dependency cycle (ast imports nothing from errors, but several
// non-ast components such as the parser need to report spans before
// any AST node exists).
type Span struct {
	File                           string
	StartLine, StartCol, EndLine, EndCol int
}

// Report is the kernel's canonical structured error: a stable code, a
// human-readable message, and the source span or node identity when
// available, per spec.md §7's "user-visible failure" contract.
type Report struct {
	Code    string
	Phase   string
	Message string
	Span    *Span
	Data    map[string]any
}

func (r *Report) Error() string {
	if r.Span != nil {
		return fmt.Sprintf("%s: %s (%s:%d:%d)", r.Code, r.Message, r.Span.File, r.Span.StartLine, r.Span.StartCol)
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// New constructs a Report, looking up phase metadata from the registry.
func New(code, message string, span *Span) *Report {
	info, ok := Registry[code]
	phase := "unknown"
	if ok {
		phase = info.Phase
	}
	return &Report{Code: code, Phase: phase, Message: message, Span: span}
}

// AsReport extracts a *Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var r *Report
	if stderrors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// Collector aggregates multiple Reports the way the parser accumulates
// syntax errors or a batch `add` accumulates type errors, instead of
// threading a hand-rolled []error through every call site.
type Collector struct {
	err *multierror.Error
}

// Add appends a Report to the collector; nil is ignored.
func (c *Collector) Add(r *Report) {
	if r == nil {
		return
	}
	c.err = multierror.Append(c.err, r)
}

// HasErrors reports whether any Report has been added.
func (c *Collector) HasErrors() bool {
	return c.err != nil && c.err.Len() > 0
}

// Err returns the aggregated error, or nil if the collector is empty.
func (c *Collector) Err() error {
	if c.err == nil {
		return nil
	}
	return c.err.ErrorOrNil()
}

// Reports returns the individual Reports collected so far.
func (c *Collector) Reports() []*Report {
	if c.err == nil {
		return nil
	}
	out := make([]*Report, 0, len(c.err.Errors))
	for _, e := range c.err.Errors {
		if r, ok := e.(*Report); ok {
			out = append(out, r)
		}
	}
	return out
}
