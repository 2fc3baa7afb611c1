// Package diag carries generation diagnostics: hard errors that abort one
// element, and warnings that do not.
package diag

import (
	"errors"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"
)

type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Hard generation errors. Each aborts generation for one element only.
var (
	ErrAbstractClass               = errors.New("class is abstract")
	ErrPrivateClass                = errors.New("class is private")
	ErrNoAccessibleConstructor     = errors.New("class has no accessible constructor")
	ErrImmutableField              = errors.New("field is final or static")
	ErrInaccessibleMethod          = errors.New("method is not accessible from outside the class")
	ErrNoSetter                    = errors.New("field is not accessible and has no accessible setter")
	ErrMutatorCollision            = errors.New("mutator name is already generated from another member")
	ErrBuilderCollision            = errors.New("builder name is already generated from another class")
	ErrNonNullWithoutBuildingBlock = errors.New("null check requires the member to be a building block")
	ErrPersist                     = errors.New("cannot persist builder")
)

// Warnings.
var (
	WarnPublicConstructor     = errors.New("class has a public constructor")
	WarnDiscardedReturn       = errors.New("method return value is discarded by the builder")
	WarnEnclosingNotBuildable = errors.New("enclosing class is not buildable")
)

// Diagnostic is one reported problem. It implements error so callers can
// match the cause with errors.Is.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Element  string   `json:"element" yaml:"element"` // e.g. "field geo.Point.x"
	Message  string   `json:"message" yaml:"message"`
	Err      error    `json:"-" yaml:"-"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Element, d.Message)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Reporter is the diagnostics channel consumed by the engine.
type Reporter interface {
	Report(d Diagnostic)
}

// Collector records diagnostics for one pass and mirrors them to a logger.
type Collector struct {
	items  []Diagnostic
	logger *slog.Logger
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{logger: logger}
}

func (c *Collector) Report(d Diagnostic) {
	if d.Message == "" && d.Err != nil {
		d.Message = d.Err.Error()
	}
	c.items = append(c.items, d)

	l := c.logger.With("element", d.Element)
	if d.Err != nil {
		l = l.With("cause", d.Err)
	}
	switch d.Severity {
	case Error:
		l.Error(d.Message)
	default:
		l.Warn(d.Message)
	}
}

// Errorf reports an error diagnostic caused by cause.
func (c *Collector) Errorf(element string, cause error, format string, args ...any) {
	c.Report(Diagnostic{Severity: Error, Element: element, Message: fmt.Sprintf(format, args...), Err: cause})
}

// Warnf reports a warning diagnostic caused by cause.
func (c *Collector) Warnf(element string, cause error, format string, args ...any) {
	c.Report(Diagnostic{Severity: Warning, Element: element, Message: fmt.Sprintf(format, args...), Err: cause})
}

func (c *Collector) All() []Diagnostic {
	return append([]Diagnostic(nil), c.items...)
}

func (c *Collector) Errors() []Diagnostic   { return c.filter(Error) }
func (c *Collector) Warnings() []Diagnostic { return c.filter(Warning) }

func (c *Collector) HasErrors() bool {
	return len(c.Errors()) > 0
}

// Err combines every error diagnostic into one error, or nil.
func (c *Collector) Err() error {
	var err error
	for _, d := range c.Errors() {
		err = multierr.Append(err, d)
	}
	return err
}

func (c *Collector) filter(s Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.items {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}
