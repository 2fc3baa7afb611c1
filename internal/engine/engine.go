// Package engine turns structural facts into builder class IR and renders
// it. One Context is one generation pass: rules run in a fixed order over
// every element, then Emit renders the stabilized registry.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/cmmoran/buildergen/internal/diag"
	"github.com/cmmoran/buildergen/internal/facts"
	"github.com/cmmoran/buildergen/internal/model"
	"github.com/cmmoran/buildergen/internal/registry"
)

// Config holds the naming conventions of generated builders.
type Config struct {
	Suffix      string // appended to the source simple name
	ObjectName  string // held-instance field
	ParamPrefix string // parameters are named prefix + position
	BuildMethod string // terminal accessor
	LoggerName  string // class-scoped logger created by the log null-check
}

func DefaultConfig() Config {
	return Config{
		Suffix:      "Builder",
		ObjectName:  "object",
		ParamPrefix: "param",
		BuildMethod: "build",
		LoggerName:  "LOG",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Suffix == "" {
		c.Suffix = d.Suffix
	}
	if c.ObjectName == "" {
		c.ObjectName = d.ObjectName
	}
	if c.ParamPrefix == "" {
		c.ParamPrefix = d.ParamPrefix
	}
	if c.BuildMethod == "" {
		c.BuildMethod = d.BuildMethod
	}
	if c.LoggerName == "" {
		c.LoggerName = d.LoggerName
	}
	return c
}

// skeleton is a builder whose class node passed the skeleton rule.
type skeleton struct {
	key    string // registry key, the qualified builder name
	class  *model.Clazz
	held   string // held-instance type
	source *facts.Class
}

// Context is the state of one generation pass. It is not safe for
// concurrent use.
type Context struct {
	Config   Config
	Facts    *facts.Set
	Registry *registry.Registry
	Reporter diag.Reporter
	Logger   *slog.Logger

	skeletons map[string]*skeleton // by qualified source class name
	origins   map[string]string    // "builder#mutator" -> generating member
	guarded   map[string]bool      // "builder#mutator" already null-checked
}

func NewContext(cfg Config, set *facts.Set, reporter diag.Reporter, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	if reporter == nil {
		reporter = diag.NewCollector(logger)
	}
	if set == nil {
		set, _ = facts.NewSet()
	}
	return &Context{
		Config:    cfg.withDefaults(),
		Facts:     set,
		Registry:  registry.New(),
		Reporter:  reporter,
		Logger:    logger,
		skeletons: make(map[string]*skeleton),
		origins:   make(map[string]string),
		guarded:   make(map[string]bool),
	}
}

// Result is the outcome of one pass.
type Result struct {
	Artifacts   []Artifact
	Diagnostics []diag.Diagnostic
}

// HasErrors reports whether any element failed with a hard error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

// Generate runs one complete pass over set and hands every rendered
// builder to filer. A nil filer renders without persisting. The returned
// error aggregates persistence failures only; generation problems are in
// Result.Diagnostics.
func Generate(cfg Config, set *facts.Set, filer Filer, logger *slog.Logger) (*Result, error) {
	collector := diag.NewCollector(logger)
	ctx := NewContext(cfg, set, collector, logger)

	ctx.Run()
	artifacts, err := ctx.Emit(filer)

	return &Result{
		Artifacts:   artifacts,
		Diagnostics: collector.All(),
	}, err
}

// Run applies every rule of the pipeline in order.
func (c *Context) Run() {
	for _, r := range Pipeline {
		c.Apply(r)
	}
}

// Apply runs one rule over every element it handles, in facts order.
func (c *Context) Apply(r Rule) {
	n := 0
	for _, el := range c.elements() {
		if !r.Handles(el) {
			continue
		}
		n++
		switch r {
		case RuleSkeleton:
			c.applySkeleton(el.class)
		case RuleMutator:
			c.applyMutator(el)
		case RuleValidation:
			c.applyValidation(el)
		}
	}
	c.Logger.With("rule", r.String(), "elements", n).Info("applied rule")
}

func (c *Context) errorf(el element, cause error, format string, args ...any) {
	c.report(diag.Error, el, cause, format, args...)
}

func (c *Context) warnf(el element, cause error, format string, args ...any) {
	c.report(diag.Warning, el, cause, format, args...)
}

func (c *Context) report(s diag.Severity, el element, cause error, format string, args ...any) {
	d := diag.Diagnostic{Severity: s, Element: el.String(), Err: cause}
	if format != "" {
		d.Message = fmt.Sprintf(format, args...)
	}
	c.Reporter.Report(d)
}

func (c *Context) debug(el element, msg string, args ...any) {
	c.Logger.With("element", el.String()).Debug(msg, args...)
}
