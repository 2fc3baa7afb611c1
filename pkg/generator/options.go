package generator

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cmmoran/buildergen/internal/engine"
)

// Target is one isolated generation pass: the facts it reads and the root
// its builders are written below.
type Target struct {
	Name   string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" mapstructure:"name,omitempty"`
	Inputs []string `json:"inputs,omitempty" yaml:"inputs,omitempty" toml:"inputs,omitempty" mapstructure:"inputs,omitempty"`
	OutDir string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
}

// Options control discovery input, builder naming and output.
//
// InDir       – directory relative inputs are resolved against
// Inputs      – facts files or directories of the implicit target
// OutDir      – output root of the implicit target
// Suffix      – appended to the source class name, "Builder"
// ObjectName  – held-instance field, "object"
// ParamPrefix – generated parameters are prefix + position, "param"
// BuildMethod – terminal accessor, "build"
// LoggerName  – logger field added by the log null-check, "LOG"
// Manifest    – manifest file; relative paths are resolved against OutDir
// Targets     – independent passes; when empty one target is built from
// Inputs and OutDir.
type Options struct {
	InDir       string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	Inputs      []string `json:"inputs,omitempty" yaml:"inputs,omitempty" toml:"inputs,omitempty" mapstructure:"inputs,omitempty"`
	OutDir      string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	Suffix      string   `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty" mapstructure:"suffix,omitempty"`
	ObjectName  string   `json:"object_name,omitempty" yaml:"object_name,omitempty" toml:"object_name,omitempty" mapstructure:"object_name,omitempty"`
	ParamPrefix string   `json:"param_prefix,omitempty" yaml:"param_prefix,omitempty" toml:"param_prefix,omitempty" mapstructure:"param_prefix,omitempty"`
	BuildMethod string   `json:"build_method,omitempty" yaml:"build_method,omitempty" toml:"build_method,omitempty" mapstructure:"build_method,omitempty"`
	LoggerName  string   `json:"logger_name,omitempty" yaml:"logger_name,omitempty" toml:"logger_name,omitempty" mapstructure:"logger_name,omitempty"`
	Manifest    string   `json:"manifest,omitempty" yaml:"manifest,omitempty" toml:"manifest,omitempty" mapstructure:"manifest,omitempty"`
	Targets     []Target `json:"targets,omitempty" yaml:"targets,omitempty" toml:"targets,omitempty" mapstructure:"targets,omitempty"`
}

func NewOptions(opts ...Option) *Options {
	o := &Options{
		InDir:       ".",
		OutDir:      "generated",
		Suffix:      "Builder",
		ObjectName:  "object",
		ParamPrefix: "param",
		BuildMethod: "build",
		LoggerName:  "LOG",
		Manifest:    "buildergen.yaml",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Normalize fills defaults and resolves target paths. It is safe to call
// more than once.
func (o *Options) Normalize() {
	d := NewOptions()
	if o.InDir == "" {
		o.InDir = d.InDir
	}
	if strings.HasPrefix(o.InDir, ".") {
		o.InDir, _ = filepath.Abs(o.InDir)
	}
	if o.OutDir == "" {
		o.OutDir = d.OutDir
	}
	if strings.HasPrefix(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}
	if o.Suffix == "" {
		o.Suffix = d.Suffix
	}
	if o.ObjectName == "" {
		o.ObjectName = d.ObjectName
	}
	if o.ParamPrefix == "" {
		o.ParamPrefix = d.ParamPrefix
	}
	if o.BuildMethod == "" {
		o.BuildMethod = d.BuildMethod
	}
	if o.LoggerName == "" {
		o.LoggerName = d.LoggerName
	}
	if o.Manifest == "" {
		o.Manifest = d.Manifest
	}

	if len(o.Targets) == 0 {
		inputs := o.Inputs
		if len(inputs) == 0 {
			inputs = []string{o.InDir}
		}
		o.Targets = []Target{{Name: "default", Inputs: inputs, OutDir: o.OutDir}}
	}
	for i := range o.Targets {
		t := &o.Targets[i]
		if t.Name == "" {
			t.Name = "target-" + strconv.Itoa(i)
		}
		if len(t.Inputs) == 0 {
			t.Inputs = []string{o.InDir}
		}
		for j, in := range t.Inputs {
			t.Inputs[j] = o.resolve(in)
		}
		if t.OutDir == "" {
			t.OutDir = o.OutDir
		}
	}
}

// resolve joins a relative input to InDir unless it already lies below it.
func (o *Options) resolve(p string) string {
	p = filepath.Clean(p)
	dir := filepath.Clean(o.InDir)
	if filepath.IsAbs(p) || p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)) {
		return p
	}
	return filepath.Join(dir, p)
}

// ManifestPath is where the manifest is read and written.
func (o *Options) ManifestPath() string {
	if filepath.IsAbs(o.Manifest) {
		return o.Manifest
	}
	return filepath.Join(o.OutDir, o.Manifest)
}

// Config is the engine naming configuration.
func (o *Options) Config() engine.Config {
	return engine.Config{
		Suffix:      o.Suffix,
		ObjectName:  o.ObjectName,
		ParamPrefix: o.ParamPrefix,
		BuildMethod: o.BuildMethod,
		LoggerName:  o.LoggerName,
	}
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option       { return func(o *Options) { o.InDir = d } }
func WithOutDir(d string) Option      { return func(o *Options) { o.OutDir = d } }
func WithSuffix(s string) Option      { return func(o *Options) { o.Suffix = s } }
func WithObjectName(s string) Option  { return func(o *Options) { o.ObjectName = s } }
func WithParamPrefix(s string) Option { return func(o *Options) { o.ParamPrefix = s } }
func WithBuildMethod(s string) Option { return func(o *Options) { o.BuildMethod = s } }
func WithLoggerName(s string) Option  { return func(o *Options) { o.LoggerName = s } }
func WithManifest(path string) Option { return func(o *Options) { o.Manifest = path } }
func WithInputs(paths ...string) Option {
	return func(o *Options) {
		for _, p := range paths {
			o.Inputs = append(o.Inputs, strings.TrimSpace(p))
		}
	}
}
func WithTarget(t Target) Option { return func(o *Options) { o.Targets = append(o.Targets, t) } }
