// Package generator is the public entry point of builder generation: the
// options that configure it and the isolated pass run per target.
package generator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/cmmoran/buildergen/internal/engine"
	"github.com/cmmoran/buildergen/internal/facts"
)

// Version is recorded in the manifest of every generation run.
var Version = "v0.1.0"

// ErrGenerationFailed is returned after all output is written when at
// least one element reported a hard error.
var ErrGenerationFailed = errors.New("generation reported errors")

// Run executes one isolated pass for t: facts are loaded from fs, rules
// are applied and every builder is handed to filer. A nil filer renders
// without writing.
func Run(fs afero.Fs, o *Options, t Target, filer engine.Filer, logger *slog.Logger) (*engine.Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	l := logger.With("target", t.Name)

	set, err := facts.Load(fs, t.Inputs...)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", t.Name, err)
	}
	l.With("classes", len(set.Classes)).Debug("facts loaded")

	res, err := engine.Generate(o.Config(), set, filer, l)
	if err != nil {
		return res, fmt.Errorf("target %s: %w", t.Name, err)
	}
	return res, nil
}
