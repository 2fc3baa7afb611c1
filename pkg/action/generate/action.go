package generate

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/cmmoran/buildergen/internal/diag"
	"github.com/cmmoran/buildergen/internal/engine"
	"github.com/cmmoran/buildergen/pkg/generator"
	"github.com/cmmoran/buildergen/pkg/manifest"
)

// TargetReport is the outcome of one target.
type TargetReport struct {
	Target      string
	OutDir      string
	Artifacts   []engine.Artifact
	Diagnostics []diag.Diagnostic
	Err         error
}

// Report is the outcome of a generate run.
type Report struct {
	Targets  []TargetReport
	Manifest string
}

func (r *Report) count(f func(TargetReport) int) int {
	n := 0
	for _, t := range r.Targets {
		n += f(t)
	}
	return n
}

func (r *Report) Written() int {
	return r.count(func(t TargetReport) int { return len(t.Artifacts) })
}

func (r *Report) Errors() int {
	return r.count(func(t TargetReport) int { return severity(t.Diagnostics, diag.Error) })
}

func (r *Report) Warnings() int {
	return r.count(func(t TargetReport) int { return severity(t.Diagnostics, diag.Warning) })
}

// Summary is a one-line description, e.g. "2 builders written, 1 warning".
func (r *Report) Summary() string {
	parts := []string{
		counted(r.Written(), "builder") + " written",
	}
	if n := r.Errors(); n > 0 {
		parts = append(parts, counted(n, "error"))
	}
	if n := r.Warnings(); n > 0 {
		parts = append(parts, counted(n, "warning"))
	}
	if len(r.Targets) > 1 {
		parts = append(parts, "across "+counted(len(r.Targets), "target"))
	}
	return strings.Join(parts, ", ")
}

func counted(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

func severity(ds []diag.Diagnostic, s diag.Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Generate runs every target of opts as an isolated pass, writes the
// builders below each target's output root and records them in the
// manifest. Targets run concurrently. All output is written before
// generator.ErrGenerationFailed is returned for hard errors.
func Generate(fs afero.Fs, opts *generator.Options, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts.Normalize()

	manifestPath := opts.ManifestPath()
	m, err := manifest.Load(fs, manifestPath)
	if err != nil {
		return nil, err
	}
	if err = m.CheckVersion(generator.Version); err != nil {
		return nil, err
	}

	report := &Report{
		Targets:  make([]TargetReport, len(opts.Targets)),
		Manifest: manifestPath,
	}
	p := pool.New().WithErrors()
	for i, t := range opts.Targets {
		p.Go(func() error {
			tr := TargetReport{Target: t.Name, OutDir: t.OutDir}
			res, err := generator.Run(fs, opts, t, engine.NewFsFiler(fs, t.OutDir), logger)
			if res != nil {
				tr.Artifacts = res.Artifacts
				tr.Diagnostics = res.Diagnostics
			}
			tr.Err = err
			report.Targets[i] = tr
			return err
		})
	}
	runErr := p.Wait()

	for _, tr := range report.Targets {
		for _, a := range tr.Artifacts {
			m.Add(manifest.Entry{
				Target:   tr.Target,
				Builder:  a.Name,
				Source:   a.Source,
				File:     filepath.Join(tr.OutDir, filepath.FromSlash(a.Path)),
				Checksum: manifest.Checksum(a.Text),
			})
		}
	}
	m.Stamp(generator.Version)
	if err = m.Save(fs, manifestPath); err != nil {
		return report, err
	}

	logger.With("manifest", manifestPath, "targets", len(report.Targets)).Info(report.Summary())
	if runErr != nil {
		return report, runErr
	}
	if report.Errors() > 0 {
		return report, generator.ErrGenerationFailed
	}
	return report, nil
}
