package check

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/jinzhu/inflection"
	"github.com/spf13/afero"

	"github.com/cmmoran/buildergen/pkg/generator"
	"github.com/cmmoran/buildergen/pkg/manifest"
)

// ErrDrift is returned when the builders on disk differ from what
// generation would write now.
var ErrDrift = errors.New("generated builders are out of date")

// Drift describes one out-of-date file.
type Drift struct {
	File   string
	Reason string // "missing", "changed" or "stale"
	Diff   string
}

// Check renders every target in memory and compares the result with the
// files on disk and the manifest. It returns ErrDrift together with the
// drifted files; the builders themselves are never written.
func Check(fs afero.Fs, opts *generator.Options, logger *slog.Logger) ([]Drift, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts.Normalize()

	m, err := manifest.Load(fs, opts.ManifestPath())
	if err != nil {
		return nil, err
	}

	var (
		drifts []Drift
		failed bool
	)
	for _, t := range opts.Targets {
		res, err := generator.Run(fs, opts, t, nil, logger)
		if err != nil {
			return nil, err
		}
		failed = failed || res.HasErrors()

		current := map[string]bool{}
		for _, a := range res.Artifacts {
			file := filepath.Join(t.OutDir, filepath.FromSlash(a.Path))
			current[file] = true

			onDisk, err := afero.ReadFile(fs, file)
			switch {
			case errors.Is(err, os.ErrNotExist):
				drifts = append(drifts, Drift{File: file, Reason: "missing", Diff: cmp.Diff("", a.Text)})
				continue
			case err != nil:
				return nil, fmt.Errorf("read builder: %w", err)
			}
			if diff := cmp.Diff(string(onDisk), a.Text); diff != "" {
				drifts = append(drifts, Drift{File: file, Reason: "changed", Diff: diff})
			}
		}

		for _, e := range m.Target(t.Name) {
			if !current[e.File] {
				drifts = append(drifts, Drift{File: e.File, Reason: "stale"})
			}
		}
	}

	sort.Slice(drifts, func(i, j int) bool { return drifts[i].File < drifts[j].File })
	for _, d := range drifts {
		logger.With("file", d.File, "reason", d.Reason).Warn("builder drift")
	}

	if len(drifts) > 0 {
		return drifts, fmt.Errorf("%w: %d %s", ErrDrift, len(drifts), plural(len(drifts)))
	}
	if failed {
		return nil, generator.ErrGenerationFailed
	}
	return nil, nil
}

func plural(n int) string {
	if n == 1 {
		return "file"
	}
	return inflection.Plural("file")
}

// Format renders drifts as a human readable report.
func Format(drifts []Drift) string {
	var b strings.Builder
	for _, d := range drifts {
		fmt.Fprintf(&b, "%s: %s\n", d.File, d.Reason)
		if d.Diff != "" {
			b.WriteString(d.Diff)
			if !strings.HasSuffix(d.Diff, "\n") {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
