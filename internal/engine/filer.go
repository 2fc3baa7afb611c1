package engine

import (
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Filer opens the sink a rendered builder is written to. name is the
// slash-separated path relative to the output root.
type Filer interface {
	Create(name string) (io.WriteCloser, error)
}

// SourcePath is the output path of a builder: the package as directories
// followed by <builder>.java.
func SourcePath(pkg, builder string) string {
	if pkg == "" {
		return builder + ".java"
	}
	return path.Join(strings.ReplaceAll(pkg, ".", "/"), builder+".java")
}

// FsFiler writes builders below Root on an afero filesystem.
type FsFiler struct {
	Fs   afero.Fs
	Root string
}

func NewFsFiler(fs afero.Fs, root string) *FsFiler {
	return &FsFiler{Fs: fs, Root: root}
}

func (f *FsFiler) Create(name string) (io.WriteCloser, error) {
	full := filepath.Join(f.Root, filepath.FromSlash(name))
	if err := f.Fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	return f.Fs.Create(full)
}
