package engine

import (
	"fmt"
	"io"

	"github.com/cmmoran/buildergen/internal/diag"
	"github.com/cmmoran/buildergen/internal/model"
	"go.uber.org/multierr"
)

// Artifact is one rendered builder.
type Artifact struct {
	Name    string `json:"name" yaml:"name"`       // qualified builder name, e.g. geo.PointBuilder
	Source  string `json:"source" yaml:"source"`   // qualified source class
	Package string `json:"package" yaml:"package"` // empty for the default package
	Builder string `json:"builder" yaml:"builder"` // simple builder name
	Path    string `json:"path" yaml:"path"`       // relative output path
	Text    string `json:"-" yaml:"-"`
}

// Emit adds the terminal accessor to every builder holding an instance,
// renders it and writes it through filer, in registry name order. Classes
// without a held instance are skipped. A persistence failure is reported
// and aggregated; the remaining builders are still written. A nil filer
// renders only.
func (c *Context) Emit(filer Filer) ([]Artifact, error) {
	var (
		out  []Artifact
		errs error
	)
	for _, key := range c.Registry.Names() {
		clazz, _ := c.Registry.Lookup(key)
		held, ok := clazz.Variable(c.Config.ObjectName)
		if !ok {
			c.Logger.With("builder", key).Debug("no held instance, builder skipped")
			continue
		}
		c.addBuildMethod(clazz, held)

		art := Artifact{
			Name:    key,
			Package: clazz.Package(),
			Builder: clazz.Key(),
			Path:    SourcePath(clazz.Package(), clazz.Key()),
			Text:    clazz.Render(0) + "\n",
		}
		if sk, ok := c.skeletonByKey(key); ok {
			art.Source = sk.source.QualifiedName()
		}

		if filer != nil {
			if err := persist(filer, art.Path, art.Text); err != nil {
				err = fmt.Errorf("%w %s: %w", diag.ErrPersist, art.Path, err)
				c.Reporter.Report(diag.Diagnostic{
					Severity: diag.Error,
					Element:  "builder " + key,
					Message:  err.Error(),
					Err:      err,
				})
				errs = multierr.Append(errs, err)
				continue
			}
		}
		c.Logger.With("builder", key, "path", art.Path).Info("emitted builder")
		out = append(out, art)
	}
	return out, errs
}

func (c *Context) addBuildMethod(clazz *model.Clazz, held *model.Variable) {
	m := clazz.FetchMethod(c.Config.BuildMethod)
	if m.Locked() {
		return
	}
	m.SetReturnType(held.Type())
	m.AddModifiers(model.Public)
	_ = m.AddReturn(held.Key())
}

func (c *Context) skeletonByKey(key string) (*skeleton, bool) {
	for _, sk := range c.skeletons {
		if sk.key == key {
			return sk, true
		}
	}
	return nil, false
}

func persist(filer Filer, name, text string) (err error) {
	w, err := filer.Create(name)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(w))

	_, err = io.WriteString(w, text)
	return err
}
