package facts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var (
	ErrDuplicateClass = errors.New("duplicate class")
	ErrInvalidFacts   = errors.New("invalid facts")
)

// Document is the top-level shape of a facts file.
type Document struct {
	Classes []*Class `json:"classes" yaml:"classes"`
}

// Set is every class known to one generation pass, in load order.
type Set struct {
	Classes []*Class
	byName  map[string]*Class
}

// NewSet normalizes classes and indexes them by qualified name.
func NewSet(classes ...*Class) (*Set, error) {
	s := &Set{byName: make(map[string]*Class, len(classes))}
	for _, c := range classes {
		if err := s.add(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) add(c *Class) error {
	if c == nil {
		return nil
	}
	if err := normalize(c); err != nil {
		return err
	}
	name := c.QualifiedName()
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateClass, name)
	}
	s.byName[name] = c
	s.Classes = append(s.Classes, c)
	return nil
}

// Class looks a class up by qualified name.
func (s *Set) Class(qualified string) (*Class, bool) {
	c, ok := s.byName[qualified]
	return c, ok
}

// Parse decodes every YAML document in data. source names the input in
// error messages.
func Parse(data []byte, source string) ([]*Class, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []*Class
	for {
		var doc Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", source, err)
		}
		out = append(out, doc.Classes...)
	}
	return out, nil
}

// Load reads facts from files and directories. Directories are walked for
// *.yaml and *.yml files, visited in lexical order.
func Load(fs afero.Fs, paths ...string) (*Set, error) {
	files, err := expand(fs, paths)
	if err != nil {
		return nil, err
	}
	set, _ := NewSet()
	for _, file := range files {
		data, err := afero.ReadFile(fs, file)
		if err != nil {
			return nil, fmt.Errorf("read facts: %w", err)
		}
		classes, err := Parse(data, file)
		if err != nil {
			return nil, err
		}
		for _, c := range classes {
			if err = set.add(c); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		}
	}
	return set, nil
}

func expand(fs afero.Fs, paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		fi, err := fs.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat facts: %w", err)
		}
		if !fi.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = afero.Walk(fs, p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk facts: %w", err)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func normalize(c *Class) error {
	if c.Name == "" {
		return fmt.Errorf("%w: class without name", ErrInvalidFacts)
	}
	switch c.BuilderAccess {
	case "":
		c.BuilderAccess = AccessPackage
	case AccessPackage, AccessPublic:
	default:
		return fmt.Errorf("%w: %s: unknown builder_access %q", ErrInvalidFacts, c.QualifiedName(), c.BuilderAccess)
	}

	// A class without declared constructors has the implicit no-arg one,
	// which takes the class's own access.
	if len(c.Constructors) == 0 {
		implicit := &Constructor{Implicit: true}
		for _, mod := range []string{"public", "protected", "private"} {
			if c.Modifiers.Has(mod) {
				implicit.Modifiers = Modifiers{mod}
			}
		}
		c.Constructors = []*Constructor{implicit}
	}
	for i, ctor := range c.Constructors {
		if ctor == nil {
			return fmt.Errorf("%w: %s: constructor %d is empty", ErrInvalidFacts, c.QualifiedName(), i)
		}
		if err := checkParameters(c, "constructor", ctor.Parameters); err != nil {
			return err
		}
	}

	for i, f := range c.Fields {
		if f == nil {
			return fmt.Errorf("%w: %s: field %d is empty", ErrInvalidFacts, c.QualifiedName(), i)
		}
		if f.Name == "" || f.Type == "" {
			return fmt.Errorf("%w: %s: field needs name and type", ErrInvalidFacts, c.QualifiedName())
		}
		if f.NonNull != nil {
			f.NonNull.applyDefaults()
		}
	}
	for i, m := range c.Methods {
		if m == nil {
			return fmt.Errorf("%w: %s: method %d is empty", ErrInvalidFacts, c.QualifiedName(), i)
		}
		if m.Name == "" {
			return fmt.Errorf("%w: %s: method without name", ErrInvalidFacts, c.QualifiedName())
		}
		if err := checkParameters(c, m.Name, m.Parameters); err != nil {
			return err
		}
		if m.ReturnType == "" {
			m.ReturnType = "void"
		}
		if m.NonNull != nil {
			m.NonNull.applyDefaults()
		}
	}
	return nil
}

func checkParameters(c *Class, owner string, params []*Parameter) error {
	for i, p := range params {
		if p == nil || p.Type == "" {
			return fmt.Errorf("%w: %s: %s parameter %d has no type", ErrInvalidFacts, c.QualifiedName(), owner, i)
		}
	}
	return nil
}
