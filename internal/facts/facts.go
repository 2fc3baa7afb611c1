// Package facts describes the structural facts the discovery step supplies
// about source classes: modifiers, constructors, fields, methods and the
// opt-in configuration attached to them.
package facts

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind names the category of a source element.
type Kind string

const (
	KindClass       Kind = "class"
	KindField       Kind = "field"
	KindMethod      Kind = "method"
	KindConstructor Kind = "constructor"
)

// Modifiers is the declared modifier list of an element, e.g. [private, final].
type Modifiers []string

func (m Modifiers) Has(mod string) bool {
	for _, have := range m {
		if strings.EqualFold(have, mod) {
			return true
		}
	}
	return false
}

func (m Modifiers) HasAny(mods ...string) bool {
	for _, mod := range mods {
		if m.Has(mod) {
			return true
		}
	}
	return false
}

// Accessible reports whether a sibling class in the same package can use
// the element: it is neither private nor protected.
func (m Modifiers) Accessible() bool {
	return !m.HasAny("private", "protected")
}

type Parameter struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Access selects the visibility of a generated builder.
type Access string

const (
	AccessPackage Access = "package"
	AccessPublic  Access = "public"
)

type Class struct {
	Name          string         `json:"name" yaml:"name"`
	Package       string         `json:"package,omitempty" yaml:"package,omitempty"`
	Modifiers     Modifiers      `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Buildable     bool           `json:"buildable,omitempty" yaml:"buildable,omitempty"`
	Privileged    bool           `json:"privileged,omitempty" yaml:"privileged,omitempty"`
	BuilderAccess Access         `json:"builder_access,omitempty" yaml:"builder_access,omitempty"`
	Constructors  []*Constructor `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Fields        []*Field       `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods       []*Method      `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// QualifiedName returns package.Name, or Name in the default package.
func (c *Class) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

func (c *Class) Describe() string {
	return fmt.Sprintf("%s %s", KindClass, c.QualifiedName())
}

// SimpleName is the last segment of Name; nested classes are written
// Outer.Inner.
func (c *Class) SimpleName() string {
	if i := strings.LastIndex(c.Name, "."); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// FindMethods returns every declared method called name.
func (c *Class) FindMethods(name string) []*Method {
	var out []*Method
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

type Constructor struct {
	Modifiers  Modifiers    `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Parameters []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Excluded   bool         `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Implicit   bool         `json:"-" yaml:"-"`
}

// Signature renders the parameter types, e.g. "(int, java.lang.String)".
func (c *Constructor) Signature() string {
	types := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		types[i] = p.Type
	}
	return "(" + strings.Join(types, ", ") + ")"
}

type Field struct {
	Name          string    `json:"name" yaml:"name"`
	Type          string    `json:"type" yaml:"type"`
	Modifiers     Modifiers `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	BuildingBlock bool      `json:"building_block,omitempty" yaml:"building_block,omitempty"`
	NonNull       *NonNull  `json:"non_null,omitempty" yaml:"non_null,omitempty"`
}

// SetterName is the conventional accessor name, "set" plus the capitalized
// field name.
func (f *Field) SetterName() string {
	return "set" + Capitalize(f.Name)
}

type Method struct {
	Name          string       `json:"name" yaml:"name"`
	ReturnType    string       `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Modifiers     Modifiers    `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Parameters    []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	BuildingBlock bool         `json:"building_block,omitempty" yaml:"building_block,omitempty"`
	NonNull       *NonNull     `json:"non_null,omitempty" yaml:"non_null,omitempty"`
}

// Void reports whether the method declares no return value.
func (m *Method) Void() bool {
	return m.ReturnType == "" || m.ReturnType == "void"
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
