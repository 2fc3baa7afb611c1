package model

import (
	"strings"
)

// Modifier is a Java visibility or storage qualifier, already in its
// rendered lowercase form.
type Modifier string

const (
	Public    Modifier = "public"
	Protected Modifier = "protected"
	Private   Modifier = "private"
	Static    Modifier = "static"
	Final     Modifier = "final"
	Abstract  Modifier = "abstract"
)

// Void is the default method return type.
const Void = "void"

// Type is the common shape of every synthesized element.
type Type interface {
	Key() string
	SetKey(key string)
	Modifiers() []Modifier
	AddModifiers(mods ...Modifier)
	// Render returns the element as source text, indented for depth.
	Render(depth int) string
}

// node carries the identity shared by all Type implementations.
type node struct {
	key  string
	mods []Modifier
}

func (n *node) Key() string       { return n.key }
func (n *node) SetKey(key string) { n.key = key }

func (n *node) Modifiers() []Modifier {
	return append([]Modifier(nil), n.mods...)
}

// AddModifiers appends mods in order, skipping empty values and any
// modifier already present.
func (n *node) AddModifiers(mods ...Modifier) {
	for _, m := range mods {
		if m == "" || n.hasModifier(m) {
			continue
		}
		n.mods = append(n.mods, m)
	}
}

func (n *node) hasModifier(m Modifier) bool {
	for _, have := range n.mods {
		if have == m {
			return true
		}
	}
	return false
}

// modifierPrefix renders "m1 m2 " or "" when there are no modifiers.
func (n *node) modifierPrefix() string {
	if len(n.mods) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range n.mods {
		b.WriteString(string(m))
		b.WriteByte(' ')
	}
	return b.String()
}

func indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("\t", depth)
}

// Variable is a field or a method parameter.
type Variable struct {
	node
	typ      string
	value    string
	assigned bool
}

func NewVariable(typ, name string, mods ...Modifier) *Variable {
	v := &Variable{node: node{key: name}, typ: typ}
	v.AddModifiers(mods...)
	return v
}

// WithValue sets the literal initializer and returns v.
func (v *Variable) WithValue(value string) *Variable {
	v.value = value
	v.assigned = true
	return v
}

func (v *Variable) Type() string { return v.typ }

// Value returns the initializer and whether one is set.
func (v *Variable) Value() (string, bool) { return v.value, v.assigned }

func (v *Variable) Render(depth int) string {
	var b strings.Builder
	b.WriteString(indent(depth))
	b.WriteString(v.modifierPrefix())
	b.WriteString(v.typ)
	b.WriteByte(' ')
	b.WriteString(v.key)
	if v.assigned {
		b.WriteString(" = ")
		b.WriteString(v.value)
	}
	return b.String()
}

// Clazz is a synthesized class. Variables are unique by name, methods are
// keyed by name and kept in insertion order so output is deterministic.
type Clazz struct {
	node
	pkg          string
	variables    []*Variable
	methods      map[string]*Method
	methodOrder  []string
	constructors []*Method
}

func NewClazz(name string) *Clazz {
	return &Clazz{
		node:    node{key: name},
		methods: make(map[string]*Method),
	}
}

func (c *Clazz) Package() string         { return c.pkg }
func (c *Clazz) SetPackage(pkg string)   { c.pkg = pkg }
func (c *Clazz) Constructors() []*Method { return append([]*Method(nil), c.constructors...) }
func (c *Clazz) Variables() []*Variable  { return append([]*Variable(nil), c.variables...) }

// AddVariable stores v unless a variable with the same name exists. It
// reports whether v was added; an existing variable is never overwritten.
func (c *Clazz) AddVariable(v *Variable) bool {
	if _, ok := c.Variable(v.Key()); ok {
		return false
	}
	c.variables = append(c.variables, v)
	return true
}

func (c *Clazz) Variable(name string) (*Variable, bool) {
	for _, v := range c.variables {
		if v.Key() == name {
			return v, true
		}
	}
	return nil, false
}

// FetchMethod returns the method called name, creating it if needed.
func (c *Clazz) FetchMethod(name string) *Method {
	if m, ok := c.methods[name]; ok {
		return m
	}
	m := NewMethod(name)
	c.methods[name] = m
	c.methodOrder = append(c.methodOrder, name)
	return m
}

// Method looks a method up without creating it.
func (c *Clazz) Method(name string) (*Method, bool) {
	m, ok := c.methods[name]
	return m, ok
}

func (c *Clazz) Methods() []*Method {
	out := make([]*Method, 0, len(c.methodOrder))
	for _, name := range c.methodOrder {
		out = append(out, c.methods[name])
	}
	return out
}

func (c *Clazz) AddConstructor(m *Method) {
	c.constructors = append(c.constructors, m)
}

func (c *Clazz) Render(depth int) string {
	var b strings.Builder
	if c.pkg != "" {
		b.WriteString(indent(depth))
		b.WriteString("package ")
		b.WriteString(c.pkg)
		b.WriteString(";\n\n")
	}

	b.WriteString(indent(depth))
	b.WriteString(c.modifierPrefix())
	b.WriteString("class ")
	b.WriteString(c.key)
	b.WriteString(" {\n\n")

	for _, v := range c.variables {
		b.WriteString(v.Render(depth + 1))
		b.WriteString(";\n")
	}
	b.WriteString("\n")

	for _, ctor := range c.constructors {
		b.WriteString(ctor.Render(depth + 1))
		b.WriteString("\n\n")
	}
	for _, m := range c.Methods() {
		b.WriteString(m.Render(depth + 1))
		b.WriteString("\n\n")
	}

	b.WriteString(indent(depth))
	b.WriteString("}")
	return b.String()
}
