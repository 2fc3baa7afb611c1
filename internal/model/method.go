package model

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMethodLocked is returned when a line is appended after the method
// has received its terminal return.
var ErrMethodLocked = errors.New("method body is locked after return")

// Method is a synthesized method or constructor. A method is open until a
// terminal return is appended; after that only prepends are accepted.
type Method struct {
	node
	params      []*Variable
	returnType  string
	constructor bool
	lines       []string
	locked      bool
}

func NewMethod(name string) *Method {
	return &Method{node: node{key: name}, returnType: Void}
}

// NewConstructor creates a constructor for the class called className.
// Constructors render without a return type.
func NewConstructor(className string) *Method {
	return &Method{node: node{key: className}, constructor: true}
}

func (m *Method) IsConstructor() bool { return m.constructor }
func (m *Method) Locked() bool        { return m.locked }
func (m *Method) ReturnType() string  { return m.returnType }

func (m *Method) SetReturnType(t string) {
	if m.constructor {
		return
	}
	m.returnType = t
}

// AddParameter appends a parameter of type typ named prefix plus its
// position, e.g. param0, param1.
func (m *Method) AddParameter(typ, prefix string) *Variable {
	v := NewVariable(typ, prefix+strconv.Itoa(len(m.params)))
	m.params = append(m.params, v)
	return v
}

func (m *Method) Parameters() []*Variable {
	return append([]*Variable(nil), m.params...)
}

// ParameterNames returns the parameter names in declaration order.
func (m *Method) ParameterNames() []string {
	out := make([]string, len(m.params))
	for i, p := range m.params {
		out[i] = p.Key()
	}
	return out
}

// ParameterTypes returns the parameter types in declaration order.
func (m *Method) ParameterTypes() []string {
	out := make([]string, len(m.params))
	for i, p := range m.params {
		out[i] = p.Type()
	}
	return out
}

func (m *Method) Lines() []string {
	return append([]string(nil), m.lines...)
}

// AddLine appends body lines.
func (m *Method) AddLine(lines ...string) error {
	if m.locked {
		return ErrMethodLocked
	}
	m.lines = append(m.lines, lines...)
	return nil
}

// AddBlock consumes b into the body.
func (m *Method) AddBlock(b Block) error {
	return m.AddLine(flatten(b)...)
}

// AddReturn appends "return expr;" and locks the body.
func (m *Method) AddReturn(expr string) error {
	if err := m.AddLine(Return(expr)); err != nil {
		return err
	}
	m.locked = true
	return nil
}

// PrependLine inserts lines before the existing body. It is the one
// mutation permitted on a locked method and never changes the lock.
func (m *Method) PrependLine(lines ...string) {
	m.lines = append(append([]string(nil), lines...), m.lines...)
}

// PrependBlock consumes b into the front of the body.
func (m *Method) PrependBlock(b Block) {
	m.PrependLine(flatten(b)...)
}

func (m *Method) Render(depth int) string {
	var b strings.Builder
	b.WriteString(indent(depth))
	b.WriteString(m.modifierPrefix())
	if !m.constructor {
		b.WriteString(m.returnType)
		b.WriteByte(' ')
	}
	b.WriteString(m.key)
	b.WriteByte('(')
	for i, p := range m.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Render(0))
	}
	b.WriteString(") {\n")

	for _, line := range m.lines {
		writeLine(&b, depth+1, line)
	}

	b.WriteString(indent(depth))
	b.WriteByte('}')
	return b.String()
}

// writeLine writes one body line; empty lines carry no indentation.
func writeLine(b *strings.Builder, depth int, line string) {
	if line != "" {
		b.WriteString(indent(depth))
		b.WriteString(line)
	}
	b.WriteByte('\n')
}
