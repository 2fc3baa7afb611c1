package model

import (
	"fmt"
	"strings"
)

// Block is a statement fragment that renders to one or more body lines.
// Blocks are consumed into a method body and are not kept by the method.
type Block interface {
	Render(depth int) string
}

func flatten(b Block) []string {
	return strings.Split(b.Render(0), "\n")
}

// Assignment renders "target.field = value;".
func Assignment(target, field, value string) string {
	return fmt.Sprintf("%s.%s = %s;", target, field, value)
}

// Call renders "target.method(arg0, arg1);".
func Call(target, method string, args ...string) string {
	return fmt.Sprintf("%s.%s(%s);", target, method, strings.Join(args, ", "))
}

// Return renders "return expr;".
func Return(expr string) string {
	return "return " + expr + ";"
}

// Throw renders a throw of a new exception carrying message.
func Throw(exception, message string) string {
	return fmt.Sprintf("throw new %s(%s);", exception, Quote(message))
}

// Quote renders s as a Java string literal.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// IfBlock is a conditional with a primary body and an optional else body.
type IfBlock struct {
	node
	condition string
	lines     []string
	elseLines []string
}

func NewIf(condition string) *IfBlock {
	return &IfBlock{node: node{key: "IF"}, condition: condition}
}

func (b *IfBlock) Condition() string { return b.condition }

func (b *IfBlock) AddLine(lines ...string) *IfBlock {
	b.lines = append(b.lines, lines...)
	return b
}

func (b *IfBlock) AddElseLine(lines ...string) *IfBlock {
	b.elseLines = append(b.elseLines, lines...)
	return b
}

func (b *IfBlock) AddBlock(inner Block) *IfBlock {
	return b.AddLine(flatten(inner)...)
}

func (b *IfBlock) Render(depth int) string {
	var sb strings.Builder
	sb.WriteString(indent(depth))
	sb.WriteString("if (")
	sb.WriteString(b.condition)
	sb.WriteString(") {\n")
	for _, l := range b.lines {
		writeLine(&sb, depth+1, l)
	}
	sb.WriteString(indent(depth))
	sb.WriteByte('}')
	if len(b.elseLines) > 0 {
		sb.WriteString(" else {\n")
		for _, l := range b.elseLines {
			writeLine(&sb, depth+1, l)
		}
		sb.WriteString(indent(depth))
		sb.WriteByte('}')
	}
	return sb.String()
}

type catchClause struct {
	types string
	lines []string
}

// TryBlock is a guarded body with zero or more catch clauses. Clauses are
// keyed by their exception list and render in insertion order.
type TryBlock struct {
	node
	lines   []string
	catches []*catchClause
}

func NewTry(lines ...string) *TryBlock {
	return &TryBlock{node: node{key: "TRY"}, lines: append([]string(nil), lines...)}
}

func (b *TryBlock) AddLine(lines ...string) *TryBlock {
	b.lines = append(b.lines, lines...)
	return b
}

// Catch registers a clause for the exceptions, joined as a multi-catch,
// and appends lines to it. Calling Catch with no lines yields an empty
// handler that swallows the exceptions.
func (b *TryBlock) Catch(exceptions []string, lines ...string) *TryBlock {
	key := strings.Join(exceptions, " | ")
	for _, c := range b.catches {
		if c.types == key {
			c.lines = append(c.lines, lines...)
			return b
		}
	}
	b.catches = append(b.catches, &catchClause{types: key, lines: append([]string(nil), lines...)})
	return b
}

func (b *TryBlock) Render(depth int) string {
	var sb strings.Builder
	sb.WriteString(indent(depth))
	sb.WriteString("try {\n")
	for _, l := range b.lines {
		writeLine(&sb, depth+1, l)
	}
	sb.WriteString(indent(depth))
	sb.WriteByte('}')
	for _, c := range b.catches {
		sb.WriteString(" catch (")
		sb.WriteString(c.types)
		sb.WriteString(" exc) {\n")
		for _, l := range c.lines {
			writeLine(&sb, depth+1, l)
		}
		sb.WriteString(indent(depth))
		sb.WriteByte('}')
	}
	return sb.String()
}
