package engine

import (
	"fmt"
	"strings"

	"github.com/cmmoran/buildergen/internal/facts"
)

// Rule is one policy of the pipeline. The set is closed and its order is
// fixed: a mutator needs its skeleton and a null check needs its mutator.
type Rule int

const (
	RuleSkeleton Rule = iota
	RuleMutator
	RuleValidation
)

// Pipeline is the order rules run in.
var Pipeline = []Rule{RuleSkeleton, RuleMutator, RuleValidation}

func (r Rule) String() string {
	switch r {
	case RuleSkeleton:
		return "skeleton"
	case RuleMutator:
		return "mutator"
	case RuleValidation:
		return "validation"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// Handles reports whether r is triggered by el.
func (r Rule) Handles(el element) bool {
	switch r {
	case RuleSkeleton:
		return el.kind == facts.KindClass && el.class.Buildable
	case RuleMutator:
		return el.kind != facts.KindClass && el.buildingBlock()
	case RuleValidation:
		return el.kind != facts.KindClass && el.nonNull() != nil
	default:
		return false
	}
}

// element is one source element a rule can be triggered by.
type element struct {
	kind   facts.Kind
	class  *facts.Class
	field  *facts.Field
	method *facts.Method
}

// elements enumerates every class followed by its fields and methods.
func (c *Context) elements() []element {
	var out []element
	for _, cls := range c.Facts.Classes {
		out = append(out, element{kind: facts.KindClass, class: cls})
		for _, f := range cls.Fields {
			out = append(out, element{kind: facts.KindField, class: cls, field: f})
		}
		for _, m := range cls.Methods {
			out = append(out, element{kind: facts.KindMethod, class: cls, method: m})
		}
	}
	return out
}

func (el element) buildingBlock() bool {
	switch el.kind {
	case facts.KindField:
		return el.field.BuildingBlock
	case facts.KindMethod:
		return el.method.BuildingBlock
	}
	return false
}

func (el element) nonNull() *facts.NonNull {
	switch el.kind {
	case facts.KindField:
		return el.field.NonNull
	case facts.KindMethod:
		return el.method.NonNull
	}
	return nil
}

// mutatorName is the builder method a member maps to.
func (el element) mutatorName() string {
	switch el.kind {
	case facts.KindField:
		return el.field.SetterName()
	case facts.KindMethod:
		return el.method.Name
	}
	return ""
}

// String names the element for diagnostics, e.g. "field geo.Point.x" or
// "method geo.Point.setLabel(String)".
func (el element) String() string {
	switch el.kind {
	case facts.KindField:
		return fmt.Sprintf("%s %s.%s", el.kind, el.class.QualifiedName(), el.field.Name)
	case facts.KindMethod:
		return fmt.Sprintf("%s %s.%s", el.kind, el.class.QualifiedName(), methodSignature(el.method))
	default:
		return el.class.Describe()
	}
}

func methodElement(cls *facts.Class, m *facts.Method) element {
	return element{kind: facts.KindMethod, class: cls, method: m}
}

func methodSignature(m *facts.Method) string {
	types := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		types[i] = p.Type
	}
	return m.Name + "(" + strings.Join(types, ", ") + ")"
}
