package engine

import (
	"fmt"
	"strings"

	"github.com/cmmoran/buildergen/internal/diag"
	"github.com/cmmoran/buildergen/internal/facts"
	"github.com/cmmoran/buildergen/internal/model"
)

func (c *Context) applyValidation(el element) {
	if !el.buildingBlock() {
		c.errorf(el, diag.ErrNonNullWithoutBuildingBlock, "%s has a null check but is not a building block", el)
		return
	}
	sk, ok := c.skeletonFor(el.class)
	if !ok {
		return
	}

	name := el.mutatorName()
	m, ok := sk.class.Method(name)
	if !ok {
		c.debug(el, "no mutator to guard", "mutator", name)
		return
	}

	key := sk.key + "#" + name
	if c.guarded[key] {
		c.debug(el, "mutator already guarded", "mutator", name)
		return
	}

	cond := nullCondition(m)
	if cond == "" {
		c.debug(el, "mutator has no reference parameters", "mutator", name)
		return
	}

	m.PrependBlock(c.guard(sk, cond, el.nonNull()))
	c.guarded[key] = true
	c.debug(el, "null check added", "mutator", name, "operation", string(el.nonNull().Operation))
}

// nullCondition ORs an isNull test over every reference-typed parameter.
func nullCondition(m *model.Method) string {
	var tests []string
	for _, p := range m.Parameters() {
		if isPrimitive(p.Type()) {
			continue
		}
		tests = append(tests, fmt.Sprintf("java.util.Objects.isNull(%s)", p.Key()))
	}
	return strings.Join(tests, " || ")
}

func (c *Context) guard(sk *skeleton, cond string, policy *facts.NonNull) *model.IfBlock {
	g := model.NewIf(cond)
	msg := model.Quote(policy.Message)
	ret := model.Return("this")

	switch policy.Operation {
	case facts.OpNoOp:
		g.AddLine(ret)
	case facts.OpPrintErr:
		g.AddLine(fmt.Sprintf("System.err.println(%s);", msg), ret)
	case facts.OpPrintOut:
		g.AddLine(fmt.Sprintf("System.out.println(%s);", msg), ret)
	case facts.OpLog:
		c.ensureLogger(sk)
		g.AddLine(fmt.Sprintf("%s.error(%s);", c.Config.LoggerName, msg), ret)
	default:
		g.AddLine(model.Throw("IllegalArgumentException", policy.Message))
	}
	return g
}

// ensureLogger adds the class-scoped logger once per builder.
func (c *Context) ensureLogger(sk *skeleton) {
	logger := model.NewVariable("org.slf4j.Logger", c.Config.LoggerName, model.Private, model.Static, model.Final).
		WithValue(fmt.Sprintf("org.slf4j.LoggerFactory.getLogger(%s.class)", sk.class.Key()))
	sk.class.AddVariable(logger)
}
