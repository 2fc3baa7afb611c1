package engine

import (
	"fmt"

	"github.com/cmmoran/buildergen/internal/diag"
	"github.com/cmmoran/buildergen/internal/facts"
	"github.com/cmmoran/buildergen/internal/model"
)

func (c *Context) applyMutator(el element) {
	sk, ok := c.skeletonFor(el.class)
	if !ok {
		c.warnf(el, diag.WarnEnclosingNotBuildable,
			"%s is a building block but class %s has no builder; member skipped", el, el.class.QualifiedName())
		return
	}
	switch el.kind {
	case facts.KindField:
		c.mutateField(sk, el)
	case facts.KindMethod:
		c.mutateMethod(sk, el)
	}
}

func (c *Context) mutateField(sk *skeleton, el element) {
	f := el.field
	if f.Modifiers.HasAny("final", "static") {
		c.errorf(el, diag.ErrImmutableField, "field %s is final or static and cannot be set by a builder", f.Name)
		return
	}

	if f.Modifiers.Accessible() {
		c.fieldMutator(sk, el, accessDirect)
		return
	}
	if setter := findSetter(el.class, f); setter != nil {
		c.debug(el, "field resolved to setter", "setter", methodSignature(setter))
		c.mutateMethod(sk, methodElement(el.class, setter))
		return
	}
	if el.class.Privileged {
		c.fieldMutator(sk, el, accessReflective)
		return
	}
	c.errorf(el, diag.ErrNoSetter,
		"field %s is not accessible and class %s has no accessible %s(%s); add a setter or enable privileged access",
		f.Name, el.class.QualifiedName(), f.SetterName(), f.Type)
}

// fieldMutator generates a mutator that assigns the field itself.
func (c *Context) fieldMutator(sk *skeleton, el element, strategy access) {
	f := el.field
	m, fresh := c.claimMutator(sk, el, f.SetterName(), el.String())
	if !fresh {
		return
	}
	c.openMutator(sk, m)
	param := m.AddParameter(f.Type, c.Config.ParamPrefix)

	var err error
	switch strategy {
	case accessReflective:
		obj := c.Config.ObjectName
		err = m.AddBlock(model.NewTry(
			fmt.Sprintf("java.lang.reflect.Field field = %s.class.getDeclaredField(%s);", erase(sk.held), model.Quote(f.Name)),
			"field.setAccessible(true);",
			fmt.Sprintf("field.set(%s, %s);", obj, param.Key()),
			"field.setAccessible(false);",
		).Catch([]string{"NoSuchFieldException", "IllegalAccessException"}))
	default:
		err = m.AddLine(model.Assignment(c.Config.ObjectName, f.Name, param.Key()))
	}
	c.closeMutator(el, m, err)
}

func (c *Context) mutateMethod(sk *skeleton, el element) {
	src := el.method
	if !src.Modifiers.Accessible() {
		c.errorf(el, diag.ErrInaccessibleMethod, "method %s is private or protected and cannot be called by a builder", methodSignature(src))
		return
	}

	m, fresh := c.claimMutator(sk, el, src.Name, el.String())
	if !fresh {
		return
	}
	if !src.Void() {
		c.warnf(el, diag.WarnDiscardedReturn, "method %s returns %s; the builder discards the value", methodSignature(src), src.ReturnType)
	}
	c.openMutator(sk, m)
	for _, p := range src.Parameters {
		m.AddParameter(p.Type, c.Config.ParamPrefix)
	}
	c.closeMutator(el, m, m.AddLine(model.Call(c.Config.ObjectName, src.Name, m.ParameterNames()...)))
}

// claimMutator reserves the builder method name for origin. It returns the
// method and true only on the first claim; a repeat claim by the same
// origin is a silent no-op and a claim by a different origin is a
// collision.
func (c *Context) claimMutator(sk *skeleton, el element, name, origin string) (*model.Method, bool) {
	if name == c.Config.BuildMethod {
		c.errorf(el, diag.ErrMutatorCollision, "mutator %s collides with the terminal accessor of %s", name, sk.key)
		return nil, false
	}

	key := sk.key + "#" + name
	if have, ok := c.origins[key]; ok {
		if have != origin {
			c.errorf(el, diag.ErrMutatorCollision, "mutator %s of %s is already generated from %s", name, sk.key, have)
		} else {
			c.debug(el, "mutator already generated", "mutator", name)
		}
		return nil, false
	}
	c.origins[key] = origin
	return sk.class.FetchMethod(name), true
}

func (c *Context) openMutator(sk *skeleton, m *model.Method) {
	m.SetReturnType(sk.class.Key())
	if sk.source.BuilderAccess == facts.AccessPublic {
		m.AddModifiers(model.Public)
	}
}

// closeMutator terminates the body with "return this;".
func (c *Context) closeMutator(el element, m *model.Method, err error) {
	if err == nil {
		err = m.AddReturn("this")
	}
	if err != nil {
		c.errorf(el, err, "")
		return
	}
	c.debug(el, "mutator generated", "mutator", m.Key())
}

// findSetter returns the accessible conventional setter of f, preferring
// the overload taking exactly the field type.
func findSetter(cls *facts.Class, f *facts.Field) *facts.Method {
	var fallback *facts.Method
	for _, m := range cls.FindMethods(f.SetterName()) {
		if !m.Modifiers.Accessible() || m.Modifiers.Has("static") {
			continue
		}
		if len(m.Parameters) == 1 && m.Parameters[0].Type == f.Type {
			return m
		}
		if fallback == nil && len(m.Parameters) == 1 {
			fallback = m
		}
	}
	return fallback
}
