package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cmmoran/buildergen/internal/diag"
	"github.com/cmmoran/buildergen/internal/facts"
	"github.com/cmmoran/buildergen/internal/model"
)

// access is how generated code reaches a source member.
type access int

const (
	accessDirect access = iota
	accessReflective
)

func (a access) String() string {
	if a == accessReflective {
		return "reflective"
	}
	return "direct"
}

// builderName is the simple name of the builder for src.
func (c *Context) builderName(src *facts.Class) string {
	return src.SimpleName() + c.Config.Suffix
}

// builderKey is the registry key of the builder for src.
func (c *Context) builderKey(src *facts.Class) string {
	if src.Package == "" {
		return c.builderName(src)
	}
	return src.Package + "." + c.builderName(src)
}

// skeletonFor returns the builder of the class enclosing a member.
func (c *Context) skeletonFor(src *facts.Class) (*skeleton, bool) {
	sk, ok := c.skeletons[src.QualifiedName()]
	return sk, ok
}

func (c *Context) applySkeleton(src *facts.Class) {
	el := element{kind: facts.KindClass, class: src}

	if src.Modifiers.Has("abstract") {
		c.errorf(el, diag.ErrAbstractClass, "class %s is abstract and cannot be instantiated by a builder", src.QualifiedName())
		return
	}
	if src.Modifiers.Has("private") {
		c.errorf(el, diag.ErrPrivateClass, "class %s is private and cannot be referenced by a builder", src.QualifiedName())
		return
	}

	var accessible, hidden []*facts.Constructor
	for _, ctor := range src.Constructors {
		if ctor.Excluded {
			continue
		}
		if ctor.Modifiers.Accessible() {
			accessible = append(accessible, ctor)
		} else {
			hidden = append(hidden, ctor)
		}
	}

	var (
		bridges  []*facts.Constructor
		strategy access
	)
	switch {
	case len(accessible) > 0:
		bridges, strategy = accessible, accessDirect
	case src.Privileged && len(hidden) > 0:
		bridges, strategy = hidden, accessReflective
	default:
		c.errorf(el, diag.ErrNoAccessibleConstructor,
			"class %s has no constructor reachable from its builder; add a package-visible constructor or enable privileged access", src.QualifiedName())
		return
	}

	key := c.builderKey(src)
	if have, ok := c.skeletonByKey(key); ok && have.source != src {
		c.errorf(el, diag.ErrBuilderCollision,
			"class %s maps to builder %s, which is already generated from %s", src.QualifiedName(), key, have.source.QualifiedName())
		return
	}
	sk := &skeleton{
		key:    key,
		class:  c.Registry.GetOrCreate(key),
		held:   src.Name,
		source: src,
	}
	sk.class.SetKey(c.builderName(src))
	sk.class.SetPackage(src.Package)
	if src.BuilderAccess == facts.AccessPublic {
		sk.class.AddModifiers(model.Public)
	}
	sk.class.AddVariable(model.NewVariable(sk.held, c.Config.ObjectName, model.Private))

	for _, ctor := range bridges {
		if strategy == accessDirect && ctor.Modifiers.Has("public") {
			c.warnf(el, diag.WarnPublicConstructor,
				"class %s has public constructor %s; builder-managed classes should not expose public constructors", src.QualifiedName(), ctor.Signature())
		}
		c.addBridge(sk, ctor, strategy)
	}

	c.skeletons[src.QualifiedName()] = sk
	c.Logger.With("class", src.QualifiedName(), "builder", key, "constructors", len(bridges), "access", strategy.String()).
		Debug("builder skeleton ready")
}

// addBridge adds a builder constructor mirroring ctor. A bridge with the
// same parameter types is never added twice.
func (c *Context) addBridge(sk *skeleton, ctor *facts.Constructor, strategy access) {
	types := make([]string, len(ctor.Parameters))
	for i, p := range ctor.Parameters {
		types[i] = p.Type
	}
	for _, have := range sk.class.Constructors() {
		if slices.Equal(have.ParameterTypes(), types) {
			return
		}
	}

	bridge := model.NewConstructor(sk.class.Key())
	if sk.source.BuilderAccess == facts.AccessPublic {
		bridge.AddModifiers(model.Public)
	}
	for _, t := range types {
		bridge.AddParameter(t, c.Config.ParamPrefix)
	}
	args := strings.Join(bridge.ParameterNames(), ", ")

	var err error
	switch strategy {
	case accessReflective:
		try := model.NewTry(
			fmt.Sprintf("java.lang.reflect.Constructor<?> constructor = %s.class.getDeclaredConstructor(%s);", erase(sk.held), classLiterals(types)),
			"constructor.setAccessible(true);",
			fmt.Sprintf("this.%s = (%s) constructor.newInstance(%s);", c.Config.ObjectName, sk.held, args),
			"constructor.setAccessible(false);",
		).Catch([]string{
			"NoSuchMethodException",
			"IllegalAccessException",
			"InstantiationException",
			"java.lang.reflect.InvocationTargetException",
		})
		err = bridge.AddBlock(try)
	default:
		err = bridge.AddLine(model.Assignment("this", c.Config.ObjectName, fmt.Sprintf("new %s(%s)", sk.held, args)))
	}
	if err != nil {
		c.errorf(element{kind: facts.KindConstructor, class: sk.source}, err, "")
		return
	}
	sk.class.AddConstructor(bridge)
}
