package engine

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/buildergen/internal/diag"
	"github.com/cmmoran/buildergen/internal/facts"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func loadSet(t *testing.T, doc string) *facts.Set {
	t.Helper()
	classes, err := facts.Parse([]byte(doc), "test.yaml")
	require.NoError(t, err)
	set, err := facts.NewSet(classes...)
	require.NoError(t, err)
	return set
}

func generate(t *testing.T, doc string) (*Result, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	res, err := Generate(DefaultConfig(), loadSet(t, doc), NewFsFiler(fs, "out"), discard)
	require.NoError(t, err)
	return res, fs
}

func artifact(t *testing.T, res *Result, name string) Artifact {
	t.Helper()
	for _, a := range res.Artifacts {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("no artifact %s in %v", name, res.Artifacts)
	return Artifact{}
}

func hasDiagnostic(res *Result, sev diag.Severity, cause error) bool {
	for _, d := range res.Diagnostics {
		if d.Severity == sev && errors.Is(d, cause) {
			return true
		}
	}
	return false
}

func requireText(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rendered builder mismatch (-want +got):\n%s", diff)
	}
}

const pointDoc = `
classes:
  - name: Point
    package: geo
    buildable: true
    constructors:
      - parameters: [{name: x, type: int}, {name: y, type: int}]
    fields:
      - {name: x, type: int, building_block: true}
      - {name: y, type: int, building_block: true}
`

func TestPointBuilder(t *testing.T) {
	res, fs := generate(t, pointDoc)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Artifacts, 1)

	want := `package geo;

class PointBuilder {

	private Point object;

	PointBuilder(int param0, int param1) {
		this.object = new Point(param0, param1);
	}

	PointBuilder setX(int param0) {
		object.x = param0;
		return this;
	}

	PointBuilder setY(int param0) {
		object.y = param0;
		return this;
	}

	public Point build() {
		return object;
	}

}
`
	a := artifact(t, res, "geo.PointBuilder")
	require.Equal(t, "geo.Point", a.Source)
	require.Equal(t, "geo/PointBuilder.java", a.Path)
	requireText(t, want, a.Text)

	written, err := afero.ReadFile(fs, "out/geo/PointBuilder.java")
	require.NoError(t, err)
	requireText(t, want, string(written))
}

func TestPrivateFieldWithoutSetter(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Person
    package: crm
    buildable: true
    fields:
      - {name: name, type: String, modifiers: [private], building_block: true}
`)
	require.True(t, hasDiagnostic(res, diag.Error, diag.ErrNoSetter))
	require.NotContains(t, artifact(t, res, "crm.PersonBuilder").Text, "setName")
}

func TestPrimitiveNullCheckHasNoGuard(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Person
    package: crm
    buildable: true
    fields:
      - name: age
        type: int
        building_block: true
        non_null: {operation: throw}
`)
	require.Empty(t, res.Diagnostics)
	text := artifact(t, res, "crm.PersonBuilder").Text
	require.Contains(t, text, "\tPersonBuilder setAge(int param0) {\n\t\tobject.age = param0;\n\t\treturn this;\n\t}")
	require.NotContains(t, text, "if (")
}

func TestLoggerAddedOnce(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: User
    package: acct
    buildable: true
    fields:
      - name: email
        type: String
        modifiers: [private]
        building_block: true
        non_null: {operation: log, message: email required}
    methods:
      - name: setEmail
        modifiers: [public]
        parameters: [{name: email, type: String}]
        building_block: true
        non_null: {operation: log, message: email required}
`)
	require.Empty(t, res.Diagnostics)
	want := `package acct;

class UserBuilder {

	private User object;
	private static final org.slf4j.Logger LOG = org.slf4j.LoggerFactory.getLogger(UserBuilder.class);

	UserBuilder() {
		this.object = new User();
	}

	UserBuilder setEmail(String param0) {
		if (java.util.Objects.isNull(param0)) {
			LOG.error("email required");
			return this;
		}
		object.setEmail(param0);
		return this;
	}

	public User build() {
		return object;
	}

}
`
	requireText(t, want, artifact(t, res, "acct.UserBuilder").Text)
}

func TestPrivilegedConstruction(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Secret
    package: vault
    buildable: true
    privileged: true
    constructors:
      - modifiers: [private]
        parameters: [{name: value, type: String}]
`)
	require.Empty(t, res.Diagnostics)
	want := `package vault;

class SecretBuilder {

	private Secret object;

	SecretBuilder(String param0) {
		try {
			java.lang.reflect.Constructor<?> constructor = Secret.class.getDeclaredConstructor(String.class);
			constructor.setAccessible(true);
			this.object = (Secret) constructor.newInstance(param0);
			constructor.setAccessible(false);
		} catch (NoSuchMethodException | IllegalAccessException | InstantiationException | java.lang.reflect.InvocationTargetException exc) {
		}
	}

	public Secret build() {
		return object;
	}

}
`
	requireText(t, want, artifact(t, res, "vault.SecretBuilder").Text)
}

func TestPrivilegedConstructionSkippedWhenAccessibleExists(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Secret
    buildable: true
    privileged: true
    constructors:
      - modifiers: [private]
        parameters: [{name: value, type: String}]
      - parameters: []
`)
	text := artifact(t, res, "SecretBuilder").Text
	require.NotContains(t, text, "getDeclaredConstructor")
	require.Contains(t, text, "\tSecretBuilder() {\n\t\tthis.object = new Secret();\n\t}")
	require.NotContains(t, text, "package ")
}

func TestReflectiveFieldMutator(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Secret
    package: vault
    buildable: true
    privileged: true
    fields:
      - {name: tags, type: "java.util.List<String>", modifiers: [private], building_block: true}
`)
	require.Empty(t, res.Diagnostics)
	want := "\tSecretBuilder setTags(java.util.List<String> param0) {\n" +
		"\t\ttry {\n" +
		"\t\t\tjava.lang.reflect.Field field = Secret.class.getDeclaredField(\"tags\");\n" +
		"\t\t\tfield.setAccessible(true);\n" +
		"\t\t\tfield.set(object, param0);\n" +
		"\t\t\tfield.setAccessible(false);\n" +
		"\t\t} catch (NoSuchFieldException | IllegalAccessException exc) {\n" +
		"\t\t}\n" +
		"\t\treturn this;\n" +
		"\t}"
	require.Contains(t, artifact(t, res, "vault.SecretBuilder").Text, want)
}

func TestSetterPrecedesReflection(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Secret
    buildable: true
    privileged: true
    fields:
      - {name: code, type: int, modifiers: [private], building_block: true}
    methods:
      - name: setCode
        parameters: [{name: code, type: int}]
`)
	text := artifact(t, res, "SecretBuilder").Text
	require.Contains(t, text, "\t\tobject.setCode(param0);\n")
	require.NotContains(t, text, "getDeclaredField")
}

func TestGuardOperations(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		want      string
		logger    bool
	}{
		{"no_op", "no_op", "\t\tif (java.util.Objects.isNull(param0)) {\n\t\t\treturn this;\n\t\t}\n", false},
		{"throw", "throw", "\t\tif (java.util.Objects.isNull(param0)) {\n\t\t\tthrow new IllegalArgumentException(\"say \\\"hi\\\"\");\n\t\t}\n", false},
		{"print_err", "print_err", "\t\tif (java.util.Objects.isNull(param0)) {\n\t\t\tSystem.err.println(\"say \\\"hi\\\"\");\n\t\t\treturn this;\n\t\t}\n", false},
		{"print_out", "stdout", "\t\tif (java.util.Objects.isNull(param0)) {\n\t\t\tSystem.out.println(\"say \\\"hi\\\"\");\n\t\t\treturn this;\n\t\t}\n", false},
		{"log", "log", "\t\tif (java.util.Objects.isNull(param0)) {\n\t\t\tLOG.error(\"say \\\"hi\\\"\");\n\t\t\treturn this;\n\t\t}\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := generate(t, `
classes:
  - name: Greeter
    buildable: true
    methods:
      - name: greet
        parameters: [{name: who, type: String}, {name: times, type: int}]
        building_block: true
        non_null: {operation: `+tt.operation+`, message: 'say "hi"'}
`)
			require.Empty(t, res.Diagnostics)
			text := artifact(t, res, "GreeterBuilder").Text
			require.Contains(t, text, "\tGreeterBuilder greet(String param0, int param1) {\n"+tt.want+"\t\tobject.greet(param0, param1);\n\t\treturn this;\n\t}")
			logger := "\tprivate static final org.slf4j.Logger LOG = org.slf4j.LoggerFactory.getLogger(GreeterBuilder.class);\n"
			if tt.logger {
				require.Contains(t, text, logger)
			} else {
				require.NotContains(t, text, "org.slf4j.Logger")
			}
		})
	}
}

func TestGuardCoversEveryReferenceParameter(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Mailer
    buildable: true
    methods:
      - name: send
        parameters: [{name: to, type: String}, {name: n, type: long}, {name: body, type: "byte[]"}]
        building_block: true
        non_null: {operation: no_op}
`)
	require.Contains(t, artifact(t, res, "MailerBuilder").Text,
		"if (java.util.Objects.isNull(param0) || java.util.Objects.isNull(param2)) {")
}

func TestClassErrorsSkipBuilder(t *testing.T) {
	tests := []struct {
		name  string
		class string
		cause error
	}{
		{"abstract", "    modifiers: [public, abstract]\n", diag.ErrAbstractClass},
		{"private", "    modifiers: [private]\n", diag.ErrPrivateClass},
		{"no accessible constructor", "    constructors:\n      - modifiers: [private]\n", diag.ErrNoAccessibleConstructor},
		{"every constructor excluded", "    constructors:\n      - excluded: true\n", diag.ErrNoAccessibleConstructor},
		{"privileged without constructors", "    privileged: true\n    constructors:\n      - excluded: true\n", diag.ErrNoAccessibleConstructor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, fs := generate(t, "classes:\n  - name: Shape\n    package: geo\n    buildable: true\n"+tt.class+
				"    fields:\n      - {name: sides, type: int, building_block: true}\n")
			require.True(t, hasDiagnostic(res, diag.Error, tt.cause), "diagnostics: %v", res.Diagnostics)
			require.True(t, hasDiagnostic(res, diag.Warning, diag.WarnEnclosingNotBuildable))
			require.Empty(t, res.Artifacts)

			exists, err := afero.Exists(fs, "out/geo/ShapeBuilder.java")
			require.NoError(t, err)
			require.False(t, exists)
		})
	}
}

func TestMemberErrors(t *testing.T) {
	tests := []struct {
		name   string
		member string
		cause  error
		absent string
	}{
		{"final field", "    fields:\n      - {name: id, type: long, modifiers: [final], building_block: true}\n", diag.ErrImmutableField, "setId"},
		{"static field", "    fields:\n      - {name: count, type: int, modifiers: [static], building_block: true}\n", diag.ErrImmutableField, "setCount"},
		{"private method", "    methods:\n      - {name: reset, modifiers: [private], building_block: true}\n", diag.ErrInaccessibleMethod, "reset"},
		{"protected method", "    methods:\n      - {name: reset, modifiers: [protected], building_block: true}\n", diag.ErrInaccessibleMethod, "reset"},
		{"null check without building block", "    fields:\n      - {name: tag, type: String, non_null: {}}\n", diag.ErrNonNullWithoutBuildingBlock, "setTag"},
		{"method named like the terminal accessor", "    methods:\n      - {name: build, building_block: true}\n", diag.ErrMutatorCollision, "object.build()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := generate(t, "classes:\n  - name: Counter\n    buildable: true\n"+tt.member)
			require.True(t, hasDiagnostic(res, diag.Error, tt.cause), "diagnostics: %v", res.Diagnostics)
			require.NotContains(t, artifact(t, res, "CounterBuilder").Text, tt.absent)
		})
	}
}

func TestWarnings(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Account
    package: bank
    buildable: true
    constructors:
      - modifiers: [public]
      - modifiers: [public]
        parameters: [{name: owner, type: String}]
    methods:
      - {name: deposit, return_type: long, parameters: [{name: amount, type: long}], building_block: true}
  - name: Ledger
    package: bank
    fields:
      - {name: total, type: long, building_block: true}
`)
	var public int
	for _, d := range res.Diagnostics {
		require.Equal(t, diag.Warning, d.Severity, d.Error())
		if errors.Is(d, diag.WarnPublicConstructor) {
			public++
		}
	}
	require.Equal(t, 2, public)
	require.True(t, hasDiagnostic(res, diag.Warning, diag.WarnDiscardedReturn))
	require.True(t, hasDiagnostic(res, diag.Warning, diag.WarnEnclosingNotBuildable))
	require.False(t, res.HasErrors())

	text := artifact(t, res, "bank.AccountBuilder").Text
	require.Contains(t, text, "\tAccountBuilder deposit(long param0) {\n\t\tobject.deposit(param0);\n\t\treturn this;\n\t}")
	require.Len(t, res.Artifacts, 1)
}

func TestMutatorCollision(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Point
    buildable: true
    fields:
      - {name: x, type: int, building_block: true}
    methods:
      - {name: setX, parameters: [{name: x, type: int}], building_block: true}
`)
	require.True(t, hasDiagnostic(res, diag.Error, diag.ErrMutatorCollision))
	text := artifact(t, res, "PointBuilder").Text
	require.Contains(t, text, "object.x = param0;")
	require.NotContains(t, text, "object.setX(param0);")
}

func TestSameBuilderNameFromDifferentClasses(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Outer.Inner
    package: geo
    buildable: true
    constructors:
      - parameters: [{name: n, type: int}]
  - name: Other.Inner
    package: geo
    buildable: true
    constructors:
      - parameters: [{name: s, type: String}]
    fields:
      - {name: tag, type: String, building_block: true}
`)
	require.True(t, hasDiagnostic(res, diag.Error, diag.ErrBuilderCollision), "diagnostics: %v", res.Diagnostics)
	require.True(t, hasDiagnostic(res, diag.Warning, diag.WarnEnclosingNotBuildable))
	require.Len(t, res.Artifacts, 1)

	text := artifact(t, res, "geo.InnerBuilder").Text
	require.Contains(t, text, "\tprivate Outer.Inner object;\n")
	require.Contains(t, text, "this.object = new Outer.Inner(param0);")
	require.NotContains(t, text, "Other.Inner")
	require.NotContains(t, text, "setTag")
}

func TestPublicBuilderAccess(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Point
    package: geo
    buildable: true
    builder_access: public
    fields:
      - {name: x, type: int, building_block: true}
`)
	text := artifact(t, res, "geo.PointBuilder").Text
	require.Contains(t, text, "public class PointBuilder {")
	require.Contains(t, text, "\tpublic PointBuilder() {")
	require.Contains(t, text, "\tpublic PointBuilder setX(int param0) {")
}

func TestNestedSourceClass(t *testing.T) {
	res, _ := generate(t, `
classes:
  - name: Outer.Inner
    package: geo
    buildable: true
`)
	a := artifact(t, res, "geo.InnerBuilder")
	require.Equal(t, "geo/InnerBuilder.java", a.Path)
	require.Contains(t, a.Text, "\tprivate Outer.Inner object;\n")
	require.Contains(t, a.Text, "\tpublic Outer.Inner build() {")
}

func TestRulesAreIdempotent(t *testing.T) {
	set := loadSet(t, `
classes:
  - name: User
    package: acct
    buildable: true
    privileged: true
    constructors:
      - modifiers: [private]
    fields:
      - {name: email, type: String, modifiers: [private], building_block: true, non_null: {operation: log}}
      - {name: age, type: int, building_block: true}
`)
	once := NewContext(DefaultConfig(), set, nil, discard)
	once.Run()
	want, err := once.Emit(nil)
	require.NoError(t, err)

	twice := NewContext(DefaultConfig(), set, nil, discard)
	twice.Run()
	twice.Run()
	_, err = twice.Emit(nil)
	require.NoError(t, err)
	got, err := twice.Emit(nil)
	require.NoError(t, err)

	require.Len(t, got, 1)
	requireText(t, want[0].Text, got[0].Text)
}

type failingFiler struct {
	Filer
	fail string
}

var errDiskFull = errors.New("disk full")

func (f failingFiler) Create(name string) (io.WriteCloser, error) {
	if name == f.fail {
		return nil, errDiskFull
	}
	return f.Filer.Create(name)
}

func TestPersistFailureContinues(t *testing.T) {
	set := loadSet(t, `
classes:
  - {name: A, package: p, buildable: true}
  - {name: B, package: p, buildable: true}
  - {name: C, package: p, buildable: true}
`)
	fs := afero.NewMemMapFs()
	res, err := Generate(DefaultConfig(), set, failingFiler{Filer: NewFsFiler(fs, "/out"), fail: "p/BBuilder.java"}, discard)
	require.ErrorIs(t, err, diag.ErrPersist)
	require.ErrorIs(t, err, errDiskFull)
	require.True(t, hasDiagnostic(res, diag.Error, diag.ErrPersist))

	require.Len(t, res.Artifacts, 2)
	for _, name := range []string{"/out/p/ABuilder.java", "/out/p/CBuilder.java"} {
		exists, err := afero.Exists(fs, name)
		require.NoError(t, err)
		require.True(t, exists, name)
	}
}

func TestCustomConfig(t *testing.T) {
	cfg := Config{Suffix: "Maker", ObjectName: "target", ParamPrefix: "arg", BuildMethod: "make"}
	res, err := Generate(cfg, loadSet(t, pointDoc), nil, discard)
	require.NoError(t, err)
	text := artifact(t, res, "geo.PointMaker").Text
	require.Contains(t, text, "\tprivate Point target;\n")
	require.Contains(t, text, "\tPointMaker(int arg0, int arg1) {\n\t\tthis.target = new Point(arg0, arg1);\n\t}")
	require.Contains(t, text, "\tpublic Point make() {\n\t\treturn target;\n\t}")
}

func TestErase(t *testing.T) {
	tests := map[string]string{
		"int":                                  "int",
		"java.util.List<String>":               "java.util.List",
		"java.util.Map<String, List<Integer>>": "java.util.Map",
		"List<String>[]":                       "List[]",
		"String...":                            "String[]",
	}
	for in, want := range tests {
		require.Equalf(t, want, erase(in), "erase(%q)", in)
	}
	require.Equal(t, "int.class, java.util.List.class", classLiterals([]string{"int", "java.util.List<T>"}))
}

func TestRuleHandles(t *testing.T) {
	cls := &facts.Class{Name: "A", Buildable: true}
	field := &facts.Field{Name: "f", Type: "int", BuildingBlock: true}
	guarded := &facts.Field{Name: "g", Type: "String", NonNull: &facts.NonNull{}}

	require.True(t, RuleSkeleton.Handles(element{kind: facts.KindClass, class: cls}))
	require.False(t, RuleSkeleton.Handles(element{kind: facts.KindClass, class: &facts.Class{Name: "B"}}))
	require.True(t, RuleMutator.Handles(element{kind: facts.KindField, class: cls, field: field}))
	require.False(t, RuleValidation.Handles(element{kind: facts.KindField, class: cls, field: field}))
	require.True(t, RuleValidation.Handles(element{kind: facts.KindField, class: cls, field: guarded}))
	require.Equal(t, "mutator", RuleMutator.String())
}
