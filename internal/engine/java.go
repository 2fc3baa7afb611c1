package engine

import (
	"strings"
)

var primitives = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"double":  true,
	"float":   true,
	"int":     true,
	"long":    true,
	"short":   true,
}

// isPrimitive reports whether values of typ can never be null.
func isPrimitive(typ string) bool {
	return primitives[strings.TrimSpace(typ)]
}

// erase drops type arguments and turns varargs into arrays, giving a type
// usable in a class literal: "java.util.List<String>" -> "java.util.List",
// "String..." -> "String[]".
func erase(typ string) string {
	var b strings.Builder
	depth := 0
	for _, r := range typ {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if strings.HasSuffix(out, "...") {
		out = strings.TrimSuffix(out, "...") + "[]"
	}
	return out
}

// classLiterals renders "A.class, B.class" for the given types.
func classLiterals(types []string) string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = erase(t) + ".class"
	}
	return strings.Join(out, ", ")
}
