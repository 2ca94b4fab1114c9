package emitter

import (
	"encoding/json"
	"sort"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/mark3labs/swagger-js-codegen/internal/spec"
)

var funcMap = template.FuncMap{
	"tsType":     TSType,
	"lower":      strings.ToLower,
	"upperFirst": upperFirst,
	"literal":    literal,
	"typeRefs":   typeRefs,
}

var tsScalars = map[string]string{
	"string":              "string",
	"integer":             "number",
	"number":              "number",
	"boolean":             "boolean",
	"object":              "any",
	"file":                "any",
	spec.TypeAny:          "any",
	spec.TypeUnknown:      "unknown",
	spec.TypeVoid:         "void",
	spec.TypeUntypedArray: "any[]",
}

// TSType maps a resolved type descriptor onto a TypeScript type expression.
// Named references pass through unchanged.
func TSType(descriptor string) string {
	if ts, ok := tsScalars[descriptor]; ok {
		return ts
	}
	if inner, ok := strings.CutSuffix(descriptor, "[]"); ok {
		return TSType(inner) + "[]"
	}
	if strings.HasPrefix(descriptor, "Array<") && strings.HasSuffix(descriptor, ">") {
		return "Array<" + TSType(descriptor[len("Array<"):len(descriptor)-1]) + ">"
	}
	return descriptor
}

// typeRefs lists the other definitions a data type's properties refer to.
func typeRefs(dt *spec.DataType) []string {
	seen := map[string]bool{}
	for _, p := range dt.Properties {
		name := p.TypeDescriptor()
		for {
			if inner, ok := strings.CutSuffix(name, "[]"); ok {
				name = inner
				continue
			}
			break
		}
		if name == "" || name == dt.Name {
			continue
		}
		if _, scalar := tsScalars[name]; scalar {
			continue
		}
		seen[name] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// literal renders v as a JavaScript literal.
func literal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
