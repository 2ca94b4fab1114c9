package spec

import "strings"

// Sentinel descriptors for shapes the resolver cannot name precisely.
const (
	TypeUntypedArray = "[]"
	TypeVoid         = "{}"
	TypeAny          = "any"
	TypeUnknown      = "unknown"
)

// ResolveType describes a parameter or property. A nested schema takes
// precedence over the inline type/items/$ref fields.
func ResolveType(o *Object) string {
	if o == nil {
		return TypeUnknown
	}
	var typ, ref string
	if schema := o.Object("schema"); schema != nil {
		typ = schema.String("type")
		if items := schema.Object("items"); items != nil {
			ref = items.String("$ref")
		} else {
			ref = schema.String("$ref")
		}
	} else {
		typ = o.String("type")
		ref = o.Object("items").String("$ref")
		if ref == "" {
			ref = o.String("$ref")
		}
	}

	switch {
	case typ == "array":
		if ref == "" {
			return TypeUntypedArray
		}
		return refName(ref) + "[]"
	case typ != "":
		return typ
	case ref != "":
		return refName(ref)
	default:
		return TypeUnknown
	}
}

// ResolveResponse describes a response schema; nil means no schema at all.
func ResolveResponse(schema *Object) string {
	if schema == nil {
		return TypeVoid
	}
	switch schema.String("type") {
	case "array":
		items := schema.Object("items")
		ref := items.String("$ref")
		if ref == "" {
			ref = schema.String("$ref")
		}
		if ref == "" {
			// scalar element types are kept as-is
			ref = items.String("type")
		}
		if ref == "" {
			ref = TypeAny
		}
		return "Array<" + refName(ref) + ">"
	case "object":
		return TypeAny
	}
	if ref := schema.String("$ref"); ref != "" {
		return refName(ref)
	}
	return TypeUnknown
}

// refName reduces a JSON pointer such as "#/definitions/Pet" to its final
// segment. Plain names pass through.
func refName(ref string) string {
	if !strings.Contains(ref, "#") {
		return ref
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return strings.TrimPrefix(ref, "#")
}
