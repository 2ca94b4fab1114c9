package spec

import "strings"

// CamelCase joins hyphenated tokens: "list-all-pets" becomes "listAllPets".
// Tokens without a hyphen are returned unchanged.
func CamelCase(token string) string {
	if !strings.Contains(token, "-") {
		return token
	}
	var b strings.Builder
	for i, seg := range strings.Split(token, "-") {
		if seg == "" {
			continue
		}
		if i == 0 {
			b.WriteString(lowerFirst(seg))
		} else {
			b.WriteString(upperFirst(seg))
		}
	}
	return b.String()
}

var referenceReplacer = strings.NewReplacer(".", "_", "-", "_", "{", "_", "}", "_")

// SanitizeReferenceName turns an operationId or $ref into a safe identifier.
func SanitizeReferenceName(id string) string {
	return referenceReplacer.Replace(id)
}

// DeriveMethodName builds an identifier from the verb and path template,
// e.g. GET /pets/{petId}/owner yields getPetsByPetIdOwner.
func DeriveMethodName(method, path string) string {
	m := strings.ToLower(method)
	if path == "/" || path == "" {
		return m
	}
	clean := strings.TrimSuffix(path, "/")
	segments := strings.Split(clean, "/")
	if len(segments) > 0 && segments[0] == "" {
		segments = segments[1:]
	}
	for i, seg := range segments {
		if len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
			segments[i] = "by" + upperFirst(seg[1:len(seg)-1])
		}
	}
	return m + upperFirst(CamelCase(strings.Join(segments, "-")))
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
