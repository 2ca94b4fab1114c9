package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fragment decodes a YAML snippet into an ordered mapping.
func fragment(t *testing.T, src string) *Object {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	return doc.Root
}

func TestResolveType(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"array of pointer ref", `{type: array, items: {$ref: '#/definitions/Pet'}}`, "Pet[]"},
		{"array of plain ref", `{type: array, items: {$ref: Pet}}`, "Pet[]"},
		{"array with top-level ref", `{type: array, $ref: '#/definitions/Tag'}`, "Tag[]"},
		{"untyped array", `{type: array, items: {type: string}}`, "[]"},
		{"array without items", `{type: array}`, "[]"},
		{"scalar", `{type: integer, format: int64}`, "integer"},
		{"nested schema wins", `{type: string, schema: {type: array, items: {$ref: '#/definitions/Pet'}}}`, "Pet[]"},
		{"nested schema ref", `{in: body, name: body, schema: {$ref: '#/definitions/Pet'}}`, "Pet"},
		{"nested schema scalar", `{schema: {type: boolean}}`, "boolean"},
		{"bare ref", `{$ref: '#/definitions/Owner'}`, "Owner"},
		{"nothing", `{description: mystery}`, "unknown"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ResolveType(fragment(t, tc.src)))
		})
	}
	assert.Equal(t, TypeUnknown, ResolveType(nil))
}

func TestResolveResponse(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"array of ref", `{type: array, items: {$ref: Pet}}`, "Array<Pet>"},
		{"array of pointer ref", `{type: array, items: {$ref: '#/definitions/Pet'}}`, "Array<Pet>"},
		{"array of scalars", `{type: array, items: {type: string}}`, "Array<string>"},
		{"array own ref", `{type: array, $ref: Pet}`, "Array<Pet>"},
		{"array own ref beats item type", `{type: array, $ref: Pet, items: {type: string}}`, "Array<Pet>"},
		{"item ref beats own ref", `{type: array, $ref: Pet, items: {$ref: Tag}}`, "Array<Tag>"},
		{"array of untyped items", `{type: array, items: {}}`, "Array<any>"},
		{"array of nothing", `{type: array}`, "Array<any>"},
		{"object", `{type: object, properties: {a: {type: string}}}`, "any"},
		{"ref", `{$ref: '#/definitions/Pet'}`, "Pet"},
		{"scalar", `{type: string}`, "unknown"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ResolveResponse(fragment(t, tc.src)))
		})
	}
	assert.Equal(t, "{}", ResolveResponse(nil))
}
