package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsKeyOrder(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(`
zeta: 1
alpha: two
mid:
  c: true
  a: null
  b: [1, 2.5, x]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.Root.Keys())
	mid := doc.Root.Object("mid")
	assert.Equal(t, []string{"c", "a", "b"}, mid.Keys())
	assert.True(t, mid.Has("a"))
	assert.False(t, mid.Truthy("a"))
	assert.Equal(t, []any{1, 2.5, "x"}, mid.Array("b"))

	out, err := json.Marshal(doc.Root)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"two","mid":{"c":true,"a":null,"b":[1,2.5,"x"]}}`, string(out))
}

func TestParse_JSONInput(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(`{"swagger": "2.0", "paths": {"/b": {}, "/a": {}}}`))
	require.NoError(t, err)
	assert.Equal(t, "2.0", doc.Root.String("swagger"))
	assert.Equal(t, []string{"/b", "/a"}, doc.Root.Object("paths").Keys())
}

func TestParse_NumericKeysAndAliases(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte(`
base: &base
  type: string
  description: shared
responses:
  200: {description: ok}
copy:
  <<: *base
  description: own
`))
	require.NoError(t, err)
	assert.True(t, doc.Root.Object("responses").Has("200"))
	cp := doc.Root.Object("copy")
	assert.Equal(t, "own", cp.String("description"))
	assert.Equal(t, "string", cp.String("type"))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	for _, src := range []string{"", "   \n", "- a\n- b\n", "key: [unterminated"} {
		_, err := Parse([]byte(src))
		require.Error(t, err, "input %q", src)
		var se *SpecError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, ParseError, se.Code)
	}
}

func TestParse_SelfReferencingAnchor(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte("a: &x\n  b: *x\n"))
	require.Error(t, err)
	var se *SpecError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ParseError, se.Code)
	assert.Contains(t, err.Error(), "refers to itself")
}

func TestParse_RepeatedAliasIsNotACycle(t *testing.T) {
	t.Parallel()
	doc, err := Parse([]byte("s: &s {type: string}\na: *s\nb: *s\n"))
	require.NoError(t, err)
	assert.Equal(t, "string", doc.Root.Object("a").String("type"))
	assert.Equal(t, "string", doc.Root.Object("b").String("type"))
}

func TestParse_ExcessiveAliasing(t *testing.T) {
	t.Parallel()
	// Each level lists the previous one ten times: 10^7 scalars once expanded.
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 6; i++ {
		ref := fmt.Sprintf("*l%d", i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(ref+", ", 10), ", "))
	}
	_, err := Parse([]byte(b.String()))
	require.Error(t, err)
	var se *SpecError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ParseError, se.Code)
	assert.Contains(t, err.Error(), "excessive aliasing")
}

func TestObject_NilSafe(t *testing.T) {
	t.Parallel()
	var o *Object
	assert.Equal(t, 0, o.Len())
	assert.Nil(t, o.Keys())
	assert.Equal(t, "", o.Object("a").String("b"))
	assert.Nil(t, o.Array("x"))
	assert.Nil(t, o.ToMap())
}

func TestObject_ToMap(t *testing.T) {
	t.Parallel()
	o := fragment(t, `{a: {b: [ {c: 1} ]}}`)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": []any{map[string]any{"c": 1}}}}, o.ToMap())
}
