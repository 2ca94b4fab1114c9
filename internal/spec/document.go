package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a decoded Swagger 1.2 or 2.0 description. Mapping keys keep
// the order in which they appear in the source.
type Document struct {
	Root     *Object
	Location string
}

// Object is an ordered JSON/YAML mapping. Values are string, bool, int,
// float64, nil, []any or *Object.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty mapping.
func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

// Set stores v under key, appending key when it is new.
func (o *Object) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns keys in source order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports presence of key, even when its value is null.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// String returns the value under key when it is a string.
func (o *Object) String(key string) string {
	v, _ := o.Get(key)
	s, _ := v.(string)
	return s
}

// Object returns the nested mapping under key, or nil.
func (o *Object) Object(key string) *Object {
	v, _ := o.Get(key)
	m, _ := v.(*Object)
	return m
}

// Array returns the sequence under key, or nil.
func (o *Object) Array(key string) []any {
	v, _ := o.Get(key)
	a, _ := v.([]any)
	return a
}

// Truthy reports whether key holds a value a template engine would treat as true.
func (o *Object) Truthy(key string) bool {
	v, ok := o.Get(key)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// ToMap converts the ordered tree into plain maps and slices.
func (o *Object) ToMap() map[string]any {
	if o == nil {
		return nil
	}
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = plainValue(o.values[k])
	}
	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case *Object:
		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON writes keys in source order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Parse decodes a JSON or YAML document.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &SpecError{Code: ParseError, Message: "spec: document is empty"}
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse spec: %v", err), Cause: err}
	}
	d := &nodeDecoder{expanding: map[*yaml.Node]bool{}}
	v, err := d.decode(&node)
	if err != nil {
		return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse spec: %v", err), Cause: err}
	}
	root, ok := v.(*Object)
	if !ok {
		return nil, &SpecError{Code: ParseError, Message: "parse spec: root must be a mapping"}
	}
	return &Document{Root: root}, nil
}

// maxAliasNodes caps how many values may be produced by following aliases.
const maxAliasNodes = 100000

type nodeDecoder struct {
	expanding map[*yaml.Node]bool // anchors currently being expanded
	depth     int                 // alias nesting
	aliased   int                 // values produced under an alias
}

func (d *nodeDecoder) decode(n *yaml.Node) (any, error) {
	if d.depth > 0 {
		d.aliased++
		if d.aliased > maxAliasNodes {
			return nil, fmt.Errorf("line %d: document contains excessive aliasing", n.Line)
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown anchor %q", n.Line, n.Value)
		}
		if d.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: anchor %q refers to itself", n.Line, n.Value)
		}
		d.expanding[n.Alias] = true
		d.depth++
		v, err := d.decode(n.Alias)
		d.depth--
		delete(d.expanding, n.Alias)
		return v, err
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, vn := n.Content[i], n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Tag == "!!merge" {
				if err := d.mergeInto(obj, vn); err != nil {
					return nil, err
				}
				continue
			}
			v, err := d.decode(vn)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

// mergeInto applies a YAML merge key; explicit keys already present win.
func (d *nodeDecoder) mergeInto(obj *Object, n *yaml.Node) error {
	v, err := d.decode(n)
	if err != nil {
		return err
	}
	var sources []*Object
	switch val := v.(type) {
	case *Object:
		sources = append(sources, val)
	case []any:
		for _, item := range val {
			if m, ok := item.(*Object); ok {
				sources = append(sources, m)
			}
		}
	}
	for _, src := range sources {
		for _, k := range src.keys {
			if !obj.Has(k) {
				obj.Set(k, src.values[k])
			}
		}
	}
	return nil
}

// pointerEscape encodes a JSON Pointer reference token.
func pointerEscape(tok string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(tok)
}
