package spec

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Verbs that become operations; any other path-item key is ignored.
var authorizedMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {}, "PATCH": {}, "COPY": {}, "HEAD": {},
	"OPTIONS": {}, "LINK": {}, "UNLINK": {}, "PURGE": {}, "LOCK": {}, "UNLOCK": {}, "PROPFIND": {},
}

// Success codes in the order they are looked up.
var responsePriority = []string{"200", "201", "204", "default"}

const (
	extMethodName  = "x-swagger-js-method-name"
	extProxyHeader = "x-proxy-header"
	extNamePattern = "x-name-pattern"
)

type v2Adapter struct {
	root   *Object
	opts   Options
	log    *zerolog.Logger
	secure bool
}

func buildV2(log *zerolog.Logger, root *Object, opts Options) (*ViewModel, error) {
	a := &v2Adapter{root: root, opts: opts, log: log, secure: root.Has("security")}
	vm := &ViewModel{
		Version:     Swagger20,
		IsNode:      opts.Target.IsNode(),
		IsSecure:    root.Has("securityDefinitions"),
		Description: root.Object("info").String("description"),
		ModuleName:  opts.ModuleName,
		ClassName:   opts.ClassName,
		Domain:      v2Domain(root),
	}

	paths := root.Object("paths")
	for _, path := range paths.Keys() {
		item := paths.Object(path)
		if item == nil {
			log.Warn().Str("path", path).Msg("path item is not a mapping; skipped")
			continue
		}
		var globalParams []any
		for _, key := range item.Keys() {
			if strings.EqualFold(key, "parameters") {
				globalParams = item.Array(key)
			}
		}
		for _, verb := range item.Keys() {
			if _, ok := authorizedMethods[strings.ToUpper(verb)]; !ok {
				log.Debug().Str("path", path).Str("key", verb).Msg("not an operation key; skipped")
				continue
			}
			op := item.Object(verb)
			if op == nil {
				log.Warn().Str("path", path).Str("method", verb).Msg("operation is not a mapping; skipped")
				continue
			}
			operation, err := a.operation(path, verb, op, globalParams)
			if err != nil {
				return nil, err
			}
			vm.Methods = append(vm.Methods, operation)
		}
	}

	vm.DataTypes = v2DataTypes(root.Object("definitions"))
	return vm, nil
}

func v2Domain(root *Object) string {
	schemes := root.Array("schemes")
	host, basePath := root.String("host"), root.String("basePath")
	if len(schemes) == 0 || host == "" || basePath == "" {
		return ""
	}
	scheme, _ := schemes[0].(string)
	if scheme == "" {
		return ""
	}
	return scheme + "://" + host + basePath
}

func (a *v2Adapter) operation(path, verb string, op *Object, globalParams []any) (*Operation, error) {
	pointer := "#/paths/" + pointerEscape(path) + "/" + verb

	name := op.String(extMethodName)
	if name == "" {
		if id := op.String("operationId"); id != "" {
			name = SanitizeReferenceName(id)
		} else {
			name = DeriveMethodName(verb, path)
		}
	}
	summary := op.String("description")
	if summary == "" {
		summary = op.String("summary")
	}
	out := &Operation{
		Path:       path,
		ClassName:  a.opts.ClassName,
		MethodName: name,
		Method:     strings.ToUpper(verb),
		IsGET:      strings.EqualFold(verb, "GET"),
		Summary:    summary,
		IsSecure:   a.secure || op.Has("security"),
		Parameters: []*Parameter{},
		pointer:    pointer,
	}

	raw := append(append([]any(nil), op.Array("parameters")...), globalParams...)
	for i, entry := range raw {
		p, err := a.parameter(entry, fmt.Sprintf("%s/parameters/%d", pointer, i))
		if err != nil {
			return nil, err
		}
		if p != nil {
			out.Parameters = append(out.Parameters, p)
		}
	}

	out.Response = a.response(op.Object("responses"))
	if out.Response != nil {
		a.log.Debug().Str("operation", name).Str("status", out.Response.StatusCode).Msg("success response selected")
	}
	return out, nil
}

// parameter classifies one entry; a nil result with no error means the
// entry was dropped.
func (a *v2Adapter) parameter(entry any, pointer string) (*Parameter, error) {
	obj, ok := entry.(*Object)
	if !ok {
		return nil, defectf(InvalidParameter, pointer, "spec: parameter at %s is not a mapping", pointer)
	}
	if a.dropProxyHeader(obj, pointer) {
		return nil, nil
	}
	if ref, ok := obj.Get("$ref"); ok {
		s, _ := ref.(string)
		target := a.sharedParameter(s)
		if target == nil {
			return nil, defectf(UnresolvedReference, pointer, "spec: parameter reference %q at %s does not resolve", s, pointer)
		}
		a.log.Debug().Str("ref", s).Msg("parameter reference resolved")
		obj = target
		if a.dropProxyHeader(obj, pointer) {
			return nil, nil
		}
	}

	name := obj.String("name")
	if name == "" {
		return nil, defectf(MissingIdentifier, pointer, "spec: parameter at %s has no name", pointer)
	}
	p := newParameter(obj, name)
	switch obj.String("in") {
	case "body":
		p.In = LocationBody
	case "path":
		p.In = LocationPath
	case "query":
		p.In = LocationQuery
		p.IsPatternType = obj.Truthy(extNamePattern)
	case "header":
		p.In = LocationHeader
	case "formData":
		p.In = LocationFormData
	default:
		return nil, defectf(InvalidParameter, pointer, "spec: parameter %q at %s has unsupported location %q", name, pointer, obj.String("in"))
	}
	return p, nil
}

func (a *v2Adapter) dropProxyHeader(obj *Object, pointer string) bool {
	if a.opts.Target.IsNode() || !obj.Truthy(extProxyHeader) {
		return false
	}
	a.log.Debug().Str("parameter", pointer).Msg("proxy-injected header dropped")
	return true
}

// sharedParameter looks a $ref up in the document-level parameters map:
// "limit" names the entry directly, "#/parameters/limit" by its third segment.
func (a *v2Adapter) sharedParameter(ref string) *Object {
	if ref == "" {
		return nil
	}
	segments := strings.Split(ref, "/")
	var key string
	switch {
	case len(segments) == 1:
		key = segments[0]
	case len(segments) >= 3:
		key = segments[2]
	default:
		return nil
	}
	return a.root.Object("parameters").Object(key)
}

func (a *v2Adapter) response(responses *Object) *Response {
	for _, code := range responsePriority {
		entry, ok := responses.Get(code)
		if !ok {
			continue
		}
		r := &Response{StatusCode: code, IsDefault: code == "default"}
		if obj, ok := entry.(*Object); ok {
			if ref := obj.String("$ref"); ref != "" {
				if shared := a.root.Object("responses").Object(refName(ref)); shared != nil {
					obj = shared
				}
			}
			r.Schema = obj.Object("schema")
		}
		return r
	}
	return nil
}

func v2DataTypes(definitions *Object) []*DataType {
	out := make([]*DataType, 0, definitions.Len())
	for _, name := range definitions.Keys() {
		def := definitions.Object(name)
		dt := &DataType{Name: name, Description: def.String("description"), Properties: []*Property{}}
		required := map[string]bool{}
		for _, r := range def.Array("required") {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
		props := def.Object("properties")
		for _, key := range props.Keys() {
			schema := props.Object(key)
			dt.Properties = append(dt.Properties, &Property{
				Name:        key,
				Required:    required[key],
				Description: schema.String("description"),
				Schema:      schema,
			})
		}
		out = append(out, dt)
	}
	return out
}

func newParameter(obj *Object, name string) *Parameter {
	p := &Parameter{
		Name:          name,
		CamelCaseName: CamelCase(name),
		Required:      obj.Truthy("required"),
		Description:   obj.String("description"),
		Schema:        obj,
	}
	if enum := obj.Array("enum"); len(enum) == 1 {
		p.IsSingleton = true
		p.Singleton = enum[0]
	}
	return p
}
