package spec

import (
	"fmt"

	"github.com/rs/zerolog"
)

// buildV1 reads a Swagger 1.2 API declaration. Responses and model
// definitions are not carried over for this dialect.
func buildV1(log *zerolog.Logger, root *Object, opts Options) (*ViewModel, error) {
	vm := &ViewModel{
		Version:     Swagger12,
		IsNode:      opts.Target.IsNode(),
		Description: root.String("description"),
		ModuleName:  opts.ModuleName,
		ClassName:   opts.ClassName,
		Domain:      root.String("basePath"),
	}

	for i, rawAPI := range root.Array("apis") {
		api, ok := rawAPI.(*Object)
		if !ok {
			log.Warn().Int("api", i).Msg("api entry is not a mapping; skipped")
			continue
		}
		path := api.String("path")
		for j, rawOp := range api.Array("operations") {
			pointer := fmt.Sprintf("#/apis/%d/operations/%d", i, j)
			op, ok := rawOp.(*Object)
			if !ok {
				return nil, defectf(InvalidOperation, pointer, "spec: operation at %s is not a mapping", pointer)
			}
			operation, err := v1Operation(path, op, opts, pointer)
			if err != nil {
				return nil, err
			}
			vm.Methods = append(vm.Methods, operation)
		}
	}
	return vm, nil
}

func v1Operation(path string, op *Object, opts Options, pointer string) (*Operation, error) {
	method := op.String("method")
	nickname := op.String("nickname")
	if nickname == "" {
		return nil, defectf(MissingIdentifier, pointer, "spec: operation %s %s at %s has no nickname", method, path, pointer)
	}
	out := &Operation{
		Path:       path,
		ClassName:  opts.ClassName,
		MethodName: nickname,
		Method:     method,
		IsGET:      method == "GET",
		Summary:    op.String("summary"),
		Parameters: []*Parameter{},
		pointer:    pointer,
	}
	for k, entry := range op.Array("parameters") {
		ptr := fmt.Sprintf("%s/parameters/%d", pointer, k)
		obj, ok := entry.(*Object)
		if !ok {
			return nil, defectf(InvalidParameter, ptr, "spec: parameter at %s is not a mapping", ptr)
		}
		name := obj.String("name")
		if name == "" {
			return nil, defectf(MissingIdentifier, ptr, "spec: parameter at %s has no name", ptr)
		}
		p := newParameter(obj, name)
		switch obj.String("paramType") {
		case "body":
			p.In = LocationBody
		case "path":
			p.In = LocationPath
		case "query":
			p.In = LocationQuery
			p.IsPatternType = obj.Truthy("pattern")
		case "header":
			p.In = LocationHeader
		case "form":
			p.In = LocationFormData
		default:
			return nil, defectf(InvalidParameter, ptr, "spec: parameter %q at %s has unsupported paramType %q", name, ptr, obj.String("paramType"))
		}
		out.Parameters = append(out.Parameters, p)
	}
	return out, nil
}
