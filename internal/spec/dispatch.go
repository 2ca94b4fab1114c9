package spec

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

// BuildViewModel converts a decoded document into the view model consumed
// by the emitter. Documents whose "swagger" field is the string "2.0" go
// through the 2.0 adapter; everything else is read as Swagger 1.2.
//
// The logger in ctx (zerolog.Ctx) receives trace output for this call only.
func BuildViewModel(ctx context.Context, doc *Document, opts Options) (*ViewModel, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("nil document")
	}
	log := zerolog.Ctx(ctx)

	var (
		vm  *ViewModel
		err error
	)
	if v, _ := doc.Root.Get("swagger"); v == "2.0" {
		log.Debug().Msg("building view model with the 2.0 adapter")
		vm, err = buildV2(log, doc.Root, opts)
	} else {
		log.Debug().Msg("building view model with the 1.2 adapter")
		vm, err = buildV1(log, doc.Root, opts)
	}
	if err == nil {
		err = resolveDuplicates(log, vm.Methods, opts.Duplicates)
	}
	if err != nil {
		var se *SpecError
		if errors.As(err, &se) && se.Location == "" {
			se.Location = doc.Location
		}
		return nil, err
	}

	if len(opts.Extra) > 0 {
		vm.Extra = make(map[string]any, len(opts.Extra))
		for k, v := range opts.Extra {
			vm.Extra[k] = v
		}
	}
	log.Debug().
		Str("version", string(vm.Version)).
		Int("methods", len(vm.Methods)).
		Int("dataTypes", len(vm.DataTypes)).
		Msg("view model built")
	return vm, nil
}

func resolveDuplicates(log *zerolog.Logger, ops []*Operation, policy DuplicatePolicy) error {
	seen := make(map[string]*Operation, len(ops))
	for _, op := range ops {
		first, clash := seen[op.MethodName]
		if !clash {
			seen[op.MethodName] = op
			continue
		}
		if policy != DuplicateSuffix {
			return defectf(DuplicateMethodName, op.pointer,
				"spec: method name %q is used by both %s %s and %s %s",
				op.MethodName, first.Method, first.Path, op.Method, op.Path)
		}
		n := 2
		for {
			if _, taken := seen[op.MethodName+strconv.Itoa(n)]; !taken {
				break
			}
			n++
		}
		renamed := op.MethodName + strconv.Itoa(n)
		log.Warn().
			Str("method", op.Method).
			Str("path", op.Path).
			Str("from", op.MethodName).
			Str("to", renamed).
			Msg("renamed duplicate method")
		op.MethodName = renamed
		seen[renamed] = op
	}
	return nil
}
