package spec

import (
	"fmt"
	"strings"
)

// Target selects the template family the view model is built for.
type Target string

const (
	TargetNode       Target = "node"
	TargetAngular    Target = "angular"
	TargetTypeScript Target = "typescript"
	TargetCustom     Target = "custom"
)

// IsNode reports whether proxy-injected headers must stay in the signature.
func (t Target) IsNode() bool { return t == TargetNode }

// ParseTarget accepts the target names used on the command line.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "node":
		return TargetNode, nil
	case "angular":
		return TargetAngular, nil
	case "typescript", "ts", "angularts":
		return TargetTypeScript, nil
	case "custom":
		return TargetCustom, nil
	default:
		return "", fmt.Errorf("unsupported target %q (allowed: node, angular, typescript, custom)", s)
	}
}

// DuplicatePolicy decides what happens when two operations derive the same
// method name.
type DuplicatePolicy string

const (
	DuplicateError  DuplicatePolicy = "error"
	DuplicateSuffix DuplicatePolicy = "suffix"
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return DuplicateError, nil
	case "suffix":
		return DuplicateSuffix, nil
	default:
		return "", fmt.Errorf("unsupported duplicate policy %q (allowed: error, suffix)", s)
	}
}

// Options configures a single transformation.
type Options struct {
	Target     Target
	ClassName  string
	ModuleName string
	// Extra is merged verbatim into the template data.
	Extra      map[string]any
	Duplicates DuplicatePolicy
}
