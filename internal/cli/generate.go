package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger-js-codegen/internal/emitter"
	"github.com/mark3labs/swagger-js-codegen/internal/spec"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input      string
	Target     string
	Out        string
	ClassName  string
	ModuleName string
	// Data is merged into the template data after DataFile.
	Data              map[string]any
	DataFile          string
	TemplateClass     string
	TemplateMethod    string
	TemplateRequest   string
	TemplateInterface string
	Duplicates        string
	Strict            bool
	DumpModel         bool
	ConfigPath        string
	DryRun            bool
	Force             bool
	Verbose           bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Target:     string(spec.TargetNode),
		Duplicates: string(spec.DuplicateError),
	}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an API client from a Swagger 1.2 or 2.0 document",
		Long: "Generate an API client from a Swagger 1.2 or 2.0 document. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  swagger-js-codegen generate --input swagger.yaml --class-name PetClient --out ./client
  swagger-js-codegen generate --input swagger.json --class-name Api --target typescript --dry-run
  swagger-js-codegen --config codegen.yaml generate --force`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.validateTemplates(); err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	addTransformFlags(flags)
	flags.String("out", "", "Output directory (derived from the class name when omitted)")
	flags.String("template-class", "", "Class template file (required for --target custom)")
	flags.String("template-method", "", "Method template file (required for --target custom)")
	flags.String("template-request", "", "Request template file (required for --target custom)")
	flags.String("template-interface", "", "Interface template file (typescript only)")
	flags.Bool("dump-model", false, "Also write the view model as model.json")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Overwrite existing output when set")

	return cmd
}

// addTransformFlags registers the flags shared by generate and inspect.
func addTransformFlags(flags *pflag.FlagSet) {
	flags.String("input", "", "Path or URL to the Swagger 1.2/2.0 document")
	flags.String("target", "", "Client flavour (node|angular|typescript|custom); defaults to node")
	flags.String("class-name", "", "Name of the generated client class")
	flags.String("module-name", "", "Module name (AngularJS module for --target angular)")
	flags.StringArray("data", nil, "Extra template data as key=value (repeatable)")
	flags.String("data-file", "", "YAML/JSON file with extra template data")
	flags.String("duplicates", "", "Duplicate method names: error|suffix; defaults to error")
	flags.Bool("strict", false, "Validate 2.0 documents with kin-openapi before generating")
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"input", &cfg.Input},
		{"target", &cfg.Target},
		{"out", &cfg.Out},
		{"class-name", &cfg.ClassName},
		{"module-name", &cfg.ModuleName},
		{"data-file", &cfg.DataFile},
		{"template-class", &cfg.TemplateClass},
		{"template-method", &cfg.TemplateMethod},
		{"template-request", &cfg.TemplateRequest},
		{"template-interface", &cfg.TemplateInterface},
		{"duplicates", &cfg.Duplicates},
	}
	for _, f := range strs {
		if !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(value)
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"strict", &cfg.Strict},
		{"dump-model", &cfg.DumpModel},
		{"dry-run", &cfg.DryRun},
		{"force", &cfg.Force},
		{"verbose", &cfg.Verbose},
	}
	for _, f := range bools {
		if !flags.Changed(f.name) {
			continue
		}
		value, err := flags.GetBool(f.name)
		if err != nil {
			return err
		}
		*f.dst = value
	}

	if flags.Changed("data") {
		pairs, err := flags.GetStringArray("data")
		if err != nil {
			return err
		}
		data, err := parseDataPairs(pairs)
		if err != nil {
			return usagef("generate: --data: %v", err)
		}
		if cfg.Data == nil {
			cfg.Data = map[string]any{}
		}
		for k, v := range data {
			cfg.Data[k] = v
		}
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Target = strings.ToLower(strings.TrimSpace(c.Target))
	c.Out = strings.TrimSpace(c.Out)
	c.ClassName = strings.TrimSpace(c.ClassName)
	c.ModuleName = strings.TrimSpace(c.ModuleName)
	c.DataFile = strings.TrimSpace(c.DataFile)
	c.Duplicates = strings.ToLower(strings.TrimSpace(c.Duplicates))
	if c.Out == "" {
		c.Out = deriveOutDir(c.ClassName)
	}
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}
	if c.ClassName == "" {
		return newUsageError("generate: --class-name is required (set via flag or config file)")
	}
	target, err := spec.ParseTarget(c.Target)
	if err != nil {
		return usagef("generate: %v", err)
	}
	c.Target = string(target)
	dup, err := spec.ParseDuplicatePolicy(c.Duplicates)
	if err != nil {
		return usagef("generate: %v", err)
	}
	c.Duplicates = string(dup)
	return nil
}

func (c *GenerateConfig) validateTemplates() error {
	if spec.Target(c.Target) != spec.TargetCustom {
		return nil
	}
	var missing []string
	for _, t := range []struct{ flag, path string }{
		{"--template-class", c.TemplateClass},
		{"--template-method", c.TemplateMethod},
		{"--template-request", c.TemplateRequest},
	} {
		if t.path == "" {
			missing = append(missing, t.flag)
		}
	}
	if len(missing) > 0 {
		return usagef("generate: --target custom requires %s", strings.Join(missing, ", "))
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	log := zerolog.Ctx(ctx)

	vm, err := buildViewModel(ctx, cfg)
	if err != nil {
		return err
	}
	templates, err := readTemplates(cfg)
	if err != nil {
		return err
	}

	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil {
		absOut = ap
	}

	res, err := emitter.Emit(ctx, vm, emitter.Options{
		OutDir:    cfg.Out,
		Target:    spec.Target(cfg.Target),
		Templates: templates,
		DumpModel: cfg.DumpModel,
		Force:     cfg.Force,
		DryRun:    cfg.DryRun,
	})
	if err != nil {
		return wrapOutputError(err, absOut)
	}

	paths := make([]string, 0, len(res.Planned))
	for _, p := range res.Planned {
		paths = append(paths, p.RelPath)
	}
	if cfg.DryRun {
		printPlan(absOut, len(res.Planned), paths)
		return nil
	}
	log.Info().Str("out", absOut).Strs("files", paths).Msg("client generated")
	return nil
}

// buildViewModel loads cfg.Input and runs the transformation.
func buildViewModel(ctx context.Context, cfg *GenerateConfig) (*spec.ViewModel, error) {
	doc, err := spec.Load(ctx, cfg.Input, spec.WithStrict(cfg.Strict))
	if err != nil {
		return nil, describeSpecError(err)
	}
	extra, err := templateExtra(cfg)
	if err != nil {
		return nil, err
	}
	vm, err := spec.BuildViewModel(ctx, doc, spec.Options{
		Target:     spec.Target(cfg.Target),
		ClassName:  cfg.ClassName,
		ModuleName: cfg.ModuleName,
		Extra:      extra,
		Duplicates: spec.DuplicatePolicy(cfg.Duplicates),
	})
	if err != nil {
		return nil, describeSpecError(err)
	}
	return vm, nil
}

// describeSpecError maps structured spec errors into friendly messages.
func describeSpecError(err error) error {
	var se *spec.SpecError
	if !errors.As(err, &se) {
		return err
	}
	msg := se.Message
	if !strings.HasPrefix(msg, "spec:") {
		msg = "spec: " + msg
	}
	if se.Location != "" {
		msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
	}
	if se.JSONPointer != "" {
		msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
	}
	return wrapUsage(err, msg)
}

func templateExtra(cfg *GenerateConfig) (map[string]any, error) {
	extra := map[string]any{}
	if cfg.DataFile != "" {
		data, err := os.ReadFile(cfg.DataFile)
		if err != nil {
			return nil, usagef("read data file %q: %v", cfg.DataFile, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, usagef("parse data file %q: %v", cfg.DataFile, err)
		}
		for k, v := range raw {
			extra[k] = v
		}
	}
	for k, v := range cfg.Data {
		extra[k] = v
	}
	if len(extra) == 0 {
		return nil, nil
	}
	return extra, nil
}

func readTemplates(cfg *GenerateConfig) (emitter.Templates, error) {
	var out emitter.Templates
	for _, t := range []struct {
		path string
		dst  *string
	}{
		{cfg.TemplateClass, &out.Class},
		{cfg.TemplateMethod, &out.Method},
		{cfg.TemplateRequest, &out.Request},
		{cfg.TemplateInterface, &out.Interface},
	} {
		if t.path == "" {
			continue
		}
		data, err := os.ReadFile(t.path)
		if err != nil {
			return out, usagef("read template %q: %v", t.path, err)
		}
		*t.dst = string(data)
	}
	return out, nil
}

func printPlan(outDir string, count int, relPaths []string) {
	fmt.Fprintf(os.Stdout, "Planned writes to %s (%d files):\n", outDir, count)
	for _, p := range relPaths {
		fmt.Fprintf(os.Stdout, "- %s\n", p)
	}
}

func wrapOutputError(err error, outDir string) error {
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "output directory") {
		return usagef("output error for %s: %s\nHint: choose a different --out or use --force when appropriate.", outDir, msg)
	}
	return err
}

// deriveOutDir turns a class name into a lowercase directory name.
func deriveOutDir(className string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(className) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if out := strings.Trim(b.String(), "-_"); out != "" {
		return out
	}
	return "client"
}

func parseDataPairs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		out[key] = value
	}
	return out, nil
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return usagef("read config file %q: %v", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return usagef("parse config file %q: %v", path, err)
	}

	strs := map[string]*string{
		"input":             &cfg.Input,
		"target":            &cfg.Target,
		"out":               &cfg.Out,
		"classname":         &cfg.ClassName,
		"modulename":        &cfg.ModuleName,
		"datafile":          &cfg.DataFile,
		"templateclass":     &cfg.TemplateClass,
		"templatemethod":    &cfg.TemplateMethod,
		"templaterequest":   &cfg.TemplateRequest,
		"templateinterface": &cfg.TemplateInterface,
		"duplicates":        &cfg.Duplicates,
	}
	bools := map[string]*bool{
		"strict":    &cfg.Strict,
		"dumpmodel": &cfg.DumpModel,
		"dryrun":    &cfg.DryRun,
		"force":     &cfg.Force,
		"verbose":   &cfg.Verbose,
	}

	for key, value := range raw {
		normalized := normalizeKey(key)
		if dst, ok := strs[normalized]; ok {
			str, err := valueAsString(value)
			if err != nil {
				return usagef("config field %q: %v", key, err)
			}
			*dst = str
			continue
		}
		if dst, ok := bools[normalized]; ok {
			val, err := valueAsBool(value)
			if err != nil {
				return usagef("config field %q: %v", key, err)
			}
			*dst = val
			continue
		}
		if normalized == "data" {
			val, err := valueAsData(value)
			if err != nil {
				return usagef("config field %q: %v", key, err)
			}
			cfg.Data = val
			continue
		}
		return usagef("config file %q: unknown field %q", path, key)
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

// valueAsData accepts a mapping or a list of key=value entries.
func valueAsData(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, nil
	}
	list, err := valueAsStringSlice(v)
	if err != nil {
		return nil, fmt.Errorf("expected mapping or key=value list, got %T", v)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return parseDataPairs(list)
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
