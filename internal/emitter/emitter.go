package emitter

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/mark3labs/swagger-js-codegen/internal/spec"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// Templates holds caller-supplied template sources. Empty fields fall back
// to the built-in template of the selected target; the custom target has no
// built-ins and needs Class, Method and Request.
type Templates struct {
	Class     string
	Method    string
	Request   string
	Interface string // typescript only
}

// Options controls how a view model is rendered.
type Options struct {
	OutDir    string // required unless DryRun
	Target    spec.Target
	Templates Templates
	DumpModel bool // also write model.json
	Force     bool // overwrite a non-empty OutDir
	DryRun    bool // plan only
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result lists the planned files in path order.
type Result struct {
	Planned []PlannedFile
	// Files maps each planned path to its rendered content.
	Files map[string][]byte
}

// Emit renders the client for vm and writes it to opts.OutDir.
func Emit(ctx context.Context, vm *spec.ViewModel, opts Options) (*Result, error) {
	log := zerolog.Ctx(ctx)
	if vm == nil {
		return nil, fmt.Errorf("emitter: nil view model")
	}
	if strings.TrimSpace(opts.OutDir) == "" && !opts.DryRun {
		return nil, fmt.Errorf("emitter: OutDir is required")
	}
	target := opts.Target
	if target == "" {
		target = spec.TargetNode
	}

	class, err := classTemplate(target, opts.Templates)
	if err != nil {
		return nil, err
	}

	files := map[string][]byte{}
	ext := ".js"
	if target == spec.TargetTypeScript {
		ext = ".ts"
	}
	var buf bytes.Buffer
	if err := class.Execute(&buf, vm.TemplateData()); err != nil {
		return nil, fmt.Errorf("emitter: render %s: %w", vm.ClassName, err)
	}
	files[vm.ClassName+ext] = buf.Bytes()

	if target == spec.TargetTypeScript {
		iface, err := interfaceTemplate(opts.Templates)
		if err != nil {
			return nil, err
		}
		for _, dt := range vm.DataTypes {
			name := dt.Name + ".ts"
			if _, clash := files[name]; clash {
				return nil, fmt.Errorf("emitter: data type %q collides with the generated class file", dt.Name)
			}
			var b bytes.Buffer
			if err := iface.Execute(&b, dt); err != nil {
				return nil, fmt.Errorf("emitter: render interface %s: %w", dt.Name, err)
			}
			files[name] = b.Bytes()
		}
	}

	if opts.DumpModel {
		modelJSON, err := json.MarshalIndent(vm, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal model.json: %w", err)
		}
		files["model.json"] = append(modelJSON, '\n')
	}

	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, filepath.ToSlash(p))
	}
	sort.Strings(rels)

	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
	}
	log.Debug().Str("target", string(target)).Int("files", len(planned)).Msg("client rendered")

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}
	return &Result{Planned: planned, Files: files}, nil
}

// classTemplate assembles the class template with its "method", "request"
// and "bind" associates.
func classTemplate(target spec.Target, custom Templates) (*template.Template, error) {
	if target == spec.TargetCustom {
		if custom.Class == "" || custom.Method == "" || custom.Request == "" {
			return nil, fmt.Errorf("emitter: custom target needs class, method and request templates")
		}
	}
	prefix := string(target)

	classSrc, err := pick(custom.Class, prefix+"-class.tmpl")
	if err != nil {
		return nil, err
	}
	methodSrc := custom.Method
	if methodSrc == "" {
		// Targets without their own method template share the prototype one.
		if methodSrc, err = pick("", prefix+"-method.tmpl"); err != nil {
			if methodSrc, err = pick("", "method.tmpl"); err != nil {
				return nil, err
			}
		}
	}
	requestSrc, err := pick(custom.Request, prefix+"-request.tmpl")
	if err != nil {
		return nil, err
	}
	bindSrc, err := pick("", "bind.tmpl")
	if err != nil {
		return nil, err
	}

	t, err := template.New("class").Funcs(funcMap).Parse(classSrc)
	if err != nil {
		return nil, fmt.Errorf("emitter: parse class template: %w", err)
	}
	// Associates share t's namespace; t itself keeps the class tree.
	for _, part := range []struct{ name, src string }{
		{"method", methodSrc},
		{"request", requestSrc},
		{"bind", bindSrc},
	} {
		if _, err := t.New(part.name).Parse(part.src); err != nil {
			return nil, fmt.Errorf("emitter: parse %s template: %w", part.name, err)
		}
	}
	return t, nil
}

func interfaceTemplate(custom Templates) (*template.Template, error) {
	src, err := pick(custom.Interface, "typescript-interface.tmpl")
	if err != nil {
		return nil, err
	}
	t, err := template.New("interface").Funcs(funcMap).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("emitter: parse interface template: %w", err)
	}
	return t, nil
}

// pick returns override when set, otherwise the named built-in template.
func pick(override, name string) (string, error) {
	if override != "" {
		return override, nil
	}
	data, err := builtin.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("emitter: no built-in template %s", name)
	}
	return string(data), nil
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("emitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}
