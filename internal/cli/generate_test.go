package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateConfigFromFlags(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })

	root.SetArgs([]string{
		"--verbose",
		"generate",
		"--input", "swagger.yaml",
		"--target", "ts",
		"--out", "./build",
		"--class-name", "PetClient",
		"--module-name", "pets",
		"--data", "license=MIT",
		"--data", "banner=a=b",
		"--duplicates", "suffix",
		"--strict",
		"--dump-model",
		"--dry-run",
		"--force",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if captured == nil {
		t.Fatalf("expected config to be captured")
	}

	if captured.Input != "swagger.yaml" {
		t.Errorf("input mismatch: got %q", captured.Input)
	}
	if captured.Target != "typescript" {
		t.Errorf("target mismatch: got %q", captured.Target)
	}
	if captured.Out != "./build" {
		t.Errorf("out mismatch: got %q", captured.Out)
	}
	if captured.ClassName != "PetClient" || captured.ModuleName != "pets" {
		t.Errorf("names mismatch: got %q/%q", captured.ClassName, captured.ModuleName)
	}
	if captured.Data["license"] != "MIT" || captured.Data["banner"] != "a=b" {
		t.Errorf("data mismatch: got %v", captured.Data)
	}
	if captured.Duplicates != "suffix" {
		t.Errorf("duplicates mismatch: got %q", captured.Duplicates)
	}
	if !captured.Strict || !captured.DumpModel {
		t.Errorf("expected strict and dump-model true")
	}
	if !captured.DryRun {
		t.Errorf("expected dry-run true")
	}
	if !captured.Force {
		t.Errorf("expected force true")
	}
	if !captured.Verbose {
		t.Errorf("expected verbose true")
	}
}

func TestGenerateConfigPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := strings.TrimSpace(`input: config-spec.yaml
target: angular
out: from-config
className: CfgClient
module_name: cfgmod
data:
  license: Apache-2.0
duplicates: suffix
dryRun: true
force: false
verbose: true
`) + "\n"

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })

	root.SetArgs([]string{
		"--config", configPath,
		"generate",
		"--input", "flag-spec.yaml",
		"--data", "owner=flags",
		"--dry-run=false",
		"--force",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if captured == nil {
		t.Fatalf("expected config to be captured")
	}

	if captured.Input != "flag-spec.yaml" {
		t.Errorf("input: want %q got %q", "flag-spec.yaml", captured.Input)
	}
	if captured.Target != "angular" {
		t.Errorf("target: want angular got %q", captured.Target)
	}
	if captured.Out != "from-config" {
		t.Errorf("out: want from-config got %q", captured.Out)
	}
	if captured.ClassName != "CfgClient" || captured.ModuleName != "cfgmod" {
		t.Errorf("names mismatch: got %q/%q", captured.ClassName, captured.ModuleName)
	}
	if captured.Data["license"] != "Apache-2.0" || captured.Data["owner"] != "flags" {
		t.Errorf("data should merge config and flags: got %v", captured.Data)
	}
	if captured.Duplicates != "suffix" {
		t.Errorf("duplicates: want suffix got %q", captured.Duplicates)
	}
	if captured.DryRun {
		t.Errorf("expected dry-run false after flag override")
	}
	if !captured.Force {
		t.Errorf("expected force true after flag override")
	}
	if !captured.Verbose {
		t.Errorf("expected verbose true from config file")
	}
	if captured.ConfigPath != configPath {
		t.Errorf("config path mismatch: got %q", captured.ConfigPath)
	}
}

func TestGenerateConfigDefaults(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	var captured *GenerateConfig
	generateRunner = func(ctx context.Context, cfg *GenerateConfig) error {
		captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })

	root.SetArgs([]string{"generate", "--input", "swagger.yaml", "--class-name", "Pet Client"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if captured.Target != "node" {
		t.Errorf("target: want node got %q", captured.Target)
	}
	if captured.Duplicates != "error" {
		t.Errorf("duplicates: want error got %q", captured.Duplicates)
	}
	if captured.Out != "petclient" {
		t.Errorf("out: want petclient got %q", captured.Out)
	}
}

func TestGenerateConfigValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"missing input", []string{"generate", "--class-name", "C"}, "--input is required"},
		{"missing class", []string{"generate", "--input", "s.yaml"}, "--class-name is required"},
		{"bad target", []string{"generate", "--input", "s.yaml", "--class-name", "C", "--target", "java"}, "unsupported target"},
		{"bad duplicates", []string{"generate", "--input", "s.yaml", "--class-name", "C", "--duplicates", "merge"}, "unsupported duplicate policy"},
		{"bad data", []string{"generate", "--input", "s.yaml", "--class-name", "C", "--data", "novalue"}, "expected key=value"},
		{"custom without templates", []string{"generate", "--input", "s.yaml", "--class-name", "C", "--target", "custom", "--template-class", "c.tmpl"}, "--template-method, --template-request"},
		{"bad log format", []string{"--log-format", "xml", "generate", "--input", "s.yaml", "--class-name", "C"}, "unsupported --log-format"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			root := NewRootCmd()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs(tc.args)
			err := root.Execute()
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("expected usage error, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestGenerateConfigUnknownKey(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(configPath, []byte("unknown: value\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	root.SetArgs([]string{
		"--config", configPath,
		"generate",
		"--input", "swagger.yaml",
		"--class-name", "C",
	})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestValueAsData(t *testing.T) {
	t.Parallel()

	got, err := valueAsData([]any{"a=1", "b = two"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got["a"] != "1" || got["b"] != " two" {
		t.Fatalf("list mismatch: %v", got)
	}
	got, err = valueAsData(map[string]any{"n": 3})
	if err != nil || got["n"] != 3 {
		t.Fatalf("mapping mismatch: %v %v", got, err)
	}
	if _, err := valueAsData(42); err == nil {
		t.Fatalf("expected error for scalar")
	}
}
