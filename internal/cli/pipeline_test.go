package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalSpecYAML = "" +
	"openapi: 3.0.0\n" +
	"info:\n" +
	"  title: Test API\n" +
	"  version: '1.0.0'\n" +
	"servers:\n" +
	"  - url: http://localhost:8181/api\n" +
	"paths:\n" +
	"  /hello:\n" +
	"    get:\n" +
	"      summary: Hello\n" +
	"      tags: [greet]\n" +
	"      responses:\n" +
	"        '200':\n" +
	"          description: ok\n" +
	"        '404':\n" +
	"          description: missing\n"

func writeSpec(t *testing.T, dir string) string {
	t.Helper()
	specPath := filepath.Join(dir, "spec.yaml")
	if err := os.WriteFile(specPath, []byte(minimalSpecYAML), 0o600); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return specPath
}

func TestGeneratePipeline_DryRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	specPath := writeSpec(t, dir)
	outDir := filepath.Join(dir, "out")

	var stdout bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", specPath, "--out", outDir, "--dry-run"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "Planned writes to") {
		t.Fatalf("expected dry-run plan output, got: %s", out)
	}
	for _, want := range []string{"groups/GreetApi.json", "manifest.json", "impl/GreetApiServiceImpl.java", "factories/GreetApiServiceFactory.java"} {
		if !strings.Contains(out, want) {
			t.Fatalf("plan missing %s:\n%s", want, out)
		}
	}
	// Dry-run should not create the directory
	if _, err := os.Stat(outDir); err == nil {
		t.Fatalf("expected no writes on dry-run")
	}
}

func TestGeneratePipeline_Writes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	specPath := writeSpec(t, dir)
	outDir := filepath.Join(dir, "bundle")

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", specPath, "--out", outDir, "--flavor", "spec", "--format", "json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m struct {
		Flavor     string `json:"flavor"`
		Properties struct {
			ServerPort string `json:"serverPort"`
			BasePath   string `json:"basePath"`
		} `json:"properties"`
		Outputs []struct {
			Path string `json:"path"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest invalid: %v", err)
	}
	if m.Flavor != "spec" || len(m.Outputs) != 2 {
		t.Fatalf("manifest flavor/outputs: %+v", m)
	}
	if m.Properties.ServerPort != "8181" || m.Properties.BasePath != "/api" {
		t.Fatalf("derived properties: %+v", m.Properties)
	}
}

func TestGeneratePipeline_ServerPortOverride(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	specPath := writeSpec(t, dir)
	outDir := filepath.Join(dir, "bundle")

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", specPath, "--out", outDir, "--server-port", "1234", "--format", "yaml"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "manifest.yaml"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !strings.Contains(string(data), `serverPort: "1234"`) {
		t.Fatalf("override not applied:\n%s", data)
	}
}

func TestGeneratePipeline_MissingSpecIsUsageError(t *testing.T) {
	t.Parallel()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", filepath.Join(t.TempDir(), "nope.yaml"), "--dry-run"})
	err := root.Execute()
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "spec:") {
		t.Fatalf("expected spec error message, got %v", err)
	}
}
