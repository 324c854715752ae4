// Package bundle writes the enriched JAX-RS model to disk for a template
// renderer: a manifest, one document per tag group and the normalized
// specification.
package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger2jaxrs/internal/jaxrs"
	"github.com/mark3labs/swagger2jaxrs/internal/spec"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options controls how the bundle is written.
type Options struct {
	OutDir string // required; target directory for the bundle
	Format string // manifest format: json (default) or yaml
	Force  bool   // overwrite a non-empty directory
	DryRun bool   // don't write, only plan
	Logger *slog.Logger
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files and the manifest location.
type Result struct {
	Manifest string
	Planned  []PlannedFile
}

type manifest struct {
	Flavor     string            `json:"flavor" yaml:"flavor"`
	Title      string            `json:"title,omitempty" yaml:"title,omitempty"`
	Version    string            `json:"version,omitempty" yaml:"version,omitempty"`
	Properties *jaxrs.Properties `json:"properties" yaml:"properties"`
	Groups     []manifestGroup   `json:"groups" yaml:"groups"`
	Outputs    []jaxrs.Output    `json:"outputs" yaml:"outputs"`
}

type manifestGroup struct {
	Tag        string   `json:"tag" yaml:"tag"`
	ClassName  string   `json:"classname" yaml:"classname"`
	File       string   `json:"file" yaml:"file"`
	Operations []string `json:"operations" yaml:"operations"`
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// groupDocument is what a renderer binds one API class template to.
type groupDocument struct {
	Tag        string            `json:"tag"`
	ClassName  string            `json:"classname"`
	Package    string            `json:"package"`
	BasePath   string            `json:"basePath"`
	Operations []*spec.Operation `json:"operations"`
}

// Emit renders the bundle for res. With DryRun set nothing touches the disk.
func Emit(ctx context.Context, res *jaxrs.Result, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res == nil || res.Spec == nil || res.Properties == nil {
		return nil, fmt.Errorf("bundle: incomplete pipeline result")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("bundle: OutDir is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("bundle: unsupported manifest format %q", opts.Format)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	files := map[string][]byte{}
	m := manifest{
		Flavor:     res.Flavor,
		Title:      res.Spec.Title,
		Version:    res.Spec.Version,
		Properties: res.Properties,
		Outputs:    res.Outputs,
	}
	for _, g := range res.Groups {
		rel := "groups/" + g.ClassName + ".json"
		ids := make([]string, 0, len(g.Operations))
		for _, op := range g.Operations {
			ids = append(ids, op.ID)
		}
		m.Groups = append(m.Groups, manifestGroup{
			Tag:        g.Tag,
			ClassName:  g.ClassName,
			File:       rel,
			Operations: ids,
			Extensions: extensionKeys(g.Operations),
		})

		data, err := marshalJSON(groupDocument{
			Tag:        g.Tag,
			ClassName:  g.ClassName,
			Package:    res.Properties.APIPackage,
			BasePath:   res.Spec.BasePath,
			Operations: g.Operations,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal group %s: %w", g.Tag, err)
		}
		files[rel] = data
	}

	specJSON, err := marshalJSON(res.Spec)
	if err != nil {
		return nil, fmt.Errorf("marshal spec.json: %w", err)
	}
	files["spec.json"] = specJSON

	manifestRel := "manifest." + format
	var manifestData []byte
	if format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("marshal manifest: %w", err)
		}
		_ = enc.Close()
		manifestData = buf.Bytes()
	} else {
		manifestData, err = marshalJSON(m)
		if err != nil {
			return nil, fmt.Errorf("marshal manifest: %w", err)
		}
	}
	files[manifestRel] = manifestData

	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, p)
	}
	sort.Strings(rels)

	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(ctx, opts.OutDir, rels, files, opts.Force); err != nil {
			return nil, err
		}
		logger.Info("bundle written", "dir", opts.OutDir, "files", len(rels))
	} else {
		logger.Debug("bundle planned", "dir", opts.OutDir, "files", len(rels))
	}

	return &Result{Manifest: manifestRel, Planned: planned}, nil
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func writeFiles(ctx context.Context, outDir string, rels []string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("bundle: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := filepath.Join(abs, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		// atomic write via temp file + rename
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, files[rel], 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}

// extensionKeys is the sorted set of extension keys populated anywhere in ops,
// their parameters or their responses.
func extensionKeys(ops []*spec.Operation) []string {
	seen := map[string]struct{}{}
	add := func(e spec.Extensions) {
		if e.IsZero() {
			return
		}
		for _, k := range e.Keys() {
			seen[k] = struct{}{}
		}
	}
	for _, op := range ops {
		if op == nil {
			continue
		}
		add(op.Extensions)
		for _, p := range op.Parameters {
			if p != nil {
				add(p.Extensions)
			}
		}
		for _, r := range op.Responses {
			if r != nil {
				add(r.Extensions)
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
