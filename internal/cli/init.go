package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
	Stdout     io.Writer
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample swagger2jaxrs configuration file",
		Long:  "Scaffold a commented swagger2jaxrs configuration file that documents available options. A .toml target gets TOML syntax, anything else YAML.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
				Stdout:     cmd.OutOrStdout(),
			}
			return initRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("out", "swagger2jaxrs.yaml", "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	_ = ctx

	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = "swagger2jaxrs.yaml"
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot create parent directory: %v", err))
	}

	sample := sampleConfigYAML
	if strings.EqualFold(filepath.Ext(absPath), ".toml") {
		sample = sampleConfigTOML
	}
	content := strings.TrimSpace(sample) + "\n"

	// Atomic write via temp + rename
	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("init: cannot place file at %s: %v", absPath, err))
	}
	w := cfg.Stdout
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# swagger2jaxrs configuration (YAML)
# All fields are optional. Environment variables (SWAGGER2JAXRS_<FIELD>, e.g.
# SWAGGER2JAXRS_SERVER_PORT) override this file; command-line flags override both.

# Path or URL to the Swagger/OpenAPI document (http/https or local file).
# input: ./petstore.yaml

# Bundle output directory. When omitted, derived from the spec title.
# out: ./bundle

# Manifest format (json|yaml).
# format: json

# JAX-RS flavor (jersey|spec).
# flavor: jersey

# Root the planned renderer paths are relative to.
# outputFolder: .

# Folders for API interfaces and for implementations/factories.
# sourceFolder: src/gen/java
# implFolder: src/main/java

# Java packages.
# apiPackage: io.swagger.api
# modelPackage: io.swagger.model
# invokerPackage: io.swagger.api

# artifactId: swagger-jaxrs-server
# title: Swagger Server

# Server port. When omitted, taken from the spec host or 8080.
# serverPort: 8080

# useBeanValidation: true
# useAnnotatedBasePath: false

# Only include / exclude operations with these tags (comma-separated or list).
# includeTags: [pet, store]
# excludeTags: [internal]

# Tag groups postprocessed in parallel (0 = number of CPUs).
# workers: 0

# Preview planned outputs without writing files.
# dryRun: false

# Overwrite non-empty output directory.
# force: false

# Enable verbose logging.
# verbose: false
`

// sampleConfigTOML mirrors sampleConfigYAML in TOML syntax.
const sampleConfigTOML = `# swagger2jaxrs configuration (TOML)
# All fields are optional. Environment variables (SWAGGER2JAXRS_<FIELD>) override
# this file; command-line flags override both.

# input = "./petstore.yaml"
# out = "./bundle"
# format = "json"
# flavor = "jersey"
# outputFolder = "."
# sourceFolder = "src/gen/java"
# implFolder = "src/main/java"
# apiPackage = "io.swagger.api"
# modelPackage = "io.swagger.model"
# invokerPackage = "io.swagger.api"
# artifactId = "swagger-jaxrs-server"
# title = "Swagger Server"
# serverPort = 8080
# useBeanValidation = true
# useAnnotatedBasePath = false
# includeTags = ["pet", "store"]
# excludeTags = ["internal"]
# workers = 0
# dryRun = false
# force = false
# verbose = false
`
