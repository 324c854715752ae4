package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/swagger2jaxrs/internal/emitter/bundle"
	"github.com/mark3labs/swagger2jaxrs/internal/jaxrs"
	genspec "github.com/mark3labs/swagger2jaxrs/internal/spec"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, environment and CLI overrides.
type GenerateConfig struct {
	Input       string
	Out         string
	Format      string
	IncludeTags []string
	ExcludeTags []string
	JAXRS       jaxrs.Config
	ConfigPath  string
	DryRun      bool
	Force       bool
	Verbose     bool

	Stdout io.Writer
	Stderr io.Writer
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Format: bundle.FormatJSON, JAXRS: jaxrs.DefaultConfig()}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Normalize an OpenAPI/Swagger document for JAX-RS server templates",
		Long: "Normalize an OpenAPI/Swagger document for JAX-RS server templates and write the " +
			"enriched model bundle. Options can be provided via flags, environment, config files, or defaults.",
		Example: strings.TrimSpace(`  swagger2jaxrs generate --input petstore.yaml --out ./bundle
  swagger2jaxrs generate --input petstore.yaml --flavor spec --server-port 9090 --dry-run
  swagger2jaxrs --config swagger2jaxrs.yaml generate --force`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd, nil)
			if err != nil {
				return err
			}
			cfg.Stdout = cmd.OutOrStdout()
			cfg.Stderr = cmd.ErrOrStderr()
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("out", "", "Bundle output directory (derived from the spec title when omitted)")
	flags.String("format", "", "Manifest format (json|yaml); defaults to json")
	flags.String("flavor", "", "JAX-RS flavor ("+strings.Join(jaxrs.FlavorNames(), "|")+"); defaults to jersey")
	flags.String("impl-folder", "", "Folder for implementation and factory classes")
	flags.String("source-folder", "", "Folder for generated API interfaces")
	flags.String("api-package", "", "Java package of the API classes")
	flags.String("model-package", "", "Java package of the model classes")
	flags.String("invoker-package", "", "Java package of the invoker classes")
	flags.String("artifact-id", "", "Maven artifact id")
	flags.String("title", "", "A title describing the application")
	flags.String("server-port", "", "Port the server listens on (derived from the spec host when omitted)")
	flags.Bool("use-bean-validation", true, "Use BeanValidation API annotations")
	flags.Bool("use-annotated-base-path", false, "Use @Path annotations for basePath")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.Int("workers", 0, "Tag groups postprocessed in parallel (0 = GOMAXPROCS)")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Overwrite existing output when set")

	return cmd
}

// resolveGenerateConfig merges defaults, config file, environment and changed
// flags, in that order. A nil environ reads the process environment.
func resolveGenerateConfig(cmd *cobra.Command, environ map[string]string) (*GenerateConfig, error) {
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

	if err := applyEnvOverrides(&cfg, environ); err != nil {
		return nil, err
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
	j := &cfg.JAXRS
	strFlags := map[string]*string{
		"input":           &cfg.Input,
		"out":             &cfg.Out,
		"format":          &cfg.Format,
		"flavor":          &j.Flavor,
		"impl-folder":     &j.ImplFolder,
		"source-folder":   &j.SourceFolder,
		"api-package":     &j.APIPackage,
		"model-package":   &j.ModelPackage,
		"invoker-package": &j.InvokerPackage,
		"artifact-id":     &j.ArtifactID,
		"title":           &j.Title,
		"server-port":     &j.ServerPort,
	}
	for name, dst := range strFlags {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}

	boolFlags := map[string]*bool{
		"use-bean-validation":     &j.UseBeanValidation,
		"use-annotated-base-path": &j.UseAnnotatedBasePath,
		"dry-run":                 &cfg.DryRun,
		"force":                   &cfg.Force,
		"verbose":                 &cfg.Verbose,
	}
	for name, dst := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	if flags.Changed("include-tags") {
		value, err := flags.GetStringSlice("include-tags")
		if err != nil {
			return err
		}
		cfg.IncludeTags = sanitizeTags(value)
	}
	if flags.Changed("exclude-tags") {
		value, err := flags.GetStringSlice("exclude-tags")
		if err != nil {
			return err
		}
		cfg.ExcludeTags = sanitizeTags(value)
	}
	if flags.Changed("workers") {
		value, err := flags.GetInt("workers")
		if err != nil {
			return err
		}
		j.Workers = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.JAXRS.Flavor = strings.ToLower(strings.TrimSpace(c.JAXRS.Flavor))
	c.IncludeTags = sanitizeTags(c.IncludeTags)
	c.ExcludeTags = sanitizeTags(c.ExcludeTags)
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag, environment or config file)")
	}

	if c.JAXRS.Flavor == "" {
		c.JAXRS.Flavor = jaxrs.FlavorJersey
	}
	if _, err := jaxrs.LookupFlavor(c.JAXRS.Flavor); err != nil {
		return wrapUsageError(fmt.Sprintf("generate: %v", err), err)
	}

	switch c.Format {
	case "", bundle.FormatJSON, bundle.FormatYAML:
		if c.Format == "" {
			c.Format = bundle.FormatJSON
		}
	default:
		return newUsageError(fmt.Sprintf("generate: unsupported --format %q (allowed: json, yaml)", c.Format))
	}

	if c.JAXRS.Workers < 0 {
		return newUsageError(fmt.Sprintf("generate: --workers must be >= 0, got %d", c.JAXRS.Workers))
	}

	overlap := intersect(c.IncludeTags, c.ExcludeTags)
	if len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}

	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := newLogger(stderr, cfg.Verbose)

	// 1) Load the spec (file or http/https URL) with validation and conversion
	doc, err := genspec.Load(ctx, cfg.Input, genspec.WithLogger(logger))
	if err != nil {
		// Map structured spec errors into friendly messages
		var se *genspec.SpecError
		if errors.As(err, &se) {
			msg := fmt.Sprintf("spec: %s", se.Message)
			if se.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
			}
			if se.JSONPointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
			}
			return wrapUsageError(msg, err)
		}
		return err
	}

	// 2) Build the internal model with tag filters
	s, err := genspec.Build(
		ctx,
		doc,
		genspec.WithIncludeTags(cfg.IncludeTags),
		genspec.WithExcludeTags(cfg.ExcludeTags),
	)
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}
	logger.Debug("model built", "title", s.Title, "operations", len(s.Operations()))

	// 3) Run the JAX-RS pass
	p, err := jaxrs.New(cfg.JAXRS, jaxrs.WithLogger(logger))
	if err != nil {
		return wrapUsageError(fmt.Sprintf("generate: %v", err), err)
	}
	res, err := p.Run(ctx, s)
	if err != nil {
		if errors.Is(err, jaxrs.ErrPathCollision) {
			return wrapUsageError(fmt.Sprintf("generate: %v\nHint: rename one of the tags or narrow --include-tags.", err), err)
		}
		return fmt.Errorf("jaxrs pass: %w", err)
	}

	// 4) Derive the bundle directory when omitted
	outDir := cfg.Out
	if outDir == "" {
		outDir = deriveProjectName(s.Title)
		if outDir == "" {
			outDir = p.Config().ArtifactID
		}
	}
	absOut := outDir
	if ap, err := filepath.Abs(outDir); err == nil {
		absOut = ap
	}

	// 5) Emit the bundle
	br, err := bundle.Emit(ctx, res, bundle.Options{
		OutDir: outDir,
		Format: cfg.Format,
		Force:  cfg.Force,
		DryRun: cfg.DryRun,
		Logger: logger,
	})
	if err != nil {
		return wrapOutputError(err, absOut)
	}
	if cfg.DryRun {
		paths := make([]string, 0, len(br.Planned))
		for _, pf := range br.Planned {
			paths = append(paths, pf.RelPath)
		}
		printPlan(stdout, absOut, paths, res.Outputs)
	}

	return nil
}

func printPlan(w io.Writer, outDir string, relPaths []string, outputs []jaxrs.Output) {
	fmt.Fprintf(w, "Planned writes to %s (%d files):\n", outDir, len(relPaths))
	for _, p := range relPaths {
		fmt.Fprintf(w, "- %s\n", p)
	}
	fmt.Fprintf(w, "Renderer outputs (%d):\n", len(outputs))
	for _, o := range outputs {
		fmt.Fprintf(w, "- %s [%s] -> %s\n", o.ClassName, o.Template, o.Path)
	}
}

func wrapOutputError(err error, outDir string) error {
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "output directory") {
		return wrapUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --out or use --force when appropriate.", outDir, msg), err)
	}
	return err
}

// deriveProjectName turns a spec title into a directory name such as
// "petstore-api".
func deriveProjectName(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return ""
	}
	t = strings.ToLower(t)
	repl := strings.NewReplacer("/", " ", "_", " ", ".", " ", ",", " ", ":", " ")
	t = repl.Replace(t)
	parts := strings.Fields(t)
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "-")
}

func sanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}
