package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	env "github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces the environment overrides, e.g. SWAGGER2JAXRS_INPUT.
const EnvPrefix = "SWAGGER2JAXRS_"

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		// YAML is a superset of JSON, so .json files go through the same decoder.
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return wrapUsageError(fmt.Sprintf("parse config file %q: %v", path, err), err)
	}

	for key, value := range raw {
		if err := applyConfigField(cfg, normalizeKey(key), value); err != nil {
			if err == errUnknownField {
				return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
			}
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}

	return nil
}

var errUnknownField = fmt.Errorf("unknown field")

func applyConfigField(cfg *GenerateConfig, key string, value any) error {
	j := &cfg.JAXRS
	strField := map[string]*string{
		"input":          &cfg.Input,
		"out":            &cfg.Out,
		"format":         &cfg.Format,
		"flavor":         &j.Flavor,
		"outputfolder":   &j.OutputFolder,
		"sourcefolder":   &j.SourceFolder,
		"implfolder":     &j.ImplFolder,
		"apipackage":     &j.APIPackage,
		"modelpackage":   &j.ModelPackage,
		"invokerpackage": &j.InvokerPackage,
		"artifactid":     &j.ArtifactID,
		"title":          &j.Title,
		"serverport":     &j.ServerPort,
	}
	boolField := map[string]*bool{
		"usebeanvalidation":    &j.UseBeanValidation,
		"useannotatedbasepath": &j.UseAnnotatedBasePath,
		"dryrun":               &cfg.DryRun,
		"force":                &cfg.Force,
		"verbose":              &cfg.Verbose,
	}

	if dst, ok := strField[key]; ok {
		// Ports are commonly written as bare numbers.
		if key == "serverport" {
			if n, isInt := asInt(value); isInt {
				*dst = fmt.Sprint(n)
				return nil
			}
		}
		str, err := valueAsString(value)
		if err != nil {
			return err
		}
		*dst = str
		return nil
	}
	if dst, ok := boolField[key]; ok {
		val, err := valueAsBool(value)
		if err != nil {
			return err
		}
		*dst = val
		return nil
	}
	switch key {
	case "includetags":
		list, err := valueAsStringSlice(value)
		if err != nil {
			return err
		}
		cfg.IncludeTags = sanitizeTags(list)
	case "excludetags":
		list, err := valueAsStringSlice(value)
		if err != nil {
			return err
		}
		cfg.ExcludeTags = sanitizeTags(list)
	case "workers":
		n, ok := asInt(value)
		if !ok {
			return fmt.Errorf("expected integer, got %T", value)
		}
		j.Workers = n
	default:
		return errUnknownField
	}
	return nil
}

// envConfig mirrors the overridable settings. Parsing leaves a field untouched
// when its variable is unset, so it is seeded from the current configuration.
type envConfig struct {
	Input                string   `env:"INPUT"`
	Out                  string   `env:"OUT"`
	Format               string   `env:"FORMAT"`
	Flavor               string   `env:"FLAVOR"`
	OutputFolder         string   `env:"OUTPUT_FOLDER"`
	SourceFolder         string   `env:"SOURCE_FOLDER"`
	ImplFolder           string   `env:"IMPL_FOLDER"`
	APIPackage           string   `env:"API_PACKAGE"`
	ModelPackage         string   `env:"MODEL_PACKAGE"`
	InvokerPackage       string   `env:"INVOKER_PACKAGE"`
	ArtifactID           string   `env:"ARTIFACT_ID"`
	Title                string   `env:"TITLE"`
	ServerPort           string   `env:"SERVER_PORT"`
	UseBeanValidation    bool     `env:"USE_BEAN_VALIDATION"`
	UseAnnotatedBasePath bool     `env:"USE_ANNOTATED_BASE_PATH"`
	IncludeTags          []string `env:"INCLUDE_TAGS" envSeparator:","`
	ExcludeTags          []string `env:"EXCLUDE_TAGS" envSeparator:","`
	Workers              int      `env:"WORKERS"`
	DryRun               bool     `env:"DRY_RUN"`
	Force                bool     `env:"FORCE"`
	Verbose              bool     `env:"VERBOSE"`
}

// applyEnvOverrides layers SWAGGER2JAXRS_* variables over cfg. A nil environ
// reads the process environment.
func applyEnvOverrides(cfg *GenerateConfig, environ map[string]string) error {
	j := &cfg.JAXRS
	ec := envConfig{
		Input:                cfg.Input,
		Out:                  cfg.Out,
		Format:               cfg.Format,
		Flavor:               j.Flavor,
		OutputFolder:         j.OutputFolder,
		SourceFolder:         j.SourceFolder,
		ImplFolder:           j.ImplFolder,
		APIPackage:           j.APIPackage,
		ModelPackage:         j.ModelPackage,
		InvokerPackage:       j.InvokerPackage,
		ArtifactID:           j.ArtifactID,
		Title:                j.Title,
		ServerPort:           j.ServerPort,
		UseBeanValidation:    j.UseBeanValidation,
		UseAnnotatedBasePath: j.UseAnnotatedBasePath,
		IncludeTags:          cfg.IncludeTags,
		ExcludeTags:          cfg.ExcludeTags,
		Workers:              j.Workers,
		DryRun:               cfg.DryRun,
		Force:                cfg.Force,
		Verbose:              cfg.Verbose,
	}
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return wrapUsageError(fmt.Sprintf("environment: %v", err), err)
	}

	cfg.Input = ec.Input
	cfg.Out = ec.Out
	cfg.Format = ec.Format
	j.Flavor = ec.Flavor
	j.OutputFolder = ec.OutputFolder
	j.SourceFolder = ec.SourceFolder
	j.ImplFolder = ec.ImplFolder
	j.APIPackage = ec.APIPackage
	j.ModelPackage = ec.ModelPackage
	j.InvokerPackage = ec.InvokerPackage
	j.ArtifactID = ec.ArtifactID
	j.Title = ec.Title
	j.ServerPort = ec.ServerPort
	j.UseBeanValidation = ec.UseBeanValidation
	j.UseAnnotatedBasePath = ec.UseAnnotatedBasePath
	cfg.IncludeTags = sanitizeTags(ec.IncludeTags)
	cfg.ExcludeTags = sanitizeTags(ec.ExcludeTags)
	j.Workers = ec.Workers
	cfg.DryRun = ec.DryRun
	cfg.Force = ec.Force
	cfg.Verbose = ec.Verbose
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

// asInt accepts the integer shapes produced by the YAML and TOML decoders.
func asInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case uint64:
		return int(val), true
	case float64:
		if val == float64(int(val)) {
			return int(val), true
		}
	}
	return 0, false
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
