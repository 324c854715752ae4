package jaxrs

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Config holds the generator options read by every stage. Empty strings are
// filled from DefaultConfig by Normalize; booleans are not, so callers start
// from DefaultConfig and override fields.
type Config struct {
	OutputFolder         string `json:"out" yaml:"out" toml:"out"`
	SourceFolder         string `json:"sourceFolder" yaml:"sourceFolder" toml:"sourceFolder"`
	ImplFolder           string `json:"implFolder" yaml:"implFolder" toml:"implFolder"`
	APIPackage           string `json:"apiPackage" yaml:"apiPackage" toml:"apiPackage"`
	ModelPackage         string `json:"modelPackage" yaml:"modelPackage" toml:"modelPackage"`
	InvokerPackage       string `json:"invokerPackage" yaml:"invokerPackage" toml:"invokerPackage"`
	ArtifactID           string `json:"artifactId" yaml:"artifactId" toml:"artifactId"`
	Title                string `json:"title" yaml:"title" toml:"title"`
	ServerPort           string `json:"serverPort,omitempty" yaml:"serverPort,omitempty" toml:"serverPort,omitempty"`
	UseBeanValidation    bool   `json:"useBeanValidation" yaml:"useBeanValidation" toml:"useBeanValidation"`
	UseAnnotatedBasePath bool   `json:"useAnnotatedBasePath" yaml:"useAnnotatedBasePath" toml:"useAnnotatedBasePath"`
	Flavor               string `json:"flavor" yaml:"flavor" toml:"flavor"`
	Workers              int    `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty"`
}

// DefaultConfig returns the stock JAX-RS server layout.
func DefaultConfig() Config {
	return Config{
		OutputFolder:      ".",
		SourceFolder:      "src/gen/java",
		ImplFolder:        "src/main/java",
		APIPackage:        "io.swagger.api",
		ModelPackage:      "io.swagger.model",
		InvokerPackage:    "io.swagger.api",
		ArtifactID:        "swagger-jaxrs-server",
		Title:             "Swagger Server",
		UseBeanValidation: true,
		Flavor:            FlavorJersey,
	}
}

// Normalize fills empty string fields from DefaultConfig and resolves Workers.
// Booleans are taken as given.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		} else {
			*dst = strings.TrimSpace(*dst)
		}
	}
	fill(&c.OutputFolder, d.OutputFolder)
	fill(&c.SourceFolder, d.SourceFolder)
	fill(&c.ImplFolder, d.ImplFolder)
	fill(&c.APIPackage, d.APIPackage)
	fill(&c.ModelPackage, d.ModelPackage)
	fill(&c.InvokerPackage, d.InvokerPackage)
	fill(&c.ArtifactID, d.ArtifactID)
	fill(&c.Title, d.Title)
	fill(&c.Flavor, d.Flavor)
	c.Flavor = strings.ToLower(c.Flavor)
	c.ServerPort = strings.TrimSpace(c.ServerPort)
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// APIFolder is where API interfaces are written: <out>/<sourceFolder>/<apiPackage dirs>.
func (c Config) APIFolder() string {
	return joinSlash(c.OutputFolder, c.SourceFolder, packageDir(c.APIPackage))
}

// ImplFileFolder is where implementations and factories are written:
// <out>/<implFolder>/<apiPackage dirs>.
func (c Config) ImplFileFolder() string {
	return joinSlash(c.OutputFolder, c.ImplFolder, packageDir(c.APIPackage))
}

func packageDir(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// joinSlash joins with forward slashes regardless of OS; planned paths are
// compared textually by the resolver.
func joinSlash(parts ...string) string {
	return filepath.ToSlash(filepath.Join(parts...))
}

// Properties is the renderer-facing view of the configuration after
// preprocessing. ServerPort is either the configured override or the value
// derived from the document host.
type Properties struct {
	Title                string `json:"title" yaml:"title"`
	ArtifactID           string `json:"artifactId" yaml:"artifactId"`
	APIPackage           string `json:"apiPackage" yaml:"apiPackage"`
	ModelPackage         string `json:"modelPackage" yaml:"modelPackage"`
	InvokerPackage       string `json:"invokerPackage" yaml:"invokerPackage"`
	ImplFolder           string `json:"implFolder" yaml:"implFolder"`
	SourceFolder         string `json:"sourceFolder" yaml:"sourceFolder"`
	ServerPort           string `json:"serverPort" yaml:"serverPort"`
	UseBeanValidation    bool   `json:"useBeanValidation,omitempty" yaml:"useBeanValidation,omitempty"`
	UseAnnotatedBasePath bool   `json:"useAnnotatedBasePath,omitempty" yaml:"useAnnotatedBasePath,omitempty"`
	Jackson              bool   `json:"jackson" yaml:"jackson"`
	BasePath             string `json:"basePath" yaml:"basePath"`
	Host                 string `json:"host,omitempty" yaml:"host,omitempty"`
}

// NewProperties seeds Properties from the configuration. ServerPort carries
// the override, if any; the preprocessor derives it otherwise.
func NewProperties(c Config) *Properties {
	return &Properties{
		Title:                c.Title,
		ArtifactID:           c.ArtifactID,
		APIPackage:           c.APIPackage,
		ModelPackage:         c.ModelPackage,
		InvokerPackage:       c.InvokerPackage,
		ImplFolder:           c.ImplFolder,
		SourceFolder:         c.SourceFolder,
		ServerPort:           c.ServerPort,
		UseBeanValidation:    c.UseBeanValidation,
		UseAnnotatedBasePath: c.UseAnnotatedBasePath,
		Jackson:              true,
	}
}
