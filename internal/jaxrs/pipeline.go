package jaxrs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mark3labs/swagger2jaxrs/internal/spec"
)

// ErrPathCollision is returned when two template outputs resolve to one path.
var ErrPathCollision = errors.New("output path collision")

// Output is one planned renderer output: template applied to a tag group.
type Output struct {
	Tag       string `json:"tag" yaml:"tag"`
	ClassName string `json:"classname" yaml:"classname"`
	Template  string `json:"template" yaml:"template"`
	Path      string `json:"path" yaml:"path"`
}

// Result is the enriched model handed to the renderer.
type Result struct {
	Flavor     string              `json:"flavor" yaml:"flavor"`
	Spec       *spec.Specification `json:"spec" yaml:"-"`
	Properties *Properties         `json:"properties" yaml:"properties"`
	Groups     []*TagGroup         `json:"groups" yaml:"-"`
	Outputs    []Output            `json:"outputs" yaml:"outputs"`
}

// Pipeline runs the stages in order: preprocess, group, postprocess, resolve.
type Pipeline struct {
	cfg    Config
	flavor Flavor
	pre    SpecPreprocessor
	post   OperationPostprocessor
	paths  OutputPathResolver
	logger *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithPreprocessor(s SpecPreprocessor) Option {
	return func(p *Pipeline) { p.pre = s }
}

func WithPostprocessor(s OperationPostprocessor) Option {
	return func(p *Pipeline) { p.post = s }
}

func WithPathResolver(r OutputPathResolver) Option {
	return func(p *Pipeline) { p.paths = r }
}

// New builds a pipeline for cfg. The flavor picks the templates and options
// replace the default stages.
//
// cfg should start from DefaultConfig: Normalize fills empty strings but takes
// booleans as given, so a zero Config turns bean validation off.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	cfg = cfg.Normalize()
	flavor, err := LookupFlavor(cfg.Flavor)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:    cfg,
		flavor: flavor,
		pre:    Preprocessor{},
		post:   Postprocessor{},
		paths:  NewPathResolver(cfg),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the normalized configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Run mutates s in place and returns the enriched model. Tag groups are
// postprocessed concurrently; each group only touches its own operations.
func (p *Pipeline) Run(ctx context.Context, s *spec.Specification) (*Result, error) {
	if s == nil {
		return nil, errors.New("nil specification")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	props := NewProperties(p.cfg)
	overridden := props.ServerPort != ""
	p.pre.Preprocess(s, props)
	p.logger.Debug("preprocessed specification",
		"basePath", s.BasePath,
		"serverPort", props.ServerPort,
		"portOverride", overridden,
	)

	groups := GroupByTag(s)
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.cfg.Workers)
	for i, g := range groups {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			groups[i] = p.post.Postprocess(g)
			p.logger.Debug("postprocessed group", "tag", g.Tag, "operations", len(g.Operations))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("postprocess: %w", err)
	}

	outputs, err := p.resolveOutputs(groups)
	if err != nil {
		return nil, err
	}
	p.logger.Info("jaxrs pass complete",
		"flavor", p.flavor.Name,
		"groups", len(groups),
		"outputs", len(outputs),
	)
	return &Result{
		Flavor:     p.flavor.Name,
		Spec:       s,
		Properties: props,
		Groups:     groups,
		Outputs:    outputs,
	}, nil
}

func (p *Pipeline) resolveOutputs(groups []*TagGroup) ([]Output, error) {
	seen := make(map[string]Output)
	outputs := make([]Output, 0, len(groups)*len(p.flavor.Templates))
	for _, g := range groups {
		for _, tmpl := range p.flavor.Templates {
			o := Output{
				Tag:       g.Tag,
				ClassName: g.ClassName,
				Template:  tmpl,
				Path:      p.paths.APIFilename(tmpl, g.Tag),
			}
			if prev, dup := seen[o.Path]; dup {
				return nil, fmt.Errorf("%w: %s (%s/%s and %s/%s)", ErrPathCollision, o.Path, prev.Tag, prev.Template, o.Tag, o.Template)
			}
			seen[o.Path] = o
			outputs = append(outputs, o)
		}
	}
	return outputs, nil
}
