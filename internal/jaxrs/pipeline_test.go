package jaxrs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2jaxrs/internal/spec"
)

func petstore() *spec.Specification {
	return &spec.Specification{
		Title:    "Petstore",
		BasePath: "/",
		Host:     "petstore.example.com:9090",
		Paths: []*spec.PathItem{
			{Path: "/pets", Operations: []*spec.Operation{
				{
					ID: "listPets", Method: spec.GET, Path: "/pets", Tags: []string{"pet", "read"},
					ReturnType: "List<Pet>", ReturnBaseType: "Pet", ReturnContainer: "array",
					Responses: []*spec.Response{{Code: "200", BaseType: "Pet", ContainerType: "array"}, {Code: "0"}},
				},
				{
					ID: "uploadPet", Method: spec.POST, Path: "/pets", Tags: []string{"pet"},
					Consumes:   []string{"multipart/form-data"},
					Parameters: []*spec.Parameter{{Name: "file", In: "formData"}},
					Responses:  []*spec.Response{{Code: "201"}, {Code: "400"}},
				},
			}},
			{Path: "/store", Operations: []*spec.Operation{
				{ID: "inventory", Method: spec.GET, Path: "/store", Tags: []string{"store"}},
				{ID: "ping", Method: spec.HEAD, Path: "/store"},
			}},
		},
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.OutputFolder = "out"
	cfg.Workers = 2
	p, err := New(cfg)
	require.NoError(t, err)

	res, err := p.Run(context.Background(), petstore())
	require.NoError(t, err)

	assert.Equal(t, "", res.Spec.BasePath)
	assert.Equal(t, "9090", res.Properties.ServerPort)
	assert.True(t, res.Properties.Jackson)
	assert.Equal(t, "Swagger Server", res.Properties.Title)

	require.Len(t, res.Groups, 3)
	assert.Equal(t, []string{"default", "pet", "store"}, []string{res.Groups[0].Tag, res.Groups[1].Tag, res.Groups[2].Tag})

	pet := res.Groups[1]
	list := pet.Operations[0]
	assert.Equal(t, []string{"pet"}, list.Tags)
	assert.Len(t, list.Extensions.Tags, 2)
	assert.Equal(t, ListHint, list.ReturnContainer)
	assert.Equal(t, "200", list.Responses[1].Code)

	upload := pet.Operations[1]
	assert.True(t, upload.IsMultipart)
	assert.True(t, upload.Parameters[0].Extensions.Multipart)
	assert.Equal(t, VoidBaseType, upload.ReturnBaseType)
	assert.Equal(t, "BadRequestException", upload.Responses[1].Extensions.WebApplicationException.SimpleName)

	require.Len(t, res.Outputs, 12)
	assert.Equal(t, Output{
		Tag:       "pet",
		ClassName: "PetApi",
		Template:  "apiServiceImpl.mustache",
		Path:      "out/src/main/java/io/swagger/api/impl/PetApiServiceImpl.java",
	}, res.Outputs[6])
}

func TestPipeline_PortOverride(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.ServerPort = "7000"
	p, err := New(cfg)
	require.NoError(t, err)
	res, err := p.Run(context.Background(), petstore())
	require.NoError(t, err)
	assert.Equal(t, "7000", res.Properties.ServerPort)
}

func TestPipeline_SpecFlavor(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Flavor = "SPEC"
	p, err := New(cfg)
	require.NoError(t, err)
	res, err := p.Run(context.Background(), petstore())
	require.NoError(t, err)
	assert.Equal(t, FlavorSpec, res.Flavor)
	assert.Len(t, res.Outputs, 6)
}

func TestPipeline_UnknownFlavor(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Flavor = "resteasy"
	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFlavor))
}

func TestPipeline_PathCollision(t *testing.T) {
	t.Parallel()
	s := &spec.Specification{Paths: []*spec.PathItem{{Path: "/x", Operations: []*spec.Operation{
		{ID: "a", Tags: []string{"pet-store"}},
		{ID: "b", Tags: []string{"pet_store"}},
	}}}}
	p, err := New(DefaultConfig())
	require.NoError(t, err)
	_, err = p.Run(context.Background(), s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathCollision)
}

func TestPipeline_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, err := New(DefaultConfig())
	require.NoError(t, err)
	_, err = p.Run(ctx, petstore())
	assert.ErrorIs(t, err, context.Canceled)
}

type countingPost struct {
	Postprocessor
	calls chan string
}

func (c countingPost) Postprocess(g *TagGroup) *TagGroup {
	c.calls <- g.Tag
	return c.Postprocessor.Postprocess(g)
}

func TestPipeline_CustomStage(t *testing.T) {
	t.Parallel()
	calls := make(chan string, 8)
	p, err := New(DefaultConfig(), WithPostprocessor(countingPost{calls: calls}))
	require.NoError(t, err)
	_, err = p.Run(context.Background(), petstore())
	require.NoError(t, err)
	close(calls)
	seen := map[string]bool{}
	for tag := range calls {
		seen[tag] = true
	}
	assert.Equal(t, map[string]bool{"default": true, "pet": true, "store": true}, seen)
}

func TestConfig_Normalize(t *testing.T) {
	t.Parallel()
	c := Config{APIPackage: " com.acme ", Flavor: "Jersey"}.Normalize()
	assert.Equal(t, "com.acme", c.APIPackage)
	assert.Equal(t, "jersey", c.Flavor)
	assert.Equal(t, "src/main/java", c.ImplFolder)
	assert.Greater(t, c.Workers, 0)
	assert.False(t, c.UseBeanValidation)
	assert.Equal(t, "src/main/java/com/acme", c.ImplFileFolder())
	assert.Equal(t, "src/gen/java/com/acme", c.APIFolder())
}

func TestNew_BooleansFromDefaultConfig(t *testing.T) {
	t.Parallel()
	p, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.True(t, NewProperties(p.Config()).UseBeanValidation)

	cfg := DefaultConfig()
	cfg.UseBeanValidation = false
	cfg.UseAnnotatedBasePath = true
	p, err = New(cfg)
	require.NoError(t, err)
	props := NewProperties(p.Config())
	assert.False(t, props.UseBeanValidation)
	assert.True(t, props.UseAnnotatedBasePath)
}
