package jaxrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2jaxrs/internal/spec"
)

func TestToAPIName(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":          "DefaultApi",
		"pet":       "PetApi",
		"pet-store": "PetStoreApi",
		"user_info": "UserInfoApi",
		"my tag":    "MyTagApi",
		"---":       "DefaultApi",
		"Store":     "StoreApi",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToAPIName(in), in)
	}
}

func TestGroupByTag(t *testing.T) {
	t.Parallel()
	a := &spec.Operation{ID: "a", Tags: []string{"store"}}
	b := &spec.Operation{ID: "b"}
	c := &spec.Operation{ID: "c", Tags: []string{"pet"}}
	d := &spec.Operation{ID: "d", Tags: []string{"store"}}
	s := &spec.Specification{Paths: []*spec.PathItem{
		{Path: "/a", Operations: []*spec.Operation{a, b}},
		{Path: "/c", Operations: []*spec.Operation{c, d}},
	}}

	groups := GroupByTag(s)
	require.Len(t, groups, 3)
	assert.Equal(t, "default", groups[0].Tag)
	assert.Equal(t, "DefaultApi", groups[0].ClassName)
	assert.Equal(t, "pet", groups[1].Tag)
	assert.Equal(t, "store", groups[2].Tag)
	assert.Equal(t, []*spec.Operation{a, d}, groups[2].Operations)
}
