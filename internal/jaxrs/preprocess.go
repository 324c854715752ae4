package jaxrs

import (
	"strings"

	"github.com/mark3labs/swagger2jaxrs/internal/spec"
)

// DefaultServerPort is used when the document host carries no port.
const DefaultServerPort = "8080"

// SpecPreprocessor runs once over the whole specification before grouping.
type SpecPreprocessor interface {
	Preprocess(s *spec.Specification, props *Properties)
}

// Preprocessor is the JAX-RS SpecPreprocessor.
type Preprocessor struct{}

// Preprocess normalizes the base path, publishes the server port and
// restructures operation tags. It mutates s and props in place.
func (Preprocessor) Preprocess(s *spec.Specification, props *Properties) {
	if s == nil {
		return
	}
	if s.BasePath == "/" {
		s.BasePath = ""
	}
	if props != nil {
		if props.ServerPort == "" {
			props.ServerPort = portFromHost(s.Host)
		}
		props.BasePath = s.BasePath
		props.Host = s.Host
	}
	for _, op := range s.Operations() {
		collapseTags(op)
	}
}

// portFromHost returns the second ':'-separated segment of host, or the
// default port. Trailing empty segments are ignored, so "api:" yields the
// default while "api::9000" yields "".
func portFromHost(host string) string {
	if host == "" {
		return DefaultServerPort
	}
	parts := strings.Split(host, ":")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 1 {
		return parts[1]
	}
	return DefaultServerPort
}

func collapseTags(op *spec.Operation) {
	if len(op.Tags) == 0 {
		return
	}
	refs := make([]spec.TagRef, len(op.Tags))
	for i, t := range op.Tags {
		refs[i] = spec.TagRef{Tag: t, HasMore: i < len(op.Tags)-1}
	}
	op.Tags = []string{op.Tags[0]}
	op.Extensions.Tags = refs
}
