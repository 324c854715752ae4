package jaxrs

import (
	"strings"

	"github.com/mark3labs/swagger2jaxrs/internal/spec"
)

// Sentinels and container hints written by the postprocessor.
const (
	VoidType     = "void"
	VoidBaseType = "Void"
	ListHint     = "List"
	MapHint      = "Map"
)

const multipartFormData = "multipart/form-data"

// OperationPostprocessor annotates the operations of one tag group.
type OperationPostprocessor interface {
	Postprocess(g *TagGroup) *TagGroup
}

// Postprocessor is the JAX-RS OperationPostprocessor. Classify defaults to the
// package Classify when nil.
type Postprocessor struct {
	Classify func(code string) *spec.ExceptionDescriptor
}

// Postprocess mutates every operation of g in place and returns g. Running it
// again over its own output changes nothing.
func (p Postprocessor) Postprocess(g *TagGroup) *TagGroup {
	if g == nil {
		return nil
	}
	classify := p.Classify
	if classify == nil {
		classify = Classify
	}
	for _, op := range g.Operations {
		if op == nil {
			continue
		}
		markMultipart(op)
		for _, r := range op.Responses {
			if r != nil {
				normalizeResponse(r, classify)
			}
		}
		if op.ReturnBaseType == "" {
			op.ReturnType = VoidType
			op.ReturnBaseType = VoidBaseType
			op.Extensions.ResponseVoid = true
		}
		op.ReturnContainer = containerHint(op.ReturnContainer)
	}
	return g
}

// markMultipart sets IsMultipart from the first consumed type only, but flags
// every parameter when any consumed type has the multipart prefix.
func markMultipart(op *spec.Operation) {
	if len(op.Consumes) > 0 && op.Consumes[0] == multipartFormData {
		op.IsMultipart = true
	}
	multipartPost := false
	for _, mt := range op.Consumes {
		if strings.HasPrefix(mt, multipartFormData) {
			multipartPost = true
			break
		}
	}
	if !multipartPost {
		return
	}
	for _, param := range op.Parameters {
		if param != nil {
			param.Extensions.Multipart = true
		}
	}
}

func normalizeResponse(r *spec.Response, classify func(string) *spec.ExceptionDescriptor) {
	if r.Code == "0" {
		r.Code = "200"
	}
	if d := classify(r.Code); d != nil {
		r.Extensions.WebApplicationException = d
	}
	if r.BaseType == "" {
		r.DataType = VoidType
		r.BaseType = VoidBaseType
		r.Extensions.ResponseVoid = true
	}
	r.ContainerType = containerHint(r.ContainerType)
}

func containerHint(c string) string {
	switch c {
	case "array":
		return ListHint
	case "map":
		return MapHint
	}
	return c
}
