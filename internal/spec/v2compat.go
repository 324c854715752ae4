package spec

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
)

const multipartFormData = "multipart/form-data"

// rewriteV2ForCompatibility fixes two non-compliant Swagger 2.0 shapes in place
// and returns how many operations were touched:
//   - several body parameters on one operation are merged into a single body
//     parameter whose schema is an object with one property per original;
//   - body parameters mixed with formData parameters become formData
//     parameters, and the operation consumes multipart/form-data.
func rewriteV2ForCompatibility(doc *openapi2.T) int {
	if doc == nil {
		return 0
	}
	touched := 0
	for _, item := range doc.Paths {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op == nil || len(op.Parameters) == 0 {
				continue
			}
			if rewriteOperation(doc, op) {
				touched++
			}
		}
	}
	return touched
}

func rewriteOperation(doc *openapi2.T, op *openapi2.Operation) bool {
	bodyCount := 0
	hasFormData := false
	for _, p := range op.Parameters {
		if p == nil {
			continue
		}
		switch {
		case strings.EqualFold(p.In, "body"):
			bodyCount++
		case strings.EqualFold(p.In, "formData"):
			hasFormData = true
		}
	}
	if bodyCount == 0 {
		return false
	}

	if hasFormData {
		params := make(openapi2.Parameters, 0, len(op.Parameters))
		for _, p := range op.Parameters {
			if p == nil {
				continue
			}
			if strings.EqualFold(p.In, "body") {
				p = formDataFromBody(p)
			}
			params = append(params, p)
		}
		op.Parameters = params
		consumes := op.Consumes
		if len(consumes) == 0 {
			consumes = append([]string(nil), doc.Consumes...)
		}
		if !containsString(consumes, multipartFormData) {
			consumes = append(consumes, multipartFormData)
		}
		op.Consumes = consumes
		return true
	}

	if bodyCount < 2 {
		return false
	}
	merged := &openapi3.Schema{Type: "object", Properties: openapi3.Schemas{}}
	rest := make(openapi2.Parameters, 0, len(op.Parameters))
	for _, p := range op.Parameters {
		if p == nil {
			continue
		}
		if !strings.EqualFold(p.In, "body") {
			rest = append(rest, p)
			continue
		}
		name := p.Name
		if name == "" {
			name = "field"
		}
		schema := p.Schema
		if schema == nil {
			schema = openapi3.NewStringSchema().NewRef()
		}
		merged.Properties[name] = schema
		if p.Required {
			merged.Required = append(merged.Required, name)
		}
	}
	sort.Strings(merged.Required)
	body := &openapi2.Parameter{In: "body", Name: "body", Schema: merged.NewRef()}
	op.Parameters = append(openapi2.Parameters{body}, rest...)
	return true
}

// formDataFromBody degrades a body parameter to a scalar form field. Referenced
// objects cannot be represented in formData and become strings.
func formDataFromBody(p *openapi2.Parameter) *openapi2.Parameter {
	name := p.Name
	if name == "" {
		name = "field"
	}
	out := &openapi2.Parameter{
		In:          "formData",
		Name:        name,
		Description: p.Description,
		Required:    p.Required,
		Extensions:  p.Extensions,
	}
	if p.Schema != nil && p.Schema.Ref == "" && p.Schema.Value != nil {
		out.Type = p.Schema.Value.Type
		out.Format = p.Schema.Value.Format
		out.Items = p.Schema.Value.Items
	}
	if out.Type == "" {
		out.Type = "string"
	}
	return out
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
