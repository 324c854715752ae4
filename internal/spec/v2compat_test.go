package spec

import (
	"testing"
)

func TestV2Compat_MultipleBodyMerged(t *testing.T) {
	t.Parallel()
	doc := loadSwagger(t, `swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /x:
    post:
      parameters:
      - in: body
        name: a
        required: true
        schema: { type: string }
      - in: body
        name: b
        schema: { type: integer }
      - in: query
        name: q
        type: string
      responses: { '200': { description: ok } }
`)
	if n := rewriteV2ForCompatibility(doc); n != 1 {
		t.Fatalf("expected one rewritten operation, got %d", n)
	}
	params := doc.Paths["/x"].Post.Parameters
	if len(params) != 2 {
		t.Fatalf("expected merged body + query, got %d params", len(params))
	}
	body := params[0]
	if body.In != "body" || body.Name != "body" {
		t.Fatalf("expected merged body parameter first, got %s/%s", body.In, body.Name)
	}
	props := body.Schema.Value.Properties
	if props["a"] == nil || props["b"] == nil {
		t.Fatalf("merged schema missing properties: %v", props)
	}
	if req := body.Schema.Value.Required; len(req) != 1 || req[0] != "a" {
		t.Fatalf("required: got %v", req)
	}
}

func TestV2Compat_BodyAndFormData_ToFormData(t *testing.T) {
	t.Parallel()
	doc := loadSwagger(t, `swagger: "2.0"
info: { title: t, version: "1.0.0" }
consumes: [application/json]
paths:
  /upload:
    post:
      parameters:
      - in: body
        name: desc
        schema: { type: string }
      - in: formData
        name: file
        type: file
        required: true
      responses: { '200': { description: ok } }
`)
	if n := rewriteV2ForCompatibility(doc); n != 1 {
		t.Fatalf("expected one rewritten operation, got %d", n)
	}
	op := doc.Paths["/upload"].Post
	for _, p := range op.Parameters {
		if p.In == "body" {
			t.Fatalf("expected no body params after conversion to formData")
		}
	}
	if op.Parameters[0].Type != "string" {
		t.Fatalf("converted param type: got %q", op.Parameters[0].Type)
	}
	if len(op.Consumes) != 2 || op.Consumes[0] != "application/json" || op.Consumes[1] != "multipart/form-data" {
		t.Fatalf("consumes: got %v", op.Consumes)
	}
}

func TestV2Compat_SingleBodyUntouched(t *testing.T) {
	t.Parallel()
	doc := loadSwagger(t, `swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /x:
    put:
      parameters:
      - in: body
        name: a
        schema: { type: string }
      responses: { '200': { description: ok } }
`)
	if n := rewriteV2ForCompatibility(doc); n != 0 {
		t.Fatalf("expected no rewrite, got %d", n)
	}
}
