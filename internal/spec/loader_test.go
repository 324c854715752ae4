package spec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad_BlocksFileURL(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "file:///etc/hosts")
	if err == nil {
		t.Fatalf("expected error for file:// URL")
	}
	var se *SpecError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpecError, got %T", err)
	}
	if se.Code != InputError {
		t.Fatalf("expected InputError, got %v", se.Code)
	}
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "ftp://example.com/spec.yaml")
	var se *SpecError
	if !errors.As(err, &se) || se.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_EmptyInput(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), "  ")
	var se *SpecError
	if !errors.As(err, &se) || se.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}
}

func TestLoad_NetworkError(t *testing.T) {
	t.Parallel()
	// Unused port to provoke a quick network failure.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Load(ctx, "http://127.0.0.1:1/spec.yaml", WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2), WithBackoffBase(10*time.Millisecond))
	var se *SpecError
	if !errors.As(err, &se) || se.Code != NetworkError {
		t.Fatalf("expected NetworkError, got %v (%T)", err, err)
	}
}

func TestLoad_UnknownVersion(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "odd.yaml", `info: { title: x }`)
	_, err := Load(context.Background(), path)
	var se *SpecError
	if !errors.As(err, &se) || se.Code != ParseError {
		t.Fatalf("expected ParseError, got %v (%T)", err, err)
	}
}

func TestLoad_V2_KeepsHostAndBasePath(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "swagger.yaml", `swagger: "2.0"
info:
  title: Petstore
  version: "1.0.0"
host: petstore.example.com:9090
basePath: /v2
paths:
  /pets/{petId}:
    get:
      tags: [pet]
      parameters:
        - in: path
          name: petId
          required: true
          type: integer
          format: int64
      responses:
        "200":
          description: ok
          schema:
            $ref: '#/definitions/Pet'
definitions:
  Pet:
    type: object
    properties:
      name: { type: string }
`)
	doc, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Host != "petstore.example.com:9090" || doc.BasePath != "/v2" {
		t.Fatalf("host/basePath: got %q %q", doc.Host, doc.BasePath)
	}
	op := doc.Paths["/pets/{petId}"].Get
	if op == nil {
		t.Fatalf("expected GET operation")
	}
	if ref := op.Responses["200"].Schema.Ref; ref != "#/definitions/Pet" {
		t.Fatalf("response schema ref: got %q", ref)
	}
}

func TestLoad_V2_MissingInfo(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "swagger-bad.yaml", `swagger: "2.0"
paths: {}
`)
	_, err := Load(context.Background(), path)
	var se *SpecError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpecError, got %T", err)
	}
	if se.Code != ValidationError {
		t.Fatalf("expected ValidationError, got %v", se.Code)
	}
	if se.Location == "" {
		t.Fatalf("expected location to be set")
	}
}

func TestLoad_V3_InvalidSpec(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "bad.yaml", `openapi: 3.0.0
info:
  title: Bad
  version: "1.0.0"
paths:
  "/pet":
    get:
      responses: {}
`)
	_, err := Load(context.Background(), path)
	var se *SpecError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpecError, got %T", err)
	}
	if se.Code != ValidationError && se.Code != ParseError {
		t.Fatalf("expected ValidationError/ParseError, got %v", se.Code)
	}
}

func TestLoad_V3_ConvertedToV2(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, "openapi.yaml", `openapi: 3.0.0
info:
  title: Sample
  version: "1.0.0"
servers:
  - url: http://api.example.com:7070/v1
paths:
  /hello:
    get:
      tags: [greeting]
      responses:
        "200":
          description: ok
`)
	doc, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Swagger != "2.0" {
		t.Fatalf("expected swagger 2.0 shape, got %q", doc.Swagger)
	}
	if doc.Host != "api.example.com:7070" || doc.BasePath != "/v1" {
		t.Fatalf("host/basePath: got %q %q", doc.Host, doc.BasePath)
	}
	if doc.Paths["/hello"] == nil || doc.Paths["/hello"].Get == nil {
		t.Fatalf("expected GET /hello after conversion")
	}
}
