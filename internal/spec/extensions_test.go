package spec

import (
	"encoding/json"
	"testing"
)

func TestExtensions_MapAndJSON(t *testing.T) {
	t.Parallel()
	exc := &ExceptionDescriptor{ClassName: "javax.ws.rs.NotFoundException", SimpleName: "NotFoundException", IsChildClass: true}
	e := Extensions{
		Tags:                    []TagRef{{Tag: "pet", HasMore: true}, {Tag: "store"}},
		ResponseVoid:            true,
		WebApplicationException: exc,
		Vendor:                  map[string]any{"x-custom": "v", ExtMultipart: "shadowed"},
	}
	m := e.Map()
	if m[ExtResponseVoid] != true {
		t.Errorf("void flag missing: %v", m)
	}
	if _, ok := m[ExtMultipart]; !ok {
		t.Errorf("vendor entry should survive when the typed flag is unset")
	}
	if m[ExtWebApplicationException] != exc {
		t.Errorf("descriptor should be shared by pointer")
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tags, ok := back[ExtTags].([]any)
	if !ok || len(tags) != 2 {
		t.Fatalf("x-tags: got %v", back[ExtTags])
	}
	last := tags[1].(map[string]any)
	if _, has := last["hasMore"]; has {
		t.Errorf("last tag must not carry hasMore: %v", last)
	}
}

func TestExtensions_Zero(t *testing.T) {
	t.Parallel()
	var e Extensions
	if !e.IsZero() || len(e.Keys()) != 0 {
		t.Fatalf("zero bag should be empty")
	}
	e.Multipart = true
	if e.IsZero() || e.Keys()[0] != ExtMultipart {
		t.Fatalf("keys: %v", e.Keys())
	}
}
