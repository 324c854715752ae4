package spec

import (
	"encoding/json"
	"sort"
)

// Extension keys read by the renderer. These are the only keys the pass writes.
const (
	ExtTags                    = "x-tags"
	ExtMultipart               = "x-multipart"
	ExtResponseVoid            = "x-java-is-response-void"
	ExtWebApplicationException = "x-jaxrs-WebApplicationException"
)

// TagRef is one entry of the x-tags sequence. HasMore is false only on the
// last entry so templates can render separators without a trailing one.
type TagRef struct {
	Tag     string `json:"tag" yaml:"tag"`
	HasMore bool   `json:"hasMore,omitempty" yaml:"hasMore,omitempty"`
}

// Extensions is the side channel attached to operations, parameters and
// responses. The recognized keys are typed fields; Vendor holds x-* entries
// copied from the source document and is never written by the pass.
type Extensions struct {
	Tags                    []TagRef
	Multipart               bool
	ResponseVoid            bool
	WebApplicationException *ExceptionDescriptor
	Vendor                  map[string]any
}

// Map flattens the bag into the key/value view templates consume. Recognized
// keys win over vendor entries of the same name.
func (e Extensions) Map() map[string]any {
	m := make(map[string]any, len(e.Vendor)+4)
	for k, v := range e.Vendor {
		m[k] = v
	}
	if e.Tags != nil {
		m[ExtTags] = e.Tags
	}
	if e.Multipart {
		m[ExtMultipart] = true
	}
	if e.ResponseVoid {
		m[ExtResponseVoid] = true
	}
	if e.WebApplicationException != nil {
		m[ExtWebApplicationException] = e.WebApplicationException
	}
	return m
}

// Keys returns the populated key names in sorted order.
func (e Extensions) Keys() []string {
	m := e.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e Extensions) IsZero() bool {
	return len(e.Vendor) == 0 && e.Tags == nil && !e.Multipart && !e.ResponseVoid && e.WebApplicationException == nil
}

func (e Extensions) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Map())
}

func (e Extensions) MarshalYAML() (any, error) {
	return e.Map(), nil
}
