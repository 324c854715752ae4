package spec

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
)

// BuildOption configures how the Specification is built from a Swagger doc.
type BuildOption func(*buildConfig)

type buildConfig struct {
	includeTags map[string]struct{}
	excludeTags map[string]struct{}
	methods     map[HttpMethod]struct{}
	pathRes     []*regexp.Regexp
}

// WithIncludeTags keeps only operations that have at least one of the given tags.
func WithIncludeTags(tags []string) BuildOption {
	return func(c *buildConfig) {
		c.includeTags = addTags(c.includeTags, tags)
	}
}

// WithExcludeTags removes operations that have any of the given tags.
func WithExcludeTags(tags []string) BuildOption {
	return func(c *buildConfig) {
		c.excludeTags = addTags(c.excludeTags, tags)
	}
}

func addTags(set map[string]struct{}, tags []string) map[string]struct{} {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(tags))
		}
		set[t] = struct{}{}
	}
	return set
}

// WithMethods keeps only operations using one of the provided HTTP methods.
func WithMethods(methods []HttpMethod) BuildOption {
	return func(c *buildConfig) {
		for _, m := range methods {
			if c.methods == nil {
				c.methods = make(map[HttpMethod]struct{}, len(methods))
			}
			c.methods[HttpMethod(strings.ToUpper(string(m)))] = struct{}{}
		}
	}
}

// WithPathPatterns keeps only operations whose path matches at least one of the
// provided regular expressions. An invalid pattern matches nothing.
func WithPathPatterns(patterns []string) BuildOption {
	return func(c *buildConfig) {
		for _, p := range patterns {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			re, err := regexp.Compile(p)
			if err != nil {
				re = regexp.MustCompile("a^$")
			}
			c.pathRes = append(c.pathRes, re)
		}
	}
}

// Build converts a Swagger 2.0 document into a Specification. Paths are sorted,
// operations follow Methods order, and path-level parameters are overridden
// by operation-level ones with the same location and name. Build stops with
// ctx.Err() once ctx is done.
func Build(ctx context.Context, doc *openapi2.T, opts ...BuildOption) (*Specification, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}

	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Specification{
		Title:       safeStr(doc.Info.Title),
		Version:     safeStr(doc.Info.Version),
		Description: safeStr(doc.Info.Description),
		BasePath:    doc.BasePath,
		Host:        strings.TrimSpace(doc.Host),
		Schemes:     append([]string(nil), doc.Schemes...),
		Consumes:    append([]string(nil), doc.Consumes...),
		Produces:    append([]string(nil), doc.Produces...),
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := doc.Paths[p]
		if raw == nil {
			continue
		}
		item := &PathItem{Path: p}
		for _, method := range Methods {
			op := raw.GetOperation(string(method))
			if op == nil || !cfg.allowMethod(method) || !cfg.allowPath(p) {
				continue
			}
			tags := cleanTags(op.Tags)
			if !cfg.allowTags(tags) {
				continue
			}
			item.Operations = append(item.Operations, buildOperation(doc, p, method, raw, op, tags))
		}
		if len(item.Operations) > 0 {
			s.Paths = append(s.Paths, item)
		}
	}

	return s, nil
}

func buildOperation(doc *openapi2.T, path string, method HttpMethod, item *openapi2.PathItem, raw *openapi2.Operation, tags []string) *Operation {
	op := &Operation{
		ID:          safeStr(raw.OperationID),
		Method:      method,
		Path:        path,
		Summary:     safeStr(raw.Summary),
		Description: safeStr(raw.Description),
		Deprecated:  raw.Deprecated,
		Tags:        tags,
		Consumes:    firstNonEmpty(raw.Consumes, doc.Consumes),
		Produces:    firstNonEmpty(raw.Produces, doc.Produces),
		Parameters:  mergeParameters(doc, item.Parameters, raw.Parameters),
		Responses:   buildResponses(doc, raw.Responses),
		Extensions:  Extensions{Vendor: vendorExtensions(raw.Extensions)},
	}
	if op.ID == "" {
		op.ID = nickname(method, path)
	}
	if r := methodResponse(op.Responses); r != nil {
		op.ReturnType = r.DataType
		op.ReturnBaseType = r.BaseType
		op.ReturnContainer = r.ContainerType
	}
	return op
}

func (c *buildConfig) allowMethod(m HttpMethod) bool {
	if len(c.methods) == 0 {
		return true
	}
	_, ok := c.methods[m]
	return ok
}

func (c *buildConfig) allowPath(p string) bool {
	if len(c.pathRes) == 0 {
		return true
	}
	for _, re := range c.pathRes {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

func (c *buildConfig) allowTags(tags []string) bool {
	if len(c.includeTags) > 0 {
		ok := false
		for _, t := range tags {
			if _, yes := c.includeTags[t]; yes {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, t := range tags {
		if _, blocked := c.excludeTags[t]; blocked {
			return false
		}
	}
	return true
}

func cleanTags(in []string) []string {
	var tags []string
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func mergeParameters(doc *openapi2.T, base, own openapi2.Parameters) []*Parameter {
	var order []string
	byKey := make(map[string]*Parameter)
	add := func(list openapi2.Parameters) {
		for _, raw := range list {
			p := toParameter(resolveParameter(doc, raw))
			if p == nil {
				continue
			}
			key := p.In + ":" + p.Name
			if _, seen := byKey[key]; !seen {
				order = append(order, key)
			}
			byKey[key] = p
		}
	}
	add(base)
	add(own)
	if len(order) == 0 {
		return nil
	}
	out := make([]*Parameter, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

func resolveParameter(doc *openapi2.T, p *openapi2.Parameter) *openapi2.Parameter {
	if p == nil || p.Ref == "" {
		return p
	}
	return doc.Parameters[refName(p.Ref)]
}

func toParameter(p *openapi2.Parameter) *Parameter {
	if p == nil {
		return nil
	}
	out := &Parameter{
		Name:        safeStr(p.Name),
		In:          safeStr(p.In),
		Required:    p.Required,
		Description: safeStr(p.Description),
		Extensions:  Extensions{Vendor: vendorExtensions(p.Extensions)},
	}
	schema := p.Schema
	if schema == nil && p.Type != "" {
		schema = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: p.Type, Format: p.Format, Items: p.Items}}
	}
	var container string
	out.DataType, out.BaseType, container = typeOf(schema)
	out.IsContainer = container != ""
	return out
}

func buildResponses(doc *openapi2.T, responses map[string]*openapi2.Response) []*Response {
	if len(responses) == 0 {
		return nil
	}
	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]*Response, 0, len(codes))
	for _, code := range codes {
		raw := responses[code]
		if raw != nil && raw.Ref != "" {
			raw = doc.Responses[refName(raw.Ref)]
		}
		if raw == nil {
			continue
		}
		r := &Response{
			Code:       code,
			Message:    safeStr(raw.Description),
			Extensions: Extensions{Vendor: vendorExtensions(raw.Extensions)},
		}
		if code == "default" {
			r.Code = "0"
		}
		r.DataType, r.BaseType, r.ContainerType = typeOf(raw.Schema)
		out = append(out, r)
	}
	return out
}

// methodResponse picks the response that defines the operation's return type:
// the first 2xx response, else the default one.
func methodResponse(responses []*Response) *Response {
	for _, r := range responses {
		if strings.HasPrefix(r.Code, "2") {
			return r
		}
	}
	for _, r := range responses {
		if r.Code == "0" {
			return r
		}
	}
	return nil
}

// typeOf maps a schema to (dataType, baseType, containerType) using Java type
// names. Container is "array" or "map" for collection schemas, else "".
func typeOf(ref *openapi3.SchemaRef) (string, string, string) {
	if ref == nil {
		return "", "", ""
	}
	if ref.Ref != "" {
		name := refName(ref.Ref)
		return name, name, ""
	}
	s := ref.Value
	if s == nil {
		return "", "", ""
	}
	switch s.Type {
	case "array":
		_, inner, _ := typeOf(s.Items)
		if inner == "" {
			inner = "Object"
		}
		return "List<" + inner + ">", inner, "array"
	case "object", "":
		if s.AdditionalProperties.Schema != nil {
			_, inner, _ := typeOf(s.AdditionalProperties.Schema)
			if inner == "" {
				inner = "Object"
			}
			return "Map<String, " + inner + ">", inner, "map"
		}
		if s.Type == "" && len(s.Properties) == 0 {
			return "", "", ""
		}
		return "Object", "Object", ""
	}
	t := primitiveType(s.Type, s.Format)
	return t, t, ""
}

func primitiveType(typ, format string) string {
	switch typ {
	case "integer":
		if format == "int64" {
			return "Long"
		}
		return "Integer"
	case "number":
		switch format {
		case "float":
			return "Float"
		case "double":
			return "Double"
		}
		return "BigDecimal"
	case "boolean":
		return "Boolean"
	case "file":
		return "File"
	case "string":
		switch format {
		case "date", "date-time":
			return "Date"
		case "byte":
			return "byte[]"
		case "binary":
			return "File"
		}
		return "String"
	}
	return "Object"
}

func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// nickname derives an operation id such as "getPetsPetId" from "GET /pets/{petId}".
func nickname(method HttpMethod, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(string(method)))
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		r := []rune(seg)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func vendorExtensions(ext map[string]any) map[string]any {
	var out map[string]any
	for k, v := range ext {
		if !strings.HasPrefix(k, "x-") {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}

func firstNonEmpty(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return append([]string(nil), l...)
		}
	}
	return nil
}

func safeStr(s string) string { return strings.TrimSpace(s) }
