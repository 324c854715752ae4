package spec

// Internal model handed from the builder to the JAX-RS pass and, once enriched,
// to the renderer. Empty strings stand in for absent values throughout.

type HttpMethod string

const (
	GET     HttpMethod = "GET"
	PUT     HttpMethod = "PUT"
	POST    HttpMethod = "POST"
	DELETE  HttpMethod = "DELETE"
	OPTIONS HttpMethod = "OPTIONS"
	HEAD    HttpMethod = "HEAD"
	PATCH   HttpMethod = "PATCH"
)

// Methods lists the HTTP methods in the order operations are laid out per path.
var Methods = []HttpMethod{GET, PUT, POST, DELETE, OPTIONS, HEAD, PATCH}

// Specification is the root document. BasePath may be "" or "/" before
// preprocessing; Host uses the "host:port" form when a port is given.
type Specification struct {
	Title       string      `json:"title,omitempty"`
	Version     string      `json:"version,omitempty"`
	Description string      `json:"description,omitempty"`
	BasePath    string      `json:"basePath"`
	Host        string      `json:"host,omitempty"`
	Schemes     []string    `json:"schemes,omitempty"`
	Consumes    []string    `json:"consumes,omitempty"`
	Produces    []string    `json:"produces,omitempty"`
	Paths       []*PathItem `json:"paths"`
}

// Operations returns every operation in path order, then method order.
func (s *Specification) Operations() []*Operation {
	if s == nil {
		return nil
	}
	var ops []*Operation
	for _, item := range s.Paths {
		if item == nil {
			continue
		}
		for _, op := range item.Operations {
			if op != nil {
				ops = append(ops, op)
			}
		}
	}
	return ops
}

type PathItem struct {
	Path       string       `json:"path"`
	Operations []*Operation `json:"operations"`
}

// Operation maps to one endpoint+method pair. Tags keeps the document order
// until the preprocessor collapses it to the primary tag.
type Operation struct {
	ID              string       `json:"operationId"`
	Method          HttpMethod   `json:"httpMethod"`
	Path            string       `json:"path"`
	Summary         string       `json:"summary,omitempty"`
	Description     string       `json:"notes,omitempty"`
	Deprecated      bool         `json:"isDeprecated,omitempty"`
	Tags            []string     `json:"tags,omitempty"`
	Consumes        []string     `json:"consumes,omitempty"`
	Produces        []string     `json:"produces,omitempty"`
	Parameters      []*Parameter `json:"allParams,omitempty"`
	Responses       []*Response  `json:"responses,omitempty"`
	ReturnType      string       `json:"returnType,omitempty"`
	ReturnBaseType  string       `json:"returnBaseType,omitempty"`
	ReturnContainer string       `json:"returnContainer,omitempty"`
	IsMultipart     bool         `json:"isMultipart,omitempty"`
	Extensions      Extensions   `json:"vendorExtensions"`
}

type Parameter struct {
	Name        string     `json:"paramName"`
	In          string     `json:"in"` // path|query|header|formData|body
	Required    bool       `json:"required,omitempty"`
	Description string     `json:"description,omitempty"`
	DataType    string     `json:"dataType,omitempty"`
	BaseType    string     `json:"baseType,omitempty"`
	IsContainer bool       `json:"isContainer,omitempty"`
	Extensions  Extensions `json:"vendorExtensions"`
}

// Response.Code is "0" for the document's "default" response until the
// postprocessor rewrites it.
type Response struct {
	Code          string     `json:"code"`
	Message       string     `json:"message,omitempty"`
	DataType      string     `json:"dataType,omitempty"`
	BaseType      string     `json:"baseType,omitempty"`
	ContainerType string     `json:"containerType,omitempty"`
	Extensions    Extensions `json:"vendorExtensions"`
}

// ExceptionDescriptor names the JAX-RS exception a generated service throws for
// a response code. Values are shared by pointer and never modified.
type ExceptionDescriptor struct {
	ClassName    string `json:"className" yaml:"className"`
	SimpleName   string `json:"classSimpleName" yaml:"classSimpleName"`
	IsChildClass bool   `json:"isChildClass,omitempty" yaml:"isChildClass,omitempty"`
}
