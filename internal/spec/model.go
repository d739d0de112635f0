package spec

// Document model consumed by the code emitters. It is a trimmed, ordered view of
// an OpenAPI document limited to the constructs the generator understands.

type HttpMethod string

const (
	GET     HttpMethod = "get"
	PUT     HttpMethod = "put"
	POST    HttpMethod = "post"
	DELETE  HttpMethod = "delete"
	OPTIONS HttpMethod = "options"
	HEAD    HttpMethod = "head"
	PATCH   HttpMethod = "patch"
	TRACE   HttpMethod = "trace"
)

// Token returns the method as it appears in generated names, e.g. "Get".
func (m HttpMethod) Token() string {
	if m == "" {
		return ""
	}
	s := string(m)
	return string(s[0]-'a'+'A') + s[1:]
}

// Parameter locations the generator supports.
const (
	InQuery = "query"
	InPath  = "path"
)

// Content types the request builder recognizes.
const (
	MimeJSON      = "application/json"
	MimeMultipart = "multipart/form-data"
)

// Schema types.
const (
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeString  = "string"
	TypeFile    = "file"
	TypeObject  = "object"
	TypeNumber  = "number"
	TypeArray   = "array"
)

type Document struct {
	Title      string
	Version    string
	Paths      []PathItem    // sorted by path
	Components []NamedSchema // sorted by name; nil when the document has no components
}

type NamedSchema struct {
	Name   string
	Schema *Schema
}

type PathItem struct {
	Path       string
	Operations []Operation // fixed method order
}

type Operation struct {
	Method      HttpMethod
	OperationID string
	Summary     string
	Description string
	Deprecated  bool
	Parameters  []Parameter // declared order, path-level parameters first
	RequestBody *RequestBody
	Responses   map[string]*Response // by status code
}

type Parameter struct {
	Name        string
	In          string
	Description string
	Required    bool
	Schema      *Schema
}

type RequestBody struct {
	Content []Media // sorted by mime
}

// Media returns the entry for mime, or nil.
func (rb *RequestBody) Media(mime string) *Media {
	if rb == nil {
		return nil
	}
	return findMedia(rb.Content, mime)
}

type Response struct {
	Description string
	Content     []Media
}

// Media returns the entry for mime, or nil.
func (r *Response) Media(mime string) *Media {
	if r == nil {
		return nil
	}
	return findMedia(r.Content, mime)
}

type Media struct {
	Mime   string
	Schema *Schema
}

func findMedia(content []Media, mime string) *Media {
	for i := range content {
		if content[i].Mime == mime {
			return &content[i]
		}
	}
	return nil
}

type Schema struct {
	Type        string
	Format      string
	Description string
	Ref         *Reference
	Enum        []any // declared order
	Items       *Schema
	Properties  []Property // sorted by name
	Required    []string
	Nullable    bool
	Deprecated  bool
}

// IsRequired reports whether name is listed in the schema's required set.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

type Property struct {
	Name   string
	Schema *Schema
}

// Reference is a rewritten $ref. ID is the referenced component name; External
// is set when the target lives outside this document's component map.
type Reference struct {
	ID       string
	External bool
}
