package spec

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const localSchemaPrefix = "#/components/schemas/"

// BuildDocument converts a loaded OpenAPI v3 document into the generator's
// Document model. Paths, component names, property names and content types are
// sorted so that repeated runs produce identical output.
func BuildDocument(ctx context.Context, doc *openapi3.T) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Document{}
	if doc.Info != nil {
		out.Title = safeStr(doc.Info.Title)
		out.Version = safeStr(doc.Info.Version)
	}

	if doc.Components != nil && len(doc.Components.Schemas) > 0 {
		names := make([]string, 0, len(doc.Components.Schemas))
		for name := range doc.Components.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)
		out.Components = make([]NamedSchema, 0, len(names))
		for _, name := range names {
			ref := doc.Components.Schemas[name]
			if ref == nil {
				continue
			}
			s := newConverter().component(name, ref)
			out.Components = append(out.Components, NamedSchema{Name: name, Schema: s})
		}
	}

	pathKeys := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, p := range pathKeys {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		pi := PathItem{Path: p}

		ops := []struct {
			m HttpMethod
			o *openapi3.Operation
		}{
			{GET, item.Get},
			{PUT, item.Put},
			{POST, item.Post},
			{DELETE, item.Delete},
			{OPTIONS, item.Options},
			{HEAD, item.Head},
			{PATCH, item.Patch},
			{TRACE, item.Trace},
		}
		for _, pair := range ops {
			if pair.o == nil {
				continue
			}
			pi.Operations = append(pi.Operations, toOperation(pair.m, item.Parameters, pair.o))
		}
		out.Paths = append(out.Paths, pi)
	}

	return out, nil
}

func toOperation(m HttpMethod, shared openapi3.Parameters, o *openapi3.Operation) Operation {
	op := Operation{
		Method:      m,
		OperationID: safeStr(o.OperationID),
		Summary:     safeStr(o.Summary),
		Description: o.Description,
		Deprecated:  o.Deprecated,
	}

	// Path-level parameters come first unless the operation overrides them.
	overridden := make(map[string]struct{}, len(o.Parameters))
	for _, pref := range o.Parameters {
		if pref != nil && pref.Value != nil {
			overridden[paramKey(pref.Value.In, pref.Value.Name)] = struct{}{}
		}
	}
	for _, pref := range shared {
		pm := toParameter(pref)
		if pm == nil {
			continue
		}
		if _, ok := overridden[paramKey(pm.In, pm.Name)]; ok {
			continue
		}
		op.Parameters = append(op.Parameters, *pm)
	}
	for _, pref := range o.Parameters {
		if pm := toParameter(pref); pm != nil {
			op.Parameters = append(op.Parameters, *pm)
		}
	}

	if o.RequestBody != nil && o.RequestBody.Value != nil {
		op.RequestBody = &RequestBody{Content: toMediaList(o.RequestBody.Value.Content)}
	}

	if len(o.Responses) > 0 {
		op.Responses = make(map[string]*Response, len(o.Responses))
		for code, rref := range o.Responses {
			if rref == nil || rref.Value == nil {
				op.Responses[code] = &Response{}
				continue
			}
			r := &Response{Content: toMediaList(rref.Value.Content)}
			if rref.Value.Description != nil {
				r.Description = *rref.Value.Description
			}
			op.Responses[code] = r
		}
	}
	return op
}

func paramKey(in, name string) string { return in + ":" + name }

func safeStr(s string) string { return strings.TrimSpace(s) }

func toParameter(pref *openapi3.ParameterRef) *Parameter {
	if pref == nil || pref.Value == nil {
		return nil
	}
	p := pref.Value
	pm := &Parameter{
		Name:        safeStr(p.Name),
		In:          safeStr(p.In),
		Description: p.Description,
		Required:    p.Required,
	}
	if p.Schema != nil {
		pm.Schema = newConverter().schema(p.Schema)
	}
	return pm
}

func toMediaList(content openapi3.Content) []Media {
	if len(content) == 0 {
		return nil
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Media, 0, len(keys))
	for _, mime := range keys {
		mt := content[mime]
		if mt == nil {
			continue
		}
		m := Media{Mime: mime}
		switch {
		case mt.Schema == nil:
		case mime == MimeMultipart:
			// Form parts are flattened into fields, so a referenced form
			// schema is expanded in place.
			m.Schema = newConverter().inline(mt.Schema.Value)
			if mt.Schema.Ref != "" {
				m.Schema.Ref = toReference(mt.Schema.Ref)
			}
			markFileParts(m.Schema)
		default:
			m.Schema = newConverter().schema(mt.Schema)
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// markFileParts surfaces binary form parts as "file". Swagger 2 `type: file`
// form parameters arrive in this shape after conversion to v3.
func markFileParts(s *Schema) {
	if s == nil {
		return
	}
	for _, p := range s.Properties {
		if p.Schema != nil && p.Schema.Type == TypeString && p.Schema.Format == "binary" {
			p.Schema.Type = TypeFile
			p.Schema.Format = ""
		}
	}
}

// converter turns kin-openapi schemas into Schema values. Referenced schemas
// are converted shallowly; the visiting set breaks array self-references.
type converter struct {
	visiting map[*openapi3.Schema]bool
}

func newConverter() *converter {
	return &converter{visiting: make(map[*openapi3.Schema]bool)}
}

func (c *converter) component(name string, ref *openapi3.SchemaRef) *Schema {
	s := c.inline(ref.Value)
	// A component is addressed by its own name, whatever it points at.
	s.Ref = &Reference{ID: name, External: strings.Contains(name, ".")}
	return s
}

func (c *converter) schema(ref *openapi3.SchemaRef) *Schema {
	if ref == nil {
		return nil
	}
	if ref.Ref == "" {
		return c.inline(ref.Value)
	}

	s := &Schema{Ref: toReference(ref.Ref)}
	v := ref.Value
	if v == nil {
		return s
	}
	s.Type = safeStr(v.Type)
	s.Format = safeStr(v.Format)
	s.Description = v.Description
	s.Nullable = v.Nullable
	s.Deprecated = v.Deprecated
	if len(v.Enum) > 0 {
		s.Enum = append([]any(nil), v.Enum...)
	}
	if v.Items != nil && !c.visiting[v] {
		c.visiting[v] = true
		s.Items = c.schema(v.Items)
		delete(c.visiting, v)
	}
	return s
}

func (c *converter) inline(v *openapi3.Schema) *Schema {
	if v == nil {
		return &Schema{}
	}
	if c.visiting[v] {
		return &Schema{Type: safeStr(v.Type), Format: safeStr(v.Format)}
	}
	c.visiting[v] = true
	defer delete(c.visiting, v)

	s := &Schema{
		Type:        safeStr(v.Type),
		Format:      safeStr(v.Format),
		Description: v.Description,
		Nullable:    v.Nullable,
		Deprecated:  v.Deprecated,
		Required:    append([]string(nil), v.Required...),
	}
	if len(v.Enum) > 0 {
		s.Enum = append([]any(nil), v.Enum...)
	}
	if v.Items != nil {
		s.Items = c.schema(v.Items)
	}
	if len(v.Properties) > 0 {
		keys := make([]string, 0, len(v.Properties))
		for name := range v.Properties {
			keys = append(keys, name)
		}
		sort.Strings(keys)
		s.Properties = make([]Property, 0, len(keys))
		for _, name := range keys {
			s.Properties = append(s.Properties, Property{Name: name, Schema: c.schema(v.Properties[name])})
		}
	}
	return s
}

// toReference rewrites a $ref into a component id. Refs into this document's
// components are local unless the id itself is namespaced with a dot.
func toReference(ref string) *Reference {
	doc, frag, hasFrag := strings.Cut(ref, "#")
	var id string
	switch {
	case hasFrag && frag != "":
		id = frag[strings.LastIndex(frag, "/")+1:]
	default:
		base := path.Base(doc)
		id = strings.TrimSuffix(base, path.Ext(base))
	}
	local := doc == "" && strings.HasPrefix(ref, localSchemaPrefix)
	return &Reference{ID: id, External: !local || strings.Contains(id, ".")}
}
