package spec

import "strings"

// repairV2Operations rewrites Swagger 2 operations that openapi2conv rejects,
// working on the generic decoded document in place:
//
//   - an operation mixing body and formData parameters has its body
//     parameters turned into formData parts and consumes multipart/form-data,
//     so the generator sees a single multipart request;
//   - an operation with several body parameters gets them merged into one
//     object-typed body.
//
// It reports whether anything changed.
func repairV2Operations(doc map[string]any) bool {
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		return false
	}
	changed := false
	for _, raw := range paths {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for method, rawOp := range item {
			if !isV2Method(method) {
				continue
			}
			op, ok := rawOp.(map[string]any)
			if !ok {
				continue
			}
			if repairV2Operation(op) {
				changed = true
			}
		}
	}
	return changed
}

func isV2Method(m string) bool {
	switch strings.ToLower(m) {
	case "get", "put", "post", "delete", "options", "head", "patch":
		return true
	}
	return false
}

func repairV2Operation(op map[string]any) bool {
	params, ok := op["parameters"].([]any)
	if !ok || len(params) == 0 {
		return false
	}

	bodies, hasForm := 0, false
	for _, p := range params {
		switch paramIn(p) {
		case "body":
			bodies++
		case "formdata":
			hasForm = true
		}
	}

	switch {
	case bodies > 0 && hasForm:
		out := make([]any, 0, len(params))
		for _, p := range params {
			if paramIn(p) == "body" {
				out = append(out, bodyToFormPart(p.(map[string]any)))
				continue
			}
			out = append(out, p)
		}
		op["parameters"] = out
		consumes, _ := op["consumes"].([]any)
		if !containsString(consumes, MimeMultipart) {
			op["consumes"] = append(consumes, MimeMultipart)
		}
		return true

	case bodies > 1:
		props := map[string]any{}
		var required []any
		rest := make([]any, 0, len(params))
		for _, p := range params {
			if paramIn(p) != "body" {
				rest = append(rest, p)
				continue
			}
			pm := p.(map[string]any)
			name := stringOr(pm["name"], "field")
			schema := paramSchema(pm)
			if schema == nil {
				schema = map[string]any{"type": TypeString}
			}
			props[name] = schema
			if req, _ := pm["required"].(bool); req {
				required = append(required, name)
			}
		}
		body := map[string]any{"type": TypeObject, "properties": props}
		if len(required) > 0 {
			body["required"] = required
		}
		op["parameters"] = append([]any{map[string]any{"in": "body", "name": "body", "schema": body}}, rest...)
		return true
	}
	return false
}

func paramIn(p any) string {
	pm, _ := p.(map[string]any)
	if pm == nil {
		return ""
	}
	return strings.ToLower(stringOr(pm["in"], ""))
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func containsString(list []any, want string) bool {
	for _, v := range list {
		if s, ok := v.(string); ok && s == want {
			return true
		}
	}
	return false
}

// paramSchema returns the body schema, or one synthesized from the
// parameter's own type, items and format.
func paramSchema(pm map[string]any) map[string]any {
	if s, ok := pm["schema"].(map[string]any); ok {
		return s
	}
	t := stringOr(pm["type"], "")
	if t == "" {
		return nil
	}
	s := map[string]any{"type": t}
	if items, ok := pm["items"].(map[string]any); ok {
		s["items"] = items
	}
	if f := stringOr(pm["format"], ""); f != "" {
		s["format"] = f
	}
	return s
}

// bodyToFormPart degrades a body parameter to a formData part. Referenced
// objects cannot be expressed as a form part and become strings.
func bodyToFormPart(pm map[string]any) map[string]any {
	part := map[string]any{
		"in":   "formData",
		"name": stringOr(pm["name"], "field"),
	}
	if d := stringOr(pm["description"], ""); d != "" {
		part["description"] = d
	}
	if req, ok := pm["required"].(bool); ok {
		part["required"] = req
	}

	typ := TypeString
	if s := paramSchema(pm); s != nil {
		if t := stringOr(s["type"], ""); t != "" {
			typ = t
		}
		if items, ok := s["items"].(map[string]any); ok {
			part["items"] = items
		}
		if f := stringOr(s["format"], ""); f != "" {
			part["format"] = f
		}
	}
	part["type"] = typ
	return part
}
