package csemitter

import (
	"strings"

	"github.com/mark3labs/swagger2csharp/internal/naming"
	"github.com/mark3labs/swagger2csharp/internal/spec"
	"github.com/mark3labs/swagger2csharp/internal/template"
)

const (
	locationBody = "body"
	locationForm = "form"

	bodyFieldName = "RequestBody"
	bodyWireName  = "body"
)

// buildRequestClass emits the request class of op and returns its name, which
// is the operation's function name.
func (g *generator) buildRequestClass(path string, op *spec.Operation) (string, error) {
	name, err := functionName(path, op)
	if err != nil {
		return "", err
	}

	var fields []string
	for _, p := range op.Parameters {
		switch p.In {
		case spec.InQuery, spec.InPath:
		default:
			return "", unsupported("parameter %q: location %q is not supported", p.Name, p.In)
		}
		field, err := g.requestField(p.Name, p.Schema, p.In, p.Required)
		if err != nil {
			return "", err
		}
		fields = append(fields, field)
	}

	if op.RequestBody != nil {
		for _, m := range op.RequestBody.Content {
			switch m.Mime {
			case spec.MimeMultipart:
				if m.Schema == nil {
					continue
				}
				for _, prop := range m.Schema.Properties {
					field, err := g.requestField(prop.Name, prop.Schema, locationForm, m.Schema.IsRequired(prop.Name))
					if err != nil {
						return "", err
					}
					fields = append(fields, field)
				}
			case spec.MimeJSON:
				typ, err := g.mapType(m.Schema, bodyFieldName)
				if err != nil {
					return "", err
				}
				fields = append(fields, g.fieldBlock(locationBody, bodyWireName, bodyFieldName, typ, false))
			}
		}
	}

	text := g.engine.Render(g.engine.Family().Text(template.RequestModel), template.Context{
		Operation: op,
		Values: template.Values{
			"requestName": name,
			"fields":      strings.Join(fields, g.vars.Join(template.JoinFields)),
		},
	})
	if err := g.emit(Artifact{Kind: KindRequest, Dir: g.cfg.RequestsPath, Name: name, Text: text}); err != nil {
		return "", err
	}
	return name, nil
}

func (g *generator) requestField(wire string, s *spec.Schema, location string, required bool) (string, error) {
	name := naming.Normalize(wire)
	typ, err := g.mapType(s, name)
	if err != nil {
		return "", err
	}
	return g.fieldBlock(location, wire, name, typ, required), nil
}

func (g *generator) fieldBlock(location, wire, name, typ string, required bool) string {
	return g.block(template.RequestField, template.Context{Values: template.Values{
		"location": g.vars.Locations[location],
		"jsonName": wire,
		"required": marker(required, g.vars.Required),
		"name":     name,
		"type":     typ,
	}})
}
