package csemitter

import (
	"path/filepath"
	"strings"

	"github.com/mark3labs/swagger2csharp/internal/naming"
	"github.com/mark3labs/swagger2csharp/internal/spec"
	"github.com/mark3labs/swagger2csharp/internal/template"
)

func (g *generator) buildComponents(doc *spec.Document) error {
	for _, c := range doc.Components {
		if err := g.buildComponent(c.Name, c.Schema); err != nil {
			if err := g.fail(c.Name, err); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildComponent emits one class for a component schema. Local schemas become
// <Name>Model in the models namespace; dotted names are split on the last dot
// into namespace and class and land under the components root.
func (g *generator) buildComponent(name string, s *spec.Schema) error {
	if s == nil {
		s = &spec.Schema{}
	}

	fields := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		field, err := g.componentField(s, p)
		if err != nil {
			return err
		}
		fields = append(fields, field)
	}

	ns, class, dir, kind := g.componentTarget(name, s.Ref)
	text := g.engine.Render(g.engine.Family().Text(template.Component), template.Context{
		Schema: s,
		Values: template.Values{
			"namespace": ns,
			"className": class,
			"fields":    strings.Join(fields, g.vars.Join(template.JoinFields)),
		},
	})
	return g.emit(Artifact{Kind: kind, Dir: dir, Name: class, Text: text})
}

func (g *generator) componentField(owner *spec.Schema, p spec.Property) (string, error) {
	typ, err := g.mapType(p.Schema, p.Name)
	if err != nil {
		return "", err
	}
	return g.block(template.ComponentField, template.Context{
		Schema: p.Schema,
		Values: template.Values{
			"required":   marker(owner.IsRequired(p.Name), g.vars.Required),
			"jsonName":   p.Name,
			"name":       naming.Normalize(p.Name),
			"type":       typ,
			"ignoreNull": marker(strings.HasSuffix(typ, "?"), g.vars.IgnoreNullValue),
		},
	}), nil
}

func (g *generator) componentTarget(name string, ref *spec.Reference) (ns, class, dir string, kind ArtifactKind) {
	base := g.cfg.ProjectName + "." + g.cfg.SubProjectName
	if ref == nil || !ref.External {
		return base + ".Models", name + modelSuffix, g.cfg.ModelsPath, KindModel
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		ns = name[:i]
		return ns, name[i+1:], filepath.Join(g.cfg.ComponentsPath, ns), KindComponent
	}
	return base, name, g.cfg.ComponentsPath, KindComponent
}
