package csemitter

import (
	"github.com/mark3labs/swagger2csharp/internal/naming"
	"github.com/mark3labs/swagger2csharp/internal/spec"
	"github.com/mark3labs/swagger2csharp/internal/template"
)

// Fixed type names and suffixes of the target language.
const (
	notImplementedType = "NotImplemented"
	voidResponseType   = "VoidResponse"
	modelSuffix        = "Model"
	enumSuffix         = "Enum"
	arraySuffix        = "[]"
)

// mapType names the target type for s. hint names any enum registered on the
// way. Shapes with no mapping rule yield NotImplemented rather than an error so
// they surface when the generated code is compiled.
func (g *generator) mapType(s *spec.Schema, hint string) (string, error) {
	if s == nil {
		return notImplementedType, nil
	}

	if len(s.Enum) > 0 {
		if err := g.registerAndEmitEnum(s, hint); err != nil {
			return "", err
		}
		name := naming.Normalize(hint) + enumSuffix
		if s.Type == spec.TypeArray {
			name += arraySuffix
		}
		return name, nil
	}

	types := g.vars.Types
	switch s.Type {
	case spec.TypeInteger:
		if s.Format == "int64" {
			return types[template.TypeInt64], nil
		}
		return types[template.TypeInt32], nil
	case spec.TypeBoolean:
		return types[template.TypeBoolean], nil
	case spec.TypeString:
		return types[template.TypeString], nil
	case spec.TypeFile:
		return types[template.TypeFile], nil
	case spec.TypeObject:
		if s.Ref == nil {
			return types[template.TypeObject], nil
		}
		if s.Ref.External {
			return s.Ref.ID, nil
		}
		return s.Ref.ID + modelSuffix, nil
	case spec.TypeNumber:
		if s.Format == "double" {
			return types[template.TypeDouble], nil
		}
		return types[template.TypeDecimal], nil
	case spec.TypeArray:
		if s.Items == nil {
			return "", unsupported("array %q has neither items nor enum", hint)
		}
		item, err := g.mapType(s.Items, hint)
		if err != nil {
			return "", err
		}
		return item + arraySuffix, nil
	}

	g.log.Debug("no type mapping", "type", s.Type, "hint", hint)
	return notImplementedType, nil
}
