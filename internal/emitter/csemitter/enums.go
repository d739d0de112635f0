package csemitter

import (
	"strconv"
	"strings"

	"github.com/mark3labs/swagger2csharp/internal/naming"
	"github.com/mark3labs/swagger2csharp/internal/spec"
	"github.com/mark3labs/swagger2csharp/internal/template"
)

const emptyMemberName = "Empty"

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// registerAndEmitEnum writes one enum artifact for s. Members take their
// declared position as value. Every call emits, even for an enum identical to
// one already written.
func (g *generator) registerAndEmitEnum(s *spec.Schema, hint string) error {
	base := naming.Normalize(hint)
	enumName := base + enumSuffix

	literals := make([]string, len(s.Enum))
	for i, v := range s.Enum {
		str, ok := v.(string)
		if !ok {
			return unsupported("enum %s: literal %v at position %d is %T, only strings are supported", enumName, v, i, v)
		}
		literals[i] = str
	}

	names := memberNames(literals)
	members := make([]string, len(literals))
	for i, lit := range literals {
		members[i] = g.block(template.EnumMember, template.Context{Values: template.Values{
			"memberName": names[i],
			"value":      literalEscaper.Replace(lit),
			"ordinal":    strconv.Itoa(i),
		}})
	}

	text := g.engine.Render(g.engine.Family().Text(template.Enum), template.Context{
		Schema: s,
		Values: template.Values{
			"enumName": enumName,
			"members":  strings.Join(members, g.vars.Join(template.JoinMembers)),
		},
	})
	return g.emit(Artifact{Kind: KindEnum, Dir: g.cfg.EnumsPath, Name: base + "Enums", Text: text})
}

// memberNames derives unique identifiers for enum literals. A name already
// taken gets the spelled-out position appended until it is free.
func memberNames(literals []string) []string {
	out := make([]string, len(literals))
	used := make(map[string]bool, len(literals))
	for i, lit := range literals {
		name := naming.Normalize(lit, naming.DigitsToWords())
		if name == "" {
			name = emptyMemberName
		}
		suffix := naming.Normalize(strconv.Itoa(i), naming.DigitsToWords())
		for used[name] {
			name += suffix
		}
		used[name] = true
		out[i] = name
	}
	return out
}
