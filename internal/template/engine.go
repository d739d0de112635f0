package template

import (
	"regexp"
	"strings"

	"github.com/mark3labs/swagger2csharp/internal/spec"
)

// Tokens understood by the optional-block passes and the base pass.
const (
	TokenProjectName    = "projectName"
	TokenSubProjectName = "subProjectName"
	TokenAPIName        = "apiName"
	TokenDeprecated     = "deprecated"
	TokenDescription    = "description"
	TokenNullable       = "nullable"
)

var tokenPattern = regexp.MustCompile(`\[@([A-Za-z][A-Za-z0-9]*)\]`)

// Values maps token names (without the [@ ] markers) to replacement text.
type Values map[string]string

// Context carries what a single render call may draw values from. Values
// override schema-derived values, which override operation-derived ones.
type Context struct {
	Operation *spec.Operation
	Schema    *spec.Schema
	Values    Values
}

// Identity is the project identity substituted into every template.
type Identity struct {
	ProjectName    string
	SubProjectName string
	APIName        string
}

// Engine renders family templates. It holds no per-render state and is safe
// to reuse.
type Engine struct {
	family *Family
	base   Values
}

func NewEngine(f *Family, id Identity) *Engine {
	return &Engine{
		family: f,
		base: Values{
			TokenProjectName:    id.ProjectName,
			TokenSubProjectName: id.SubProjectName,
			TokenAPIName:        id.APIName,
		},
	}
}

func (e *Engine) Family() *Family { return e.family }

// RenderBase substitutes only the project identity.
func (e *Engine) RenderBase(text string) string {
	return render(text, e.base)
}

// Render substitutes the identity plus everything ctx provides. Tokens with no
// value are left in place.
func (e *Engine) Render(text string, ctx Context) string {
	vals := make(Values, len(e.base)+len(ctx.Values)+3)
	for k, v := range e.base {
		vals[k] = v
	}
	if op := ctx.Operation; op != nil {
		vals[TokenDeprecated] = e.marker(op.Deprecated, e.family.Vars.Deprecated)
		desc := op.Description
		if strings.TrimSpace(desc) == "" {
			desc = op.Summary
		}
		vals[TokenDescription] = e.Description(desc)
	}
	if s := ctx.Schema; s != nil {
		vals[TokenDeprecated] = e.marker(s.Deprecated, e.family.Vars.Deprecated)
		vals[TokenDescription] = e.Description(s.Description)
		vals[TokenNullable] = e.marker(s.Nullable, e.family.Vars.Nullable)
	}
	for k, v := range ctx.Values {
		vals[k] = v
	}
	return render(text, vals)
}

// Description trims every line of raw and rejoins them with the family's
// description join token.
func (e *Engine) Description(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	lines := splitLines(raw)
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, e.family.Vars.DescriptionJoin)
}

func (e *Engine) marker(set bool, text string) string {
	if set {
		return text
	}
	return ""
}

var newlines = strings.NewReplacer("\r\n", "\n", "\n\r", "\n", "\r", "\n")

func splitLines(s string) []string {
	return strings.Split(newlines.Replace(s), "\n")
}

// render is a single pass over text: substituted values are never rescanned.
// A line made only of known tokens that all rendered empty is dropped, and
// multi-line values are indented to the line they were placed on.
func render(text string, vals Values) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, line := range strings.SplitAfter(text, "\n") {
		body := strings.TrimRight(line, "\r\n")
		eol := line[len(body):]
		locs := tokenPattern.FindAllStringSubmatchIndex(body, -1)
		if len(locs) == 0 {
			b.WriteString(line)
			continue
		}

		indent := body[:len(body)-len(strings.TrimLeft(body, " \t"))]
		tokensOnly := strings.TrimSpace(tokenPattern.ReplaceAllString(body, "")) == ""
		empty := true

		var out strings.Builder
		last := 0
		for _, loc := range locs {
			out.WriteString(body[last:loc[0]])
			last = loc[1]
			v, ok := vals[body[loc[2]:loc[3]]]
			if !ok {
				out.WriteString(body[loc[0]:loc[1]])
				empty = false
				continue
			}
			if v != "" {
				empty = false
			}
			out.WriteString(indentContinuation(v, indent))
		}
		out.WriteString(body[last:])

		if tokensOnly && empty {
			continue
		}
		b.WriteString(trimLines(out.String()))
		b.WriteString(eol)
	}
	return b.String()
}

// trimLines drops trailing blanks from every line of a rendered template line,
// such as a doc comment prefix left behind by an empty description.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

func indentContinuation(v, indent string) string {
	if indent == "" || !strings.Contains(v, "\n") {
		return v
	}
	lines := strings.Split(v, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
