// Package settings holds the flat configuration record consumed by a
// generation run and the static field table used to populate it from config
// files, the environment and command-line flags.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gobuffalo/flect"
	"github.com/spf13/pflag"
	"github.com/stoewer/go-strcase"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "SWAGGER2CSHARP_"

// Settings is the configuration for one run. It is populated once and then
// treated as read-only.
type Settings struct {
	URL            string
	APIName        string
	ProjectName    string
	SubProjectName string
	APIPath        string
	ComponentsPath string
	RequestsPath   string
	TestsPath      string
	EnumsPath      string
	ModelsPath     string
	Template       string
	TemplateDir    string
}

// Field describes one settings entry for config files, env vars, flags and
// any presentation layer.
type Field struct {
	Key     string
	Help    string
	Default string
	ref     func(*Settings) *string
}

// Label is a human readable name for the field.
func (f Field) Label() string { return flect.Humanize(strcase.SnakeCase(f.Key)) }

// Flag is the command-line flag name.
func (f Field) Flag() string { return strcase.KebabCase(f.Key) }

// Env is the environment variable name.
func (f Field) Env() string { return EnvPrefix + strcase.UpperSnakeCase(f.Key) }

func (f Field) Get(s *Settings) string { return *f.ref(s) }

func (f Field) Set(s *Settings, v string) { *f.ref(s) = strings.TrimSpace(v) }

// Fields lists every setting in presentation order.
var Fields = []Field{
	{Key: "url", Help: "URL or path of the OpenAPI/Swagger document", ref: func(s *Settings) *string { return &s.URL }},
	{Key: "apiName", Help: "API class name; derived from the document title when empty", ref: func(s *Settings) *string { return &s.APIName }},
	{Key: "projectName", Help: "Root namespace of the generated code", Default: "Generated", ref: func(s *Settings) *string { return &s.ProjectName }},
	{Key: "subProjectName", Help: "Second namespace segment of the generated code", Default: "Client", ref: func(s *Settings) *string { return &s.SubProjectName }},
	{Key: "apiPath", Help: "Output directory for the API class", Default: "Generated/Api", ref: func(s *Settings) *string { return &s.APIPath }},
	{Key: "componentsPath", Help: "Output root for namespaced component classes", Default: "Generated/Components", ref: func(s *Settings) *string { return &s.ComponentsPath }},
	{Key: "requestsPath", Help: "Output directory for request classes", Default: "Requests", ref: func(s *Settings) *string { return &s.RequestsPath }},
	{Key: "testsPath", Help: "Output directory for the API test class", Default: "Generated/Tests", ref: func(s *Settings) *string { return &s.TestsPath }},
	{Key: "enumsPath", Help: "Output directory for enum types", Default: "Generated/Enums", ref: func(s *Settings) *string { return &s.EnumsPath }},
	{Key: "modelsPath", Help: "Output directory for local model classes", Default: "Models", ref: func(s *Settings) *string { return &s.ModelsPath }},
	{Key: "template", Help: "Template family", Default: "csharp", ref: func(s *Settings) *string { return &s.Template }},
	{Key: "templateDir", Help: "Directory holding template families; the embedded families are used when empty", ref: func(s *Settings) *string { return &s.TemplateDir }},
}

// Lookup finds a field by key. Case, dashes and underscores are ignored.
func Lookup(key string) (Field, bool) {
	want := normalizeKey(key)
	for _, f := range Fields {
		if normalizeKey(f.Key) == want {
			return f, true
		}
	}
	return Field{}, false
}

func Defaults() Settings {
	var s Settings
	for _, f := range Fields {
		f.Set(&s, f.Default)
	}
	return s
}

// ApplyFile overlays the YAML mapping at path onto s. Unknown keys and
// non-scalar values are rejected.
func ApplyFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	for key, value := range raw {
		f, ok := Lookup(key)
		if !ok {
			return fmt.Errorf("config file %q: unknown field %q", path, key)
		}
		str, err := valueAsString(value)
		if err != nil {
			return fmt.Errorf("config field %q: %w", key, err)
		}
		f.Set(s, str)
	}
	return nil
}

// ApplyEnv overlays variables named by Field.Env. lookup is usually os.LookupEnv.
func ApplyEnv(s *Settings, lookup func(string) (string, bool)) {
	for _, f := range Fields {
		if v, ok := lookup(f.Env()); ok {
			f.Set(s, v)
		}
	}
}

// RegisterFlags adds one string flag per field.
func RegisterFlags(flags *pflag.FlagSet) {
	for _, f := range Fields {
		flags.String(f.Flag(), "", f.Help)
	}
}

// ApplyFlags overlays flags the user actually set.
func ApplyFlags(s *Settings, flags *pflag.FlagSet) error {
	for _, f := range Fields {
		if !flags.Changed(f.Flag()) {
			continue
		}
		v, err := flags.GetString(f.Flag())
		if err != nil {
			return err
		}
		f.Set(s, v)
	}
	return nil
}

// ResolveAPIName fills an empty APIName from the document title.
func (s *Settings) ResolveAPIName(title string) {
	if s.APIName != "" {
		return
	}
	s.APIName = strcase.UpperCamelCase(title)
	if s.APIName == "" {
		s.APIName = "Api"
	}
}

func (s Settings) Validate() error {
	var missing []string
	for _, f := range Fields {
		switch f.Key {
		case "apiName", "templateDir":
			continue
		}
		if f.Get(&s) == "" {
			missing = append(missing, f.Key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SampleYAML renders a commented config file listing every field.
func SampleYAML() string {
	var b strings.Builder
	b.WriteString("# swagger2csharp configuration\n")
	b.WriteString("# Flags override environment variables, which override this file.\n")
	for _, f := range Fields {
		fmt.Fprintf(&b, "\n# %s: %s (env %s)\n", f.Label(), f.Help, f.Env())
		if f.Default == "" {
			fmt.Fprintf(&b, "# %s: \"\"\n", f.Key)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", f.Key, f.Default)
	}
	return b.String()
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

var errNotScalar = errors.New("expected a string")

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	case int, bool, float64:
		return fmt.Sprint(val), nil
	default:
		return "", fmt.Errorf("%w, got %T", errNotScalar, v)
	}
}
