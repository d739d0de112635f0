package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed families
var embedded embed.FS

// Template resource names. Every family must provide all of them.
const (
	API              = "ApiTemplate"
	APIFunction      = "ApiFunctionTemplate"
	APITest          = "ApiTestTemplate"
	APITestFunction  = "ApiTestFunctionTemplate"
	RequestModel     = "RequestModelTemplate"
	RequestField     = "RequestFieldTemplate"
	Component        = "ComponentTemplate"
	ComponentField   = "ComponentFieldTemplate"
	Enum             = "EnumTemplate"
	EnumMember       = "EnumMemberTemplate"
	configResource   = "config.yaml"
	templateFileType = ".txt"
)

var templateNames = []string{
	API, APIFunction, APITest, APITestFunction,
	RequestModel, RequestField,
	Component, ComponentField,
	Enum, EnumMember,
}

// Primitive type keys looked up in Variables.Types.
const (
	TypeInt64   = "int64"
	TypeInt32   = "int32"
	TypeBoolean = "boolean"
	TypeString  = "string"
	TypeFile    = "file"
	TypeObject  = "object"
	TypeDouble  = "double"
	TypeDecimal = "decimal"
)

var typeKeys = []string{TypeInt64, TypeInt32, TypeBoolean, TypeString, TypeFile, TypeObject, TypeDouble, TypeDecimal}

// Join keys looked up in Variables.Joins.
const (
	JoinFunctions     = "functions"
	JoinFields        = "fields"
	JoinMembers       = "members"
	JoinTestRequests  = "testRequests"
	JoinTestFunctions = "testFunctions"
)

// DefaultFamily is the only family shipped with the binary.
const DefaultFamily = "csharp"

// ErrResourceMissing is wrapped by every error caused by an absent or
// unreadable template or configuration resource.
var ErrResourceMissing = errors.New("template resource missing")

// Variables are the family-scoped constants read from config.yaml.
type Variables struct {
	Extension        string            `yaml:"extension"`
	Required         string            `yaml:"required"`
	Deprecated       string            `yaml:"deprecated"`
	Nullable         string            `yaml:"nullable"`
	IgnoreNullValue  string            `yaml:"ignoreNullValue"`
	DescriptionJoin  string            `yaml:"descriptionJoin"`
	TestRequestField string            `yaml:"testRequestField"`
	Locations        map[string]string `yaml:"locations"`
	Types            map[string]string `yaml:"types"`
	Joins            map[string]string `yaml:"joins"`
}

// Family is a loaded template family: its templates plus its Variables.
type Family struct {
	Name      string
	Vars      Variables
	templates map[string]string
}

// Text returns the named template. Families are validated on load, so every
// name in this package resolves.
func (f *Family) Text(name string) string { return f.templates[name] }

// Families lists the families embedded in the binary.
func Families() []string {
	entries, err := fs.ReadDir(embedded, "families")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out
}

// Load reads family name from dir, or from the embedded families when dir is
// empty. dir uses the embedded layout: <dir>/<name>/<Resource>.txt.
func Load(name, dir string) (*Family, error) {
	if name == "" {
		name = DefaultFamily
	}
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embedded, "families")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}
	return LoadFS(fsys, name)
}

// LoadFS reads family name from fsys. All resources are read up front so a
// missing one fails the run before anything is generated.
func LoadFS(fsys fs.FS, name string) (*Family, error) {
	f := &Family{Name: name, templates: make(map[string]string, len(templateNames))}

	raw, err := fs.ReadFile(fsys, path.Join(name, configResource))
	if err != nil {
		return nil, fmt.Errorf("%w: family %q: %s: %v", ErrResourceMissing, name, configResource, err)
	}
	if err := yaml.Unmarshal(raw, &f.Vars); err != nil {
		return nil, fmt.Errorf("%w: family %q: parse %s: %v", ErrResourceMissing, name, configResource, err)
	}
	if err := f.Vars.validate(); err != nil {
		return nil, fmt.Errorf("%w: family %q: %s: %v", ErrResourceMissing, name, configResource, err)
	}

	for _, t := range templateNames {
		b, err := fs.ReadFile(fsys, path.Join(name, t+templateFileType))
		if err != nil {
			return nil, fmt.Errorf("%w: family %q: %s%s: %v", ErrResourceMissing, name, t, templateFileType, err)
		}
		f.templates[t] = string(b)
	}
	return f, nil
}

func (v *Variables) validate() error {
	if v.Extension == "" {
		return errors.New("extension is required")
	}
	for _, k := range typeKeys {
		if _, ok := v.Types[k]; !ok {
			return fmt.Errorf("types.%s is required", k)
		}
	}
	if v.Locations == nil {
		v.Locations = map[string]string{}
	}
	if v.Joins == nil {
		v.Joins = map[string]string{}
	}
	return nil
}

// Join returns the separator configured for key, or a newline.
func (v Variables) Join(key string) string {
	if s, ok := v.Joins[key]; ok {
		return s
	}
	return "\n"
}
