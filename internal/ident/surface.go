package ident

import (
	"fmt"
	"strings"

	"github.com/1homsi/tsparam/languages"
	"gopkg.in/yaml.v3"
)

// Surface holds the per-language search scope the planner and executor use:
// which globs cover source and test files and which path prefixes count as
// test code. It is loaded from a languages/*.yaml file via LoadSurface.
type Surface struct {
	Name         string
	SourceGlob   string
	TestGlob     string
	AllGlob      string
	TestPrefixes []string
	Extensions   []string
}

// rawSurface mirrors the YAML structure before validation.
type rawSurface struct {
	Name  string `yaml:"name"`
	Globs struct {
		Source string `yaml:"source"`
		Test   string `yaml:"test"`
		All    string `yaml:"all"`
	} `yaml:"globs"`
	TestPrefixes []string `yaml:"test_prefixes"`
	Extensions   []string `yaml:"extensions"`
}

// LoadSurface reads and validates languages/<lang>.yaml from the embedded FS.
func LoadSurface(lang string) (*Surface, error) {
	data, err := languages.FS.ReadFile(lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("load surface for %q: %w", lang, err)
	}
	var raw rawSurface
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s.yaml: %w", lang, err)
	}
	s := &Surface{
		Name:         raw.Name,
		SourceGlob:   raw.Globs.Source,
		TestGlob:     raw.Globs.Test,
		AllGlob:      raw.Globs.All,
		TestPrefixes: raw.TestPrefixes,
		Extensions:   raw.Extensions,
	}
	if s.SourceGlob == "" || s.TestGlob == "" || s.AllGlob == "" {
		return nil, fmt.Errorf("%s.yaml: globs.source, globs.test and globs.all are required", lang)
	}
	if len(s.Extensions) == 0 {
		return nil, fmt.Errorf("%s.yaml: extensions is required", lang)
	}
	return s, nil
}

// MustLoadSurface is like LoadSurface but panics on error. Safe at
// package-init time since the YAML is embedded at compile time.
func MustLoadSurface(lang string) *Surface {
	s, err := LoadSurface(lang)
	if err != nil {
		panic(fmt.Sprintf("tsparam: %v", err))
	}
	return s
}

// TypeScript is the surface every identifier in this engine plans against.
var TypeScript = MustLoadSurface("typescript")

// IsTestPath reports whether a project-relative path lives under one of the
// surface's test prefixes.
func (s *Surface) IsTestPath(path string) bool {
	for _, prefix := range s.TestPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
