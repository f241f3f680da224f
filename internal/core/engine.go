package core

import (
	"sort"
	"strings"
)

// Engine identifies a concrete compiler executable.
//
// TexFamily engines produce output directly and get a fixed two-run pass.
// The LaTeX family conventionally needs bibliography/index resolution
// between runs.
type Engine struct {
	Name      string
	TexFamily bool
}

func (e Engine) String() string { return e.Name }

// Built-in engine names. The LaTeX-family names follow the convention of
// suffixing the variant with "latex". The plain variant is accepted both
// bare and with its "plain" prefix.
var (
	TexEngines   = []string{"tex", "plaintex", "pdftex", "xetex", "luatex"}
	LatexEngines = []string{"latex", "plainlatex", "pdflatex", "xelatex", "lualatex"}
)

// Default engine names used when no configuration is present.
const (
	DefaultTexEngine   = "pdftex"
	DefaultLatexEngine = "pdflatex"
)

// EngineResolver maps requested engine names onto Engine values using a
// fixed name table that configuration may extend.
type EngineResolver struct {
	families map[string]bool
}

// NewEngineResolver builds a resolver from the built-in tables plus any
// extra names. Extra names are lowercased and trimmed; empty entries are
// ignored.
func NewEngineResolver(extraTex, extraLatex []string) *EngineResolver {
	r := &EngineResolver{families: make(map[string]bool)}
	for _, n := range TexEngines {
		r.families[n] = true
	}
	for _, n := range LatexEngines {
		r.families[n] = false
	}
	for _, n := range extraTex {
		if n = normalizeEngineName(n); n != "" {
			r.families[n] = true
		}
	}
	for _, n := range extraLatex {
		if n = normalizeEngineName(n); n != "" {
			r.families[n] = false
		}
	}
	return r
}

// Resolve picks the engine named by requested, falling back to
// configuredDefault when requested is empty. Both are validated against
// the same table; an unknown name is never substituted.
func (r *EngineResolver) Resolve(requested, configuredDefault string) (Engine, error) {
	name := normalizeEngineName(requested)
	source := "requested"
	if name == "" {
		name = normalizeEngineName(configuredDefault)
		source = "configured default"
	}
	if name == "" {
		return Engine{}, InvalidEnginef("no engine requested and no default configured")
	}
	texFamily, ok := r.families[name]
	if !ok {
		return Engine{}, InvalidEnginef("%s engine %q is not one of %s", source, name, strings.Join(r.Names(), ", "))
	}
	return Engine{Name: name, TexFamily: texFamily}, nil
}

// Known reports whether name is in the resolver's table.
func (r *EngineResolver) Known(name string) bool {
	_, ok := r.families[normalizeEngineName(name)]
	return ok
}

// Names returns the recognized engine names, sorted.
func (r *EngineResolver) Names() []string {
	out := make([]string, 0, len(r.families))
	for n := range r.families {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func normalizeEngineName(n string) string {
	return strings.ToLower(strings.TrimSpace(n))
}
