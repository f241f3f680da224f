// Package config loads the user's autotex configuration.
//
// The file is looked up in this order:
//   - the --config flag
//   - the AUTOTEX_CONFIG environment variable
//   - autotex/config.yaml under os.UserConfigDir
//
// Only the last location may be absent; an explicitly named file must
// exist. Files ending in .json or .jsonc are read as JSON with comments,
// everything else as YAML. Unknown keys are rejected in both formats.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"autotex/internal/core"
)

// EnvPath names the environment variable overriding the config location.
const EnvPath = "AUTOTEX_CONFIG"

// Config is the resolved configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine" json:"engine"`

	// Viewer opens the output PDF. Empty selects the platform opener.
	Viewer string `yaml:"viewer" json:"viewer"`

	// PDF is the older name for Viewer; Viewer wins when both are set.
	PDF string `yaml:"pdf" json:"pdf"`

	Tools ToolsConfig `yaml:"tools" json:"tools"`

	// Timeout bounds each external invocation, as a Go duration string.
	// Empty or "0" means no bound.
	Timeout string `yaml:"timeout" json:"timeout"`

	timeout time.Duration
}

// EngineConfig holds the default engines and extra recognized names.
type EngineConfig struct {
	// Main is the default engine when no LaTeX-family flag is given.
	Main string `yaml:"main" json:"main"`

	// Latex is the default engine when only the LaTeX family is selected.
	Latex string `yaml:"latex" json:"latex"`

	TexFamily   []string `yaml:"tex_family" json:"tex_family"`
	LatexFamily []string `yaml:"latex_family" json:"latex_family"`
}

// ToolsConfig names the auxiliary programs run between engine passes.
type ToolsConfig struct {
	Bibliography string `yaml:"bibliography" json:"bibliography"`
	Index        string `yaml:"index" json:"index"`
	Asymptote    string `yaml:"asymptote" json:"asymptote"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Main:  core.DefaultTexEngine,
			Latex: core.DefaultLatexEngine,
		},
		Tools: ToolsConfig{
			Bibliography: "bibtex",
			Index:        "makeindex",
			Asymptote:    "asy",
		},
	}
}

// ViewerProgram returns the configured viewer, or "" for the platform
// default.
func (c *Config) ViewerProgram() string {
	if v := strings.TrimSpace(c.Viewer); v != "" {
		return v
	}
	return strings.TrimSpace(c.PDF)
}

// InvocationTimeout returns the parsed Timeout.
func (c *Config) InvocationTimeout() time.Duration { return c.timeout }

// Locate returns the config path to load and whether it was named
// explicitly.
func Locate(flagPath string) (path string, explicit bool, err error) {
	if flagPath != "" {
		return flagPath, true, nil
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env, true, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false, core.ConfigErrorf(err, "locating user config directory")
	}
	return filepath.Join(dir, "autotex", "config.yaml"), false, nil
}

// Load reads the config at path over Default. A missing file is an error
// only when explicit is set.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, cfg.validate()
		}
		return nil, core.ConfigErrorf(err, "reading %s", path)
	}
	if err := decode(path, data, cfg); err != nil {
		return nil, core.ConfigErrorf(err, "parsing %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data as the format implied by name over Default.
func Parse(name string, data []byte) (*Config, error) {
	cfg := Default()
	if err := decode(name, data, cfg); err != nil {
		return nil, core.ConfigErrorf(err, "parsing %s", name)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(name string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonc":
		stripped := jsonc.ToJSON(data)
		if len(bytes.TrimSpace(stripped)) == 0 {
			return nil
		}
		dec := json.NewDecoder(bytes.NewReader(stripped))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}

func (c *Config) validate() error {
	defaults := Default()
	c.Engine.Main = strings.TrimSpace(c.Engine.Main)
	c.Engine.Latex = strings.TrimSpace(c.Engine.Latex)
	if c.Engine.Main == "" {
		c.Engine.Main = defaults.Engine.Main
	}
	if c.Engine.Latex == "" {
		c.Engine.Latex = defaults.Engine.Latex
	}
	if strings.TrimSpace(c.Tools.Bibliography) == "" {
		c.Tools.Bibliography = defaults.Tools.Bibliography
	}
	if strings.TrimSpace(c.Tools.Index) == "" {
		c.Tools.Index = defaults.Tools.Index
	}
	if strings.TrimSpace(c.Tools.Asymptote) == "" {
		c.Tools.Asymptote = defaults.Tools.Asymptote
	}

	c.timeout = 0
	if t := strings.TrimSpace(c.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return core.ConfigErrorf(err, "timeout %q", c.Timeout)
		}
		if d < 0 {
			return core.ConfigErrorf(nil, "timeout %q is negative", c.Timeout)
		}
		c.timeout = d
	}
	for _, n := range append(append([]string{}, c.Engine.TexFamily...), c.Engine.LatexFamily...) {
		if strings.ContainsAny(n, " \t/") {
			return core.ConfigErrorf(nil, "engine name %q must be a bare executable name", n)
		}
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("engine=%s latex=%s viewer=%q timeout=%s", c.Engine.Main, c.Engine.Latex, c.ViewerProgram(), c.timeout)
}
