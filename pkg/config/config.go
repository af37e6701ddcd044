// Package config loads hypermedia settings from embedded defaults, an
// optional YAML or TOML file, HYPERMEDIA_* environment variables and explicit
// overrides, in that order.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.yaml
var defaultConfig []byte

// EnvPrefix prefixes environment variables. A double underscore separates
// nested keys: HYPERMEDIA_SERVER__ADDR sets server.addr.
const EnvPrefix = "HYPERMEDIA_"

// Config is the decoded configuration.
type Config struct {
	Title             string        `koanf:"title"`
	Lang              string        `koanf:"lang"`
	Charset           string        `koanf:"charset"`
	PropertyNames     string        `koanf:"property_names"`
	ItemTypeNamespace string        `koanf:"itemtype_namespace"`
	TimeLayout        string        `koanf:"time_layout"`
	Stylesheets       []string      `koanf:"stylesheets"`
	Scripts           []string      `koanf:"scripts"`
	Format            string        `koanf:"format"`
	Source            string        `koanf:"source"`
	Manifest          string        `koanf:"manifest"`
	Descriptions      string        `koanf:"descriptions"`
	Preset            string        `koanf:"preset"`
	UntaggedGroup     string        `koanf:"untagged_group"`
	HTTPTimeout       time.Duration `koanf:"http_timeout"`
	Docs              DocsConfig    `koanf:"docs"`
	Server            ServerConfig  `koanf:"server"`
	Log               LogConfig     `koanf:"log"`
}

// DocsConfig configures the route documentation renderers.
type DocsConfig struct {
	HeadingLevel int    `koanf:"heading_level"`
	SubmitLabel  string `koanf:"submit_label"`
	CSRFField    string `koanf:"csrf_field"`
}

// ServerConfig configures the demo HTTP server.
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// LoadOptions selects the layers applied on top of the defaults.
type LoadOptions struct {
	// File is an optional .yaml, .yml or .toml file. Missing files are errors.
	File string
	// Environ replaces os.Environ for the environment layer; nil reads the
	// process environment.
	Environ []string
	// Overrides are dotted keys applied last, typically from CLI flags.
	Overrides map[string]any
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load merges every layer and decodes the result.
func Load(opts LoadOptions) (Config, error) {
	k, err := Koanf(opts)
	if err != nil {
		return Config{}, err
	}
	return decode(k)
}

// Koanf returns the merged key space, useful for printing the effective
// configuration.
func Koanf(opts LoadOptions) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := strings.TrimSpace(opts.File); path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(envProvider(opts.Environ), nil); err != nil {
		return nil, fmt.Errorf("config: load env vars: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("config: load overrides: %w", err)
		}
	}
	return k, nil
}

func envProvider(environ []string) koanf.Provider {
	transform := func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}
	if environ == nil {
		return env.Provider(EnvPrefix, ".", transform)
	}
	values := make(map[string]any)
	for _, pair := range environ {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		values[transform(name)] = value
	}
	return confmap.Provider(values, ".")
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("config: unsupported config file %q", path)
	}
}

func decode(k *koanf.Koanf) (Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Format {
	case "html", "xhtml":
	default:
		return fmt.Errorf("config: unknown format %q", c.Format)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.Docs.HeadingLevel < 1 || c.Docs.HeadingLevel > 6 {
		return fmt.Errorf("config: heading level %d out of range", c.Docs.HeadingLevel)
	}
	return nil
}
