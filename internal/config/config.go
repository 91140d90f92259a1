// Package config reads gqlderive settings from a config file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// FileName is the config file base name looked up in the working directory.
const FileName = "gqlderive"

// EnvPrefix prefixes environment overrides, e.g. GQLDERIVE_SCHEMAOUTPUT.
const EnvPrefix = "GQLDERIVE"

type Config struct {
	// Dir is the directory package patterns are resolved in.
	Dir      string   `mapstructure:"dir"`
	Packages []string `mapstructure:"packages"`

	SchemaOutput  string `mapstructure:"schemaOutput"`
	CodegenOutput string `mapstructure:"codegenOutput"`

	// CodegenPackage and CodegenPackagePath name the package the generated file belongs to.
	// They default to the first loaded package.
	CodegenPackage     string `mapstructure:"codegenPackage"`
	CodegenPackagePath string `mapstructure:"codegenPackagePath"`

	NullableByDefault bool `mapstructure:"nullableByDefault"`
	ReportTypeErrors  bool `mapstructure:"reportTypeErrors"`

	SchemaHeader  string `mapstructure:"schemaHeader"`
	CodegenHeader string `mapstructure:"codegenHeader"`

	Otel Otel `mapstructure:"otel"`
}

type Otel struct {
	Endpoint string `mapstructure:"endpoint"`
	Service  string `mapstructure:"service"`
}

// SetDefaults registers every key with its default so environment overrides apply.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dir", ".")
	v.SetDefault("packages", []string{"./..."})
	v.SetDefault("schemaOutput", "schema.graphql")
	v.SetDefault("codegenOutput", "schema_gen.go")
	v.SetDefault("codegenPackage", "")
	v.SetDefault("codegenPackagePath", "")
	v.SetDefault("nullableByDefault", false)
	v.SetDefault("reportTypeErrors", true)
	v.SetDefault("schemaHeader", "")
	v.SetDefault("codegenHeader", "")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.service", "gqlderive")
}

// Load reads file, or gqlderive.{yaml,json,toml} from searchDir when file is empty, and
// applies environment overrides. A missing default config file is not an error.
func Load(v *viper.Viper, file, searchDir string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(searchDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Packages) == 0 {
		errs = append(errs, errors.New("packages: at least one package pattern is required"))
	}
	for i, p := range c.Packages {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("packages[%d]: empty pattern", i))
		}
	}
	for _, h := range []struct{ key, value string }{
		{"schemaHeader", c.SchemaHeader},
		{"codegenHeader", c.CodegenHeader},
	} {
		if strings.Contains(h.value, "*/") {
			errs = append(errs, fmt.Errorf("%s: must not contain */", h.key))
		}
	}
	if c.SchemaOutput != "" && c.SchemaOutput == c.CodegenOutput {
		errs = append(errs, fmt.Errorf("schemaOutput and codegenOutput both write %s", c.SchemaOutput))
	}
	if c.CodegenPackage != "" && !isIdentifier(c.CodegenPackage) {
		errs = append(errs, fmt.Errorf("codegenPackage: %q is not a valid package name", c.CodegenPackage))
	}
	return errors.Join(errs...)
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}
