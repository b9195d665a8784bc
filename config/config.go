package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config carries everything the CLI needs to run a generation pass.
type Config struct {
	DatabaseURL   string `koanf:"database_url"`
	SchemaFile    string `koanf:"schema_file"`
	MigrationsDir string `koanf:"migrations_dir"`
	SchemaName    string `koanf:"schema_name"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"schema_file":    "schema.yaml",
		"migrations_dir": "migrations",
		"schema_name":    "public",
	}
}

// findConfigFile picks the config file to use.
// Priority: explicit path > better-lucid.yaml > better-lucid.yml.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"better-lucid.yaml", "better-lucid.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load layers configuration sources: defaults, then the config file,
// then BETTER_LUCID_* environment variables, then command-line flags.
// DATABASE_URL is honored as a shorthand for the database URL.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(configFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("BETTER_LUCID_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "BETTER_LUCID_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" && !k.Exists("database_url") {
		if err := k.Set("database_url", url); err != nil {
			return nil, fmt.Errorf("setting database url: %w", err)
		}
	}

	if flags != nil {
		// Flag names are kebab-case on the command line but map onto
		// the underscore config keys.
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
