package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Sources  SourcesConfig
	LLM      LLMConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// SourcesConfig points at the directory tree of statement exports. Each
// subdirectory is a source group (hdfc_cc, hdfc_savings, icici_cc,
// icici_savings, sbi) whose files are parsed by the matching parser.
type SourcesConfig struct {
	Dir string
}

// LLMConfig holds provider settings for the optional suggestion pass.
type LLMConfig struct {
	APIKeyEnv string
	APIKey    string
	Model     string
}

// Load reads configuration from file and env. Env var overrides use prefix TERMINATOR_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "terminator", "terminator.db"))
	v.SetDefault("sources.dir", "source_files")
	v.SetDefault("llm.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.0-flash")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TERMINATOR_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "terminator"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TERMINATOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// ResolveAPIKey returns the model API key, preferring the configured env var
// over the plain-text config value.
func (c Config) ResolveAPIKey() string {
	env := strings.TrimSpace(c.LLM.APIKeyEnv)
	if env == "" {
		env = "GEMINI_API_KEY"
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return strings.TrimSpace(c.LLM.APIKey)
}
