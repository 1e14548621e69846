// Package config loads skillpath settings from defaults, an optional
// skillpath.yaml, an optional .env file and SKILLPATH_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/skillpath/internal/llm"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "SKILLPATH"

// DefaultSkill is used when no skill is configured.
const DefaultSkill = "python"

// Config is the resolved application configuration.
type Config struct {
	DB       string
	Skill    string
	Learner  string
	LogCalls bool

	// LLM is the provider configuration. LLM.Provider is empty when no
	// provider was configured and none could be discovered.
	LLM llm.Config
}

// Options controls where Load looks for files.
type Options struct {
	// ConfigFile is an explicit config path. It must exist when set.
	ConfigFile string

	// SearchPaths are searched for skillpath.yaml when ConfigFile is
	// empty. Defaults to the user config dir and the working directory.
	SearchPaths []string

	// EnvFile is loaded into the process environment if it exists.
	// Defaults to ".env". Variables already set are not overridden.
	EnvFile string
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("skillpath")
		v.SetConfigType("yaml")
		for _, p := range searchPaths(opts.SearchPaths) {
			v.AddConfigPath(p)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		DB:       v.GetString("db"),
		Skill:    v.GetString("skill"),
		Learner:  v.GetString("learner"),
		LogCalls: v.GetBool("log_calls"),
		LLM:      llmConfig(v),
	}
	if cfg.LLM.Provider == "" {
		discoverProvider(&cfg.LLM)
	}
	if cfg.LLM.Provider != "" {
		if err := cfg.LLM.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// HasLLM reports whether a generative provider is configured.
func (c *Config) HasLLM() bool {
	return c.LLM.Provider != ""
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("db", "")
	v.SetDefault("skill", DefaultSkill)
	v.SetDefault("learner", "")
	v.SetDefault("log_calls", false)

	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)

	// Bound without a default so an unset provider stays empty and
	// discovery can run.
	for _, key := range []string{
		"llm.provider",
		"llm.anthropic.api_key",
		"llm.openai.api_key", "llm.openai.base_url",
		"llm.gemini.api_key",
		"llm.openrouter.api_key", "llm.openrouter.base_url",
	} {
		_ = v.BindEnv(key)
	}
}

func llmConfig(v *viper.Viper) llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = strings.ToLower(strings.TrimSpace(v.GetString("llm.provider")))
	cfg.Timeout = v.GetDuration("llm.timeout")
	cfg.Retry.MaxAttempts = v.GetInt("llm.max_attempts")

	cfg.Anthropic = llm.AnthropicConfig{
		APIKey: v.GetString("llm.anthropic.api_key"),
		Model:  v.GetString("llm.anthropic.model"),
	}
	cfg.OpenAI = llm.OpenAIConfig{
		APIKey:  v.GetString("llm.openai.api_key"),
		Model:   v.GetString("llm.openai.model"),
		BaseURL: v.GetString("llm.openai.base_url"),
	}
	cfg.Gemini = llm.GeminiConfig{
		APIKey: v.GetString("llm.gemini.api_key"),
		Model:  v.GetString("llm.gemini.model"),
	}
	cfg.OpenRouter = llm.OpenRouterConfig{
		APIKey:  v.GetString("llm.openrouter.api_key"),
		Model:   v.GetString("llm.openrouter.model"),
		BaseURL: v.GetString("llm.openrouter.base_url"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return cfg
}

// discoverProvider picks the provider from the standard vendor API key
// variables, keeping any model overrides already configured.
func discoverProvider(cfg *llm.Config) {
	found, ok := llm.DiscoverConfig()
	if !ok {
		return
	}
	cfg.Provider = found.Provider
	switch found.Provider {
	case "gemini":
		cfg.Gemini.APIKey = found.Gemini.APIKey
	case "openai":
		cfg.OpenAI.APIKey = found.OpenAI.APIKey
	case "anthropic":
		cfg.Anthropic.APIKey = found.Anthropic.APIKey
	case "openrouter":
		cfg.OpenRouter.APIKey = found.OpenRouter.APIKey
	}
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func searchPaths(paths []string) []string {
	if len(paths) > 0 {
		return paths
	}
	var out []string
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		out = append(out, filepath.Join(dir, "skillpath"))
	} else if dir, err := os.UserConfigDir(); err == nil {
		out = append(out, filepath.Join(dir, "skillpath"))
	}
	return append(out, ".")
}
