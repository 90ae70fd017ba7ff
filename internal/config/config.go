package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sranjan/examforge/internal/llm"
	"github.com/sranjan/examforge/internal/store"
)

// Config is the full application configuration.
type Config struct {
	Env    string // "development" or "production"
	Server ServerConfig
	Logger LoggerConfig
	DBPath string // SQLite request log; empty disables persistence
	LLM    llm.Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level string // "debug" or "info"
	Env   string
}

// Load reads configuration from an optional YAML file (examforge.yaml in
// the working directory or under ./config) and EXAMFORGE_* environment
// variables, falling back to defaults. Environment wins over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("examforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("EXAMFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	llmCfg := llm.DefaultConfig()
	llmCfg.Provider = v.GetString("llm.provider")
	llmCfg.Gemini.APIKey = v.GetString("llm.gemini.api_key")
	if m := v.GetString("llm.gemini.model"); m != "" {
		llmCfg.Gemini.Model = m
	}
	llmCfg.Anthropic.APIKey = v.GetString("llm.anthropic.api_key")
	if m := v.GetString("llm.anthropic.model"); m != "" {
		llmCfg.Anthropic.Model = m
	}
	llmCfg.OpenAI.APIKey = v.GetString("llm.openai.api_key")
	if m := v.GetString("llm.openai.model"); m != "" {
		llmCfg.OpenAI.Model = m
	}
	llmCfg.OpenAI.BaseURL = v.GetString("llm.openai.base_url")
	llmCfg.OpenRouter.APIKey = v.GetString("llm.openrouter.api_key")
	if m := v.GetString("llm.openrouter.model"); m != "" {
		llmCfg.OpenRouter.Model = m
	}
	if t := v.GetDuration("llm.timeout"); t > 0 {
		llmCfg.Timeout = t
	}
	if n := v.GetInt("llm.retry.max_attempts"); n > 0 {
		llmCfg.Retry.MaxAttempts = n
	}

	// When no provider is configured explicitly, probe standard key env
	// vars the way a zero-config install expects.
	if llmCfg.Provider == "" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			llmCfg = discovered
		} else {
			llmCfg.Provider = "gemini"
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
			MaxUploadBytes: v.GetInt64("server.max_upload_bytes"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("log.level"),
			Env:   v.GetString("env"),
		},
		DBPath: v.GetString("db.path"),
		LLM:    llmCfg,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	// Stage calls run inside handlers; give writes generous room.
	v.SetDefault("server.write_timeout", 10*time.Minute)
	v.SetDefault("server.max_upload_bytes", int64(50*1024*1024))
	// Persist the request log under XDG data by default; an explicit
	// empty db.path turns persistence off.
	if p, err := store.DefaultDBPath(); err == nil {
		v.SetDefault("db.path", p)
	} else {
		v.SetDefault("db.path", "")
	}
	v.SetDefault("llm.provider", "")
}
