package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	ParseModeLenient = "lenient"
	ParseModeFirst   = "first"
	ParseModeStrict  = "strict"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Upload     UploadConfig     `yaml:"upload"`
	LLM        LLMConfig        `yaml:"llm"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int64  `yaml:"max_upload_mb"` // 0 disables the limit
}

type UploadConfig struct {
	// empty means os.TempDir()
	TempDir string `yaml:"temp_dir"`
}

// LLMConfig describes the local model runtime the extractor talks to.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	BaseURL     string        `yaml:"base_url"`
	Key         string        `yaml:"key"`
	Model       string        `yaml:"model"`
	ModelType   string        `yaml:"model_type"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type ExtractionConfig struct {
	ParseMode string `yaml:"parse_mode"`
	Delimiter string `yaml:"delimiter"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	defaultAddr        = ":8501"
	defaultMaxUploadMB = 20
	defaultBaseURL     = "http://localhost:11434"
	defaultModel       = "llama2:7b-chat-q4_0"
	defaultModelType   = "llama"
	defaultMaxTokens   = 128
	defaultTemperature = 0.01
	defaultDelimiter   = ":"
	defaultLogLevel    = "debug"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := base()
	cfg.applyDefaults()
	return cfg
}

// base holds the numeric defaults. They are set before the file is decoded so
// an explicit zero in yaml or env is kept.
func base() *Config {
	return &Config{
		Server: ServerConfig{MaxUploadMB: defaultMaxUploadMB},
		LLM: LLMConfig{
			MaxTokens:   defaultMaxTokens,
			Temperature: defaultTemperature,
		},
	}
}

// LoadConfig reads the yaml file at path, loads .env and applies INVOICE_* overrides.
// A missing file is not an error; defaults and environment still apply.
func LoadConfig(path string) (*Config, error) {
	cfg := base()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOllama
	}
	if c.LLM.BaseURL == "" && c.LLM.Provider == ProviderOllama {
		c.LLM.BaseURL = defaultBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel
	}
	if c.LLM.ModelType == "" {
		c.LLM.ModelType = defaultModelType
	}
	if c.Extraction.ParseMode == "" {
		c.Extraction.ParseMode = ParseModeLenient
	}
	if c.Extraction.Delimiter == "" {
		c.Extraction.Delimiter = defaultDelimiter
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, "INVOICE_ADDR")
	setString(&c.Upload.TempDir, "INVOICE_TEMP_DIR")
	setString(&c.LLM.Provider, "INVOICE_LLM_PROVIDER")
	setString(&c.LLM.BaseURL, "INVOICE_LLM_BASE_URL")
	setString(&c.LLM.Key, "INVOICE_LLM_KEY")
	setString(&c.LLM.Model, "INVOICE_LLM_MODEL")
	setString(&c.LLM.ModelType, "INVOICE_LLM_MODEL_TYPE")
	setString(&c.Extraction.ParseMode, "INVOICE_PARSE_MODE")
	setString(&c.Extraction.Delimiter, "INVOICE_DELIMITER")
	setString(&c.Log.Level, "INVOICE_LOG_LEVEL")

	if v, ok := os.LookupEnv("INVOICE_MAX_UPLOAD_MB"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid INVOICE_MAX_UPLOAD_MB %q: %w", v, err)
		}
		c.Server.MaxUploadMB = n
	}
	if v, ok := os.LookupEnv("INVOICE_LLM_MAX_TOKENS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid INVOICE_LLM_MAX_TOKENS %q: %w", v, err)
		}
		c.LLM.MaxTokens = n
	}
	if v, ok := os.LookupEnv("INVOICE_LLM_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid INVOICE_LLM_TEMPERATURE %q: %w", v, err)
		}
		c.LLM.Temperature = f
	}
	if v, ok := os.LookupEnv("INVOICE_LLM_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid INVOICE_LLM_TIMEOUT %q: %w", v, err)
		}
		c.LLM.Timeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}
	switch c.Extraction.ParseMode {
	case ParseModeLenient, ParseModeFirst, ParseModeStrict:
	default:
		return fmt.Errorf("unsupported parse mode: %s", c.Extraction.ParseMode)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative, got %v", c.LLM.Temperature)
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("max_upload_mb must not be negative, got %d", c.Server.MaxUploadMB)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.LLM.Timeout)
	}
	return nil
}
