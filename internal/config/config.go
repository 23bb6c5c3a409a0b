// Package config loads the command-line tool's settings from a YAML or JSON
// file, overlays environment variables and fills defaults. Durations are
// written as strings such as "30s" in either format.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/mrjoshuak/summabrowse/internal/client"
)

// Summarizer backends
const (
	BackendAPI    = "api"
	BackendOpenAI = "openai"
)

// Config is the full configuration schema.
type Config struct {
	// Summarizer selects the backend used by summarize and analyze.
	Summarizer string `yaml:"summarizer" json:"summarizer"`

	API struct {
		URL       string   `yaml:"url" json:"url"`
		Timeout   Duration `yaml:"timeout" json:"timeout"`
		RateLimit float64  `yaml:"rateLimit" json:"rateLimit"`
	} `yaml:"api" json:"api"`

	Upload struct {
		URL     string   `yaml:"url" json:"url"`
		Timeout Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"upload" json:"upload"`

	OpenAI struct {
		BaseURL       string `yaml:"base" json:"base"`
		Model         string `yaml:"model" json:"model"`
		APIKey        string `yaml:"key" json:"key"`
		MaxInputChars int    `yaml:"maxInputChars" json:"maxInputChars"`
	} `yaml:"openai" json:"openai"`

	Fetch struct {
		UserAgent   string   `yaml:"ua" json:"ua"`
		Timeout     Duration `yaml:"timeout" json:"timeout"`
		MaxAttempts int      `yaml:"maxAttempts" json:"maxAttempts"`
		MaxBytes    int64    `yaml:"maxBytes" json:"maxBytes"`
		Render      bool     `yaml:"render" json:"render"`
		ChromePath  string   `yaml:"chromePath" json:"chromePath"`
	} `yaml:"fetch" json:"fetch"`

	Extract struct {
		SanitizeHTML  bool     `yaml:"sanitizeHTML" json:"sanitizeHTML"`
		Timeout       Duration `yaml:"timeout" json:"timeout"`
		MaxBufferSize int      `yaml:"maxBufferSize" json:"maxBufferSize"`
	} `yaml:"extract" json:"extract"`

	Log struct {
		Level      string `yaml:"level" json:"level"`
		File       string `yaml:"file" json:"file"`
		MaxSizeMB  int    `yaml:"maxSizeMB" json:"maxSizeMB"`
		MaxBackups int    `yaml:"maxBackups" json:"maxBackups"`
		MaxAgeDays int    `yaml:"maxAgeDays" json:"maxAgeDays"`
	} `yaml:"log" json:"log"`
}

// Load reads path when it is non-empty, applies the environment to unset
// fields and fills defaults. A missing path is an error; an empty path
// yields the environment and defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fc
	}
	ApplyEnv(cfg)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads YAML or JSON into a Config, choosing the format by
// extension and trying YAML then JSON for anything else.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			if jerr := json.Unmarshal(b, &cfg); jerr != nil {
				return nil, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return &cfg, nil
}

// ApplyEnv populates unset fields from environment variables. Values
// already present in the file take precedence.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&cfg.Summarizer, "SUMMABROWSE_SUMMARIZER")
	setString(&cfg.API.URL, "SUMMABROWSE_API_URL")
	setString(&cfg.Upload.URL, "SUMMABROWSE_UPLOAD_URL")
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.Log.Level, "SUMMABROWSE_LOG_LEVEL")
	setString(&cfg.Log.File, "SUMMABROWSE_LOG_FILE")
	setString(&cfg.Fetch.ChromePath, "CHROME_PATH")

	if cfg.API.RateLimit == 0 {
		if s := os.Getenv("SUMMABROWSE_API_RATE"); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
				cfg.API.RateLimit = f
			}
		}
	}
	if cfg.Extract.Timeout.Duration == 0 {
		if s := os.Getenv("SUMMABROWSE_EXTRACT_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.Extract.Timeout.Duration = d
			}
		}
	}
	if !cfg.Fetch.Render {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("SUMMABROWSE_RENDER"))) {
		case "1", "true", "yes", "on":
			cfg.Fetch.Render = true
		}
	}
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Summarizer == "" {
		c.Summarizer = BackendAPI
	}
	if c.API.URL == "" {
		c.API.URL = client.DefaultAPIURL
	}
	if c.API.Timeout.Duration == 0 {
		c.API.Timeout.Duration = 60 * time.Second
	}
	if c.Upload.URL == "" {
		c.Upload.URL = client.DefaultUploadURL
	}
	if c.Upload.Timeout.Duration == 0 {
		c.Upload.Timeout.Duration = 2 * time.Minute
	}
	if c.Fetch.Timeout.Duration == 0 {
		c.Fetch.Timeout.Duration = 20 * time.Second
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = 3
	}
	if c.Fetch.MaxBytes == 0 {
		c.Fetch.MaxBytes = 5 << 20
	}
	if c.Extract.Timeout.Duration == 0 {
		c.Extract.Timeout.Duration = 30 * time.Second
	}
	if c.Extract.MaxBufferSize == 0 {
		c.Extract.MaxBufferSize = 5 << 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	switch c.Summarizer {
	case BackendAPI:
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" && c.OpenAI.BaseURL == "" {
			errs = append(errs, errors.New("openai summarizer needs openai.key or openai.base"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown summarizer %q (want %q or %q)", c.Summarizer, BackendAPI, BackendOpenAI))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("api.rateLimit must not be negative"))
	}
	if c.Extract.MaxBufferSize < 0 {
		errs = append(errs, errors.New("extract.maxBufferSize must not be negative"))
	}
	return errors.Join(errs...)
}
