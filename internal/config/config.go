package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvConfigFile = "DIAGRAM_MCP_CONFIG"
	EnvLogLevel   = "DIAGRAM_MCP_LOG_LEVEL"
	EnvConfidence = "DIAGRAM_MCP_CONFIDENCE"
	EnvWorkers    = "DIAGRAM_MCP_WORKERS"
	EnvOCRLang    = "DIAGRAM_MCP_OCR_LANG"
	EnvTessdata   = "TESSDATA_PREFIX"
)

// Log levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
)

// Config holds the resolved settings.
type Config struct {
	LogLevel            string  `yaml:"log_level"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	Workers             int     `yaml:"workers"`
	OCRLanguage         string  `yaml:"ocr_language"`
	TessdataPrefix      string  `yaml:"tessdata_prefix"`
	Stroke              int     `yaml:"stroke"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:            LevelInfo,
		ConfidenceThreshold: 0.5,
		Workers:             runtime.GOMAXPROCS(0),
		OCRLanguage:         "eng",
		Stroke:              2,
	}
}

// Load resolves the configuration from defaults, the DIAGRAM_MCP_CONFIG file and
// the environment, then validates it.
func Load() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile overlays the keys present in the YAML file at path onto c.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := getEnv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := getEnv(EnvConfidence); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvConfidence, err)
		}
		c.ConfidenceThreshold = f
	}
	if v := getEnv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := getEnv(EnvOCRLang); v != "" {
		c.OCRLanguage = v
	}
	if v := getEnv(EnvTessdata); v != "" {
		c.TessdataPrefix = v
	}
	return nil
}

func getEnv(k string) string {
	return strings.TrimSpace(os.Getenv(k))
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.LogLevel != LevelDebug && c.LogLevel != LevelInfo {
		errs = append(errs, fmt.Errorf("log_level must be %q or %q, got %q", LevelDebug, LevelInfo, c.LogLevel))
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		errs = append(errs, fmt.Errorf("confidence_threshold must be in [0,1], got %v", c.ConfidenceThreshold))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Stroke < 1 {
		errs = append(errs, fmt.Errorf("stroke must be at least 1, got %d", c.Stroke))
	}
	if c.OCRLanguage == "" {
		errs = append(errs, errors.New("ocr_language must not be empty"))
	}
	return errors.Join(errs...)
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == LevelDebug
}
