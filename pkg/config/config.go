package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/heysubinoy/pyazdict/pkg/policy"
	"gopkg.in/yaml.v3"
)

type Config struct {
	FirstFile  string `yaml:"first_file"`
	SecondFile string `yaml:"second_file"`
	ThirdFile  string `yaml:"third_file"`
	PageSize   int    `yaml:"page_size"`
	Language   string `yaml:"language"`
	Autosave   *bool  `yaml:"autosave"`
	HTTPAddr   string `yaml:"http_addr"`
	GRPCAddr   string `yaml:"grpc_addr"`
}

const (
	DefaultPageSize = 5
	DefaultHTTPAddr = ":8080"
	DefaultGRPCAddr = ":9090"
)

// LoadConfig loads configuration from a YAML file if path is provided,
// then applies environment variable overrides and defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}

	return &cfg, nil
}

// AutosaveEnabled reports whether mutations are flushed to disk immediately.
func (c *Config) AutosaveEnabled() bool {
	return c.Autosave == nil || *c.Autosave
}

// Files maps each dictionary name to its backing file.
func (c *Config) Files() map[string]string {
	return map[string]string{
		policy.First:  c.FirstFile,
		policy.Second: c.SecondFile,
		policy.Third:  c.ThirdFile,
	}
}

func applyDefaults(cfg *Config) {
	if cfg.FirstFile == "" {
		cfg.FirstFile = "first_dict.txt"
	}
	if cfg.SecondFile == "" {
		cfg.SecondFile = "second_dict.txt"
	}
	if cfg.ThirdFile == "" {
		cfg.ThirdFile = "third_dict.txt"
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.GRPCAddr == "" {
		cfg.GRPCAddr = DefaultGRPCAddr
	}
}

// applyEnvOverrides allows environment variables to override YAML config values
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DICT_FIRST_FILE"); v != "" {
		cfg.FirstFile = v
	}
	if v := os.Getenv("DICT_SECOND_FILE"); v != "" {
		cfg.SecondFile = v
	}
	if v := os.Getenv("DICT_THIRD_FILE"); v != "" {
		cfg.ThirdFile = v
	}
	if v := os.Getenv("DICT_LANG"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("DICT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("DICT_GRPC_ADDR"); v != "" {
		cfg.GRPCAddr = v
	}
	if v := os.Getenv("DICT_PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DICT_PAGE_SIZE value: %w", err)
		}
		cfg.PageSize = size
	}
	if v := os.Getenv("DICT_AUTOSAVE"); v != "" {
		autosave, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DICT_AUTOSAVE value: %w", err)
		}
		cfg.Autosave = &autosave
	}
	return nil
}
