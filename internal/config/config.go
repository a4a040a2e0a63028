package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pepistrafforello/ps-splitter/pkg/chunked"
)

// Config defines configuration for the splitter CLI.
type Config struct {
	Input     string `yaml:"input" validate:"required"`
	Output    string `yaml:"output"`
	ChunkSize int64  `yaml:"chunk_size" validate:"gt=0"`
	Prefix    string `yaml:"prefix" validate:"required,chunkprefix"`
	Overwrite bool   `yaml:"overwrite"`
	Quiet     bool   `yaml:"quiet"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		ChunkSize: chunked.Megabyte, // 1MB
		Prefix:    chunked.DefaultPrefix,
	}
}

// yamlConfig is used for YAML unmarshaling with string chunk size.
type yamlConfig struct {
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
	ChunkSize string `yaml:"chunk_size"`
	Prefix    string `yaml:"prefix"`
	Overwrite bool   `yaml:"overwrite"`
	Quiet     bool   `yaml:"quiet"`
}

// LoadFromFile loads configuration from a YAML file on top of Default.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Input != "" {
		cfg.Input = yc.Input
	}
	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.ChunkSize != "" {
		size, err := chunked.ParseSize(yc.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = size
	}
	if yc.Prefix != "" {
		cfg.Prefix = yc.Prefix
	}
	cfg.Overwrite = yc.Overwrite
	cfg.Quiet = yc.Quiet

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SPLITTER_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SPLITTER_INPUT"); v != "" {
		c.Input = v
	}
	if v := os.Getenv("SPLITTER_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("SPLITTER_CHUNK_SIZE"); v != "" {
		size, err := chunked.ParseSize(v)
		if err != nil {
			return fmt.Errorf("parse SPLITTER_CHUNK_SIZE: %w", err)
		}
		c.ChunkSize = size
	}
	if v := os.Getenv("SPLITTER_PREFIX"); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv("SPLITTER_OVERWRITE"); v != "" {
		c.Overwrite = v == "true" || v == "1"
	}
	if v := os.Getenv("SPLITTER_QUIET"); v != "" {
		c.Quiet = v == "true" || v == "1"
	}
	return nil
}

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// validChunkPrefix restricts prefixes to letters, digits, underscore and
// hyphen, and to names the chunk directory stores verbatim.
func validChunkPrefix(fl validator.FieldLevel) bool {
	prefix := fl.Field().String()
	return prefixPattern.MatchString(prefix) && chunked.ValidatePrefix(prefix) == nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("chunkprefix", validChunkPrefix); err != nil {
		panic(err)
	}
	return v
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Input":
		return "input file is required"
	case "ChunkSize":
		return "chunk_size must be positive"
	case "Prefix":
		if fe.Tag() == "required" {
			return "prefix is required"
		}
		if prefix, _ := fe.Value().(string); prefixPattern.MatchString(prefix) {
			return fmt.Sprintf("prefix %q must not contain the sequence __0x", prefix)
		}
		return fmt.Sprintf("prefix %q may only contain letters, digits, '_' and '-'", fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Input != "" {
		c.Input = override.Input
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.ChunkSize != 0 {
		c.ChunkSize = override.ChunkSize
	}
	if override.Prefix != "" {
		c.Prefix = override.Prefix
	}
	if override.Overwrite {
		c.Overwrite = override.Overwrite
	}
	if override.Quiet {
		c.Quiet = override.Quiet
	}
	return c
}
