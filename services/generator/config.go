package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kacperborowieckb/gen-records/utils/env"
	"github.com/kacperborowieckb/gen-records/utils/gemini"
)

type Config struct {
	APIKey    string `validate:"required"`
	Model     string `validate:"required"`
	SchemaDir string `validate:"required"`
	OutputDir string `validate:"required"`
	AmqpURL   string `validate:"omitempty,url"`
}

// LoadConfig reads the generator configuration from the environment. A
// non-empty model overrides GEMINI_MODEL.
func LoadConfig(model string) (Config, error) {
	cfg := Config{
		APIKey:    env.GetString("GEMINI_API_KEY", ""),
		Model:     env.GetString("GEMINI_MODEL", gemini.DefaultModel),
		SchemaDir: env.GetString("SCHEMA_DIR", "schemas"),
		OutputDir: env.GetString("OUTPUT_DIR", "output"),
		AmqpURL:   env.GetString("AMQP_URL", ""),
	}

	if model != "" {
		cfg.Model = model
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
