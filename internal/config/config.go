// Package config loads salescope settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/helpers"
	"github.com/spektr-org/salescope/schema"
)

// Default values
const (
	DefaultTopN        = 10
	DefaultGranularity = "day"
	DefaultCurrency    = "€"
	DefaultListen      = ":8080"
	DefaultOutput      = "table"
	EnvPrefix          = "SALESCOPE_"
)

// Config holds every setting of the CLI and server.
type Config struct {
	TopN           int           `koanf:"top_n" validate:"min=3,max=50"`
	Granularity    string        `koanf:"granularity" validate:"oneof=day week month D W M"`
	Currency       string        `koanf:"currency" validate:"max=16"`
	SampleSize     int           `koanf:"sample_size" validate:"min=1"`
	Seed           int64         `koanf:"seed"`
	DateThreshold  float64       `koanf:"date_threshold" validate:"gt=0,lt=1"`
	CacheTTL       time.Duration `koanf:"cache_ttl" validate:"min=0"`
	MaxUploadBytes int64         `koanf:"max_upload_bytes" validate:"min=1"`
	Listen         string        `koanf:"listen" validate:"required"`
	Verbose        bool          `koanf:"verbose"`
	Output         string        `koanf:"output" validate:"oneof=table json yaml"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]interface{} {
	infer := schema.DefaultInferOptions()
	return map[string]interface{}{
		"top_n":            DefaultTopN,
		"granularity":      DefaultGranularity,
		"currency":         DefaultCurrency,
		"sample_size":      infer.SampleSize,
		"seed":             infer.Seed,
		"date_threshold":   infer.DateThreshold,
		"cache_ttl":        engine.DefaultCacheTTL,
		"max_upload_bytes": helpers.DefaultMaxUploadBytes,
		"listen":           DefaultListen,
		"verbose":          false,
		"output":           DefaultOutput,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// InferOptions converts the inference settings.
func (c *Config) InferOptions() schema.InferOptions {
	return schema.InferOptions{
		SampleSize:    c.SampleSize,
		Seed:          c.Seed,
		DateThreshold: c.DateThreshold,
	}
}

// Params converts the display settings.
func (c *Config) Params() (engine.Params, error) {
	g, err := engine.ParseGranularity(c.Granularity)
	if err != nil {
		return engine.Params{}, err
	}
	p := engine.Params{TopN: c.TopN, Granularity: g, Currency: c.Currency}
	return p, p.Validate()
}
