package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v2"
	"go.flipt.io/flagseed/pkg/admin"
	"golang.org/x/net/http/httpguts"
)

// ErrMissingToken is returned when an upload is requested without an API token.
var ErrMissingToken = errors.New("an API token is required unless --print-to-shell is set")

// ErrInvalidToken is returned when the API token cannot be sent as a header value.
var ErrInvalidToken = errors.New("API token is not a valid header value")

const (
	DefaultURL         = "http://localhost:4242"
	DefaultEnvironment = "development"
	DefaultProject     = "default"
)

type Config struct {
	Count                  int `validate:"gte=0"`
	StrategiesPerFeature   int `validate:"gte=0"`
	ConstraintsPerStrategy int `validate:"gte=0"`

	Environment string `validate:"required,segment"`
	Project     string `validate:"required,segment"`

	PrintToShell bool
	Format       string `validate:"oneof=text json yaml"`

	UnleashURL string `validate:"required"`
	APIKey     string

	Seed int64
	// Input is a set written by --print-to-shell in json or yaml to use
	// instead of generating one.
	Input string

	Concurrency      int           `validate:"gte=1"`
	Timeout          time.Duration `validate:"gte=0s"`
	Rate             float64       `validate:"gte=0"`
	Retries          int           `validate:"gte=0,lte=9"`
	FailurePolicy    string        `validate:"oneof=fail-fast continue"`
	ValidatePayloads bool

	LogLevel  string
	LogFormat string `validate:"oneof=text json"`

	// BaseURL is UnleashURL once parsed by Validate.
	BaseURL *url.URL `validate:"-"`
}

func Default() Config {
	return Config{
		Count:                1000,
		StrategiesPerFeature: 10,
		Environment:          DefaultEnvironment,
		Project:              DefaultProject,
		Format:               "text",
		UnleashURL:           DefaultURL,
		Seed:                 time.Now().UnixNano(),
		Concurrency:          1,
		Timeout:              30 * time.Second,
		FailurePolicy:        "fail-fast",
		ValidatePayloads:     true,
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// "." and ".." would be resolved away by servers and proxies
	// normalizing the request path.
	_ = v.RegisterValidation("segment", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "." && s != ".."
	})

	return v
}

// Validate checks c and resolves BaseURL. Every configuration error is
// reported here, before any request is made.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.PrintToShell {
		return nil
	}

	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingToken
	}

	if !httpguts.ValidHeaderFieldValue(c.APIKey) {
		return ErrInvalidToken
	}

	base, err := admin.ParseBaseURL(c.UnleashURL)
	if err != nil {
		return err
	}

	c.BaseURL = base

	return nil
}

// Parse builds a Config from the flags returned by Flags, validates it and
// installs the default slog logger.
func Parse(ctx *cli.Context) (Config, error) {
	conf := Config{
		Count:                  ctx.Int("count"),
		StrategiesPerFeature:   ctx.Int("strategies-per-feature"),
		ConstraintsPerStrategy: ctx.Int("constraints-per-strategy"),
		Environment:            ctx.String("environment"),
		Project:                ctx.String("project"),
		PrintToShell:           ctx.Bool("print-to-shell"),
		Format:                 ctx.String("format"),
		UnleashURL:             ctx.String("unleash-url"),
		APIKey:                 ctx.String("api-key"),
		Seed:                   time.Now().UnixNano(),
		Input:                  ctx.Path("input"),
		Concurrency:            ctx.Int("concurrency"),
		Timeout:                ctx.Duration("timeout"),
		Rate:                   ctx.Float64("rate"),
		Retries:                ctx.Int("retries"),
		FailurePolicy:          ctx.String("failure-policy"),
		ValidatePayloads:       ctx.Bool("validate"),
		LogLevel:               ctx.String("log-level"),
		LogFormat:              ctx.String("log-format"),
	}

	if ctx.IsSet("seed") {
		conf.Seed = ctx.Int64("seed")
	}

	var level slog.Level
	if l := conf.LogLevel; l != "" {
		if err := level.UnmarshalText([]byte(l)); err != nil {
			return conf, err
		}
	}

	out := ctx.App.ErrWriter
	switch conf.LogFormat {
	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: level,
		})))
	default:
		slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: level,
		})))
	}

	if err := conf.Validate(); err != nil {
		return conf, err
	}

	return conf, nil
}
