package config

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.flipt.io/flagseed/pkg/admin"
)

func TestConfig_Validate(t *testing.T) {
	for _, test := range []struct {
		name    string
		modify  func(*Config)
		target  error
		invalid bool
	}{
		{
			name: "upload with token",
			modify: func(c *Config) {
				c.APIKey = "*:*.abc"
			},
		},
		{
			name: "print without token",
			modify: func(c *Config) {
				c.PrintToShell = true
			},
		},
		{
			name:   "upload without token",
			modify: func(c *Config) {},
			target: ErrMissingToken,
		},
		{
			name: "blank token",
			modify: func(c *Config) {
				c.APIKey = "   "
			},
			target: ErrMissingToken,
		},
		{
			name: "token with newline",
			modify: func(c *Config) {
				c.APIKey = "*:*.abc\nX-Injected: 1"
			},
			target: ErrInvalidToken,
		},
		{
			name: "url without scheme",
			modify: func(c *Config) {
				c.APIKey = "*:*.abc"
				c.UnleashURL = "localhost:4242"
			},
			target: admin.ErrInvalidBaseURL,
		},
		{
			name: "zero counts",
			modify: func(c *Config) {
				c.PrintToShell = true
				c.Count = 0
				c.StrategiesPerFeature = 0
			},
		},
		{
			name: "negative count",
			modify: func(c *Config) {
				c.PrintToShell = true
				c.Count = -1
			},
			invalid: true,
		},
		{
			name: "zero concurrency",
			modify: func(c *Config) {
				c.PrintToShell = true
				c.Concurrency = 0
			},
			invalid: true,
		},
		{
			name: "too many retries",
			modify: func(c *Config) {
				c.PrintToShell = true
				c.Retries = 10
			},
			invalid: true,
		},
		{
			name: "negative timeout",
			modify: func(c *Config) {
				c.PrintToShell = true
				c.Timeout = -time.Second
			},
			invalid: true,
		},
		{
			name: "unknown format",
			modify: func(c *Config) {
				c.PrintToShell = true
				c.Format = "xml"
			},
			invalid: true,
		},
		{
			name: "unknown failure policy",
			modify: func(c *Config) {
				c.PrintToShell = true
				c.FailurePolicy = "ignore"
			},
			invalid: true,
		},
		{
			name: "parent environment",
			modify: func(c *Config) {
				c.APIKey = "*:*.abc"
				c.Environment = ".."
			},
			invalid: true,
		},
		{
			name: "current project",
			modify: func(c *Config) {
				c.APIKey = "*:*.abc"
				c.Project = "."
			},
			invalid: true,
		},
		{
			name: "dotted environment",
			modify: func(c *Config) {
				c.APIKey = "*:*.abc"
				c.Environment = "..staging"
			},
		},
		{
			name: "missing environment",
			modify: func(c *Config) {
				c.PrintToShell = true
				c.Environment = ""
			},
			invalid: true,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			conf := Default()
			test.modify(&conf)

			err := conf.Validate()
			switch {
			case test.target != nil:
				require.ErrorIs(t, err, test.target)
			case test.invalid:
				var verrs validator.ValidationErrors
				require.True(t, errors.As(err, &verrs), "unexpected error: %v", err)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_BaseURL(t *testing.T) {
	conf := Default()
	conf.APIKey = "*:*.abc"
	conf.UnleashURL = "https://flags.example.com/unleash"

	require.NoError(t, conf.Validate())
	require.NotNil(t, conf.BaseURL)
	assert.Equal(t, "flags.example.com", conf.BaseURL.Host)
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()

	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()

	var (
		conf Config
		err  error
	)

	app := &cli.App{
		Name:      "flagseed",
		Flags:     Flags(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Action: func(ctx *cli.Context) error {
			conf, err = Parse(ctx)
			return nil
		},
	}

	require.NoError(t, app.Run(append([]string{"flagseed"}, args...)))

	return conf, err
}

func TestParse_Defaults(t *testing.T) {
	unsetenv(t, "UNLEASH_URL")
	unsetenv(t, "API_KEY")

	conf, err := parse(t, "--print-to-shell")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Count, conf.Count)
	assert.Equal(t, def.StrategiesPerFeature, conf.StrategiesPerFeature)
	assert.Equal(t, "development", conf.Environment)
	assert.Equal(t, "default", conf.Project)
	assert.Equal(t, "http://localhost:4242", conf.UnleashURL)
	assert.Equal(t, 1, conf.Concurrency)
	assert.Equal(t, 30*time.Second, conf.Timeout)
	assert.Equal(t, "fail-fast", conf.FailurePolicy)
	assert.True(t, conf.ValidatePayloads)
	assert.True(t, conf.PrintToShell)
}

func TestParse_Flags(t *testing.T) {
	conf, err := parse(t,
		"-c", "3",
		"-s", "2",
		"-e", "production",
		"-P", "checkout",
		"-u", "http://unleash:4242",
		"-a", "*:production.abc",
		"--seed", "42",
		"--concurrency", "8",
		"--retries", "2",
		"--failure-policy", "continue",
		"--rate", "12.5",
	)
	require.NoError(t, err)

	assert.Equal(t, 3, conf.Count)
	assert.Equal(t, 2, conf.StrategiesPerFeature)
	assert.Equal(t, "production", conf.Environment)
	assert.Equal(t, "checkout", conf.Project)
	assert.Equal(t, "*:production.abc", conf.APIKey)
	assert.Equal(t, int64(42), conf.Seed)
	assert.Equal(t, 8, conf.Concurrency)
	assert.Equal(t, 2, conf.Retries)
	assert.Equal(t, "continue", conf.FailurePolicy)
	assert.Equal(t, 12.5, conf.Rate)
	assert.Equal(t, "http://unleash:4242", conf.BaseURL.String())
}

func TestParse_Env(t *testing.T) {
	t.Setenv("UNLEASH_URL", "https://flags.example.com")
	t.Setenv("API_KEY", "*:development.env")

	conf, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, "https://flags.example.com", conf.UnleashURL)
	assert.Equal(t, "*:development.env", conf.APIKey)

	// flags win over the environment
	conf, err = parse(t, "--api-key", "*:development.flag")
	require.NoError(t, err)
	assert.Equal(t, "*:development.flag", conf.APIKey)
}

func TestParse_MissingToken(t *testing.T) {
	t.Setenv("API_KEY", "")

	_, err := parse(t)
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestParse_InvalidLogLevel(t *testing.T) {
	_, err := parse(t, "--print-to-shell", "--log-level", "loud")
	require.Error(t, err)
}
