package config

import "github.com/urfave/cli/v2"

const envPrefix = "FLAGSEED_"

// Flags are the command line flags understood by Parse.
func Flags() []cli.Flag {
	def := Default()

	return []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Value:   def.Count,
			Usage:   "number of features to generate",
			EnvVars: []string{envPrefix + "COUNT"},
		},
		&cli.IntFlag{
			Name:    "strategies-per-feature",
			Aliases: []string{"s"},
			Value:   def.StrategiesPerFeature,
			Usage:   "number of strategies generated for each feature",
			EnvVars: []string{envPrefix + "STRATEGIES_PER_FEATURE"},
		},
		&cli.IntFlag{
			Name:    "constraints-per-strategy",
			Value:   def.ConstraintsPerStrategy,
			Usage:   "number of random constraints attached to each strategy",
			EnvVars: []string{envPrefix + "CONSTRAINTS_PER_STRATEGY"},
		},
		&cli.StringFlag{
			Name:    "environment",
			Aliases: []string{"e"},
			Value:   def.Environment,
			Usage:   "environment the strategies are added to and enabled in",
			EnvVars: []string{envPrefix + "ENVIRONMENT"},
		},
		&cli.StringFlag{
			Name:    "project",
			Aliases: []string{"P"},
			Value:   def.Project,
			Usage:   "project the features are created in",
			EnvVars: []string{envPrefix + "PROJECT"},
		},
		&cli.BoolFlag{
			Name:    "print-to-shell",
			Aliases: []string{"p"},
			Usage:   "print the generated data instead of uploading it",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   def.Format,
			Usage:   "print format (one of [text, json, yaml])",
		},
		&cli.StringFlag{
			Name:    "unleash-url",
			Aliases: []string{"u"},
			Value:   def.UnleashURL,
			Usage:   "base `URL` of the target service",
			EnvVars: []string{"UNLEASH_URL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Aliases: []string{"a"},
			Usage:   "admin API token sent as the Authorization header",
			EnvVars: []string{"API_KEY"},
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "seed for the random source",
			DefaultText: "current time",
			EnvVars:     []string{envPrefix + "SEED"},
		},
		&cli.PathFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "read the set from a json or yaml `FILE` written with --print-to-shell instead of generating one",
			EnvVars: []string{envPrefix + "INPUT"},
		},
		&cli.IntFlag{
			Name:    "concurrency",
			Value:   def.Concurrency,
			Usage:   "number of features uploaded in parallel",
			EnvVars: []string{envPrefix + "CONCURRENCY"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   def.Timeout,
			Usage:   "timeout for each request (0 disables it)",
			EnvVars: []string{envPrefix + "TIMEOUT"},
		},
		&cli.Float64Flag{
			Name:    "rate",
			Usage:   "maximum requests per second (0 is unlimited)",
			EnvVars: []string{envPrefix + "RATE"},
		},
		&cli.IntFlag{
			Name:    "retries",
			Usage:   "retries for each failed request (at most 9)",
			EnvVars: []string{envPrefix + "RETRIES"},
		},
		&cli.StringFlag{
			Name:    "failure-policy",
			Value:   def.FailurePolicy,
			Usage:   "what to do when a feature fails (one of [fail-fast, continue])",
			EnvVars: []string{envPrefix + "FAILURE_POLICY"},
		},
		&cli.BoolFlag{
			Name:    "validate",
			Value:   def.ValidatePayloads,
			Usage:   "validate payloads against the admin API schemas before uploading",
			EnvVars: []string{envPrefix + "VALIDATE"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   def.LogLevel,
			Usage:   "log level (one of [debug, info, warn, error])",
			EnvVars: []string{envPrefix + "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   def.LogFormat,
			Usage:   "log format (one of [text, json])",
			EnvVars: []string{envPrefix + "LOG_FORMAT"},
		},
	}
}
