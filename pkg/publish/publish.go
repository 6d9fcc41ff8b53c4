// Package publish materializes a generated set of features in the target
// service through its admin API.
//
// Each feature is published with a fixed sequence of calls: create the
// feature, create each of its strategies in generation order, then enable
// the environment. The three steps of one feature are never run in
// parallel. Distinct features may be published concurrently.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matryer/try"
	"go.flipt.io/flagseed/pkg/generate"
	"go.flipt.io/flagseed/pkg/model"
	"go.flipt.io/flagseed/pkg/schema"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Admin is the subset of the admin API the publisher drives.
type Admin interface {
	CreateFeature(ctx context.Context, feature model.Feature) error
	CreateStrategy(ctx context.Context, feature, environment string, strategy model.Strategy) error
	EnableEnvironment(ctx context.Context, feature, environment string) error
}

// Step names one call in the per-feature sequence.
type Step string

const (
	StepCreateFeature     Step = "create feature"
	StepCreateStrategy    Step = "create strategy"
	StepEnableEnvironment Step = "enable environment"
)

// StepError identifies the call that failed while publishing a feature.
type StepError struct {
	Step    Step
	Feature string
	// Index and Strategy are only set for StepCreateStrategy.
	Index    int
	Strategy string
	Err      error
}

func (e *StepError) Error() string {
	if e.Step == StepCreateStrategy {
		return fmt.Sprintf("%s %d (%s) for feature %q: %v", e.Step, e.Index, e.Strategy, e.Feature, e.Err)
	}

	return fmt.Sprintf("%s for feature %q: %v", e.Step, e.Feature, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailurePolicy decides what happens to the rest of a run when a feature fails.
type FailurePolicy string

const (
	// FailFast aborts the whole run on the first failed call.
	FailFast FailurePolicy = "fail-fast"
	// Continue abandons only the failing feature and reports every
	// failure once all other features have been published.
	Continue FailurePolicy = "continue"
)

// ParseFailurePolicy parses the textual form of a FailurePolicy.
func ParseFailurePolicy(v string) (FailurePolicy, error) {
	switch p := FailurePolicy(v); p {
	case FailFast, Continue:
		return p, nil
	default:
		return "", fmt.Errorf("unknown failure policy: %q (should be one of [%s, %s])", v, FailFast, Continue)
	}
}

// Publisher uploads generated sets through an Admin.
type Publisher struct {
	admin       Admin
	environment string

	logger      *slog.Logger
	concurrency int
	policy      FailurePolicy
	retries     int
	limiter     *rate.Limiter
	validator   *schema.Validator
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the progress logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithConcurrency bounds how many features are published at once.
// Defaults to 1, which publishes features strictly in generation order.
func WithConcurrency(n int) Option {
	return func(p *Publisher) {
		p.concurrency = n
	}
}

// WithFailurePolicy sets the failure policy. Defaults to FailFast.
func WithFailurePolicy(policy FailurePolicy) Option {
	return func(p *Publisher) {
		p.policy = policy
	}
}

// WithRetries retries each failed call up to n more times. Defaults to 0.
func WithRetries(n int) Option {
	return func(p *Publisher) {
		p.retries = n
	}
}

// WithRate limits outbound calls to perSecond. Zero or less means unlimited.
func WithRate(perSecond float64) Option {
	return func(p *Publisher) {
		if perSecond > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithValidator checks every payload of a set before the first call is made.
func WithValidator(v *schema.Validator) Option {
	return func(p *Publisher) {
		p.validator = v
	}
}

// New returns a Publisher targeting environment through admin.
func New(admin Admin, environment string, opts ...Option) *Publisher {
	p := &Publisher{
		admin:       admin,
		environment: environment,
		logger:      slog.Default(),
		concurrency: 1,
		policy:      FailFast,
		limiter:     rate.NewLimiter(rate.Inf, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.concurrency = max(p.concurrency, 1)
	// try.Do counts the first attempt against its own limit
	p.retries = min(max(p.retries, 0), try.MaxRetries-1)

	return p
}

// Publish uploads every feature of set along with its strategies and
// enables the environment for it.
func (p *Publisher) Publish(ctx context.Context, set generate.Set) error {
	if p.validator != nil {
		if err := p.validate(set); err != nil {
			return err
		}
	}

	p.logger.Info("posting features",
		"features", len(set.Features),
		"strategies", set.StrategyCount(),
		"environment", p.environment,
		"concurrency", p.concurrency,
	)

	var (
		group, gctx = errgroup.WithContext(ctx)
		mu          sync.Mutex
		failures    []error
	)

	group.SetLimit(p.concurrency)

	for _, feature := range set.Features {
		if gctx.Err() != nil {
			break
		}

		var (
			feature    = feature
			strategies = set.Strategies[feature.Name]
		)

		group.Go(func() error {
			err := p.publishFeature(gctx, feature, strategies)
			if err == nil || p.policy == FailFast {
				return err
			}

			p.logger.Error("publishing feature", "feature", feature.Name, "error", err)

			mu.Lock()
			failures = append(failures, err)
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d features failed: %w", len(failures), len(set.Features), errors.Join(failures...))
	}

	return nil
}

func (p *Publisher) validate(set generate.Set) error {
	for _, feature := range set.Features {
		if err := p.validator.ValidateFeature(feature); err != nil {
			return err
		}

		for _, strategy := range set.Strategies[feature.Name] {
			if err := p.validator.ValidateStrategy(strategy); err != nil {
				return err
			}
		}
	}

	return nil
}

func (p *Publisher) publishFeature(ctx context.Context, feature model.Feature, strategies []model.Strategy) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.call(ctx, func(ctx context.Context) error {
		return p.admin.CreateFeature(ctx, feature)
	}); err != nil {
		return &StepError{Step: StepCreateFeature, Feature: feature.Name, Err: err}
	}

	p.logger.Info("posting strategies",
		"feature", feature.Name,
		"strategies", len(strategies),
		"environment", p.environment,
	)

	for i, strategy := range strategies {
		if err := p.call(ctx, func(ctx context.Context) error {
			return p.admin.CreateStrategy(ctx, feature.Name, p.environment, strategy)
		}); err != nil {
			return &StepError{
				Step:     StepCreateStrategy,
				Feature:  feature.Name,
				Index:    i,
				Strategy: strategy.Title,
				Err:      err,
			}
		}
	}

	if err := p.call(ctx, func(ctx context.Context) error {
		return p.admin.EnableEnvironment(ctx, feature.Name, p.environment)
	}); err != nil {
		return &StepError{Step: StepEnableEnvironment, Feature: feature.Name, Err: err}
	}

	p.logger.Info("enabled environment", "feature", feature.Name, "environment", p.environment)

	return nil
}

// call runs fn once, plus up to p.retries more times while it fails.
func (p *Publisher) call(ctx context.Context, fn func(context.Context) error) error {
	return try.Do(func(attempt int) (bool, error) {
		if err := p.limiter.Wait(ctx); err != nil {
			return false, err
		}

		err := fn(ctx)
		if err == nil || attempt > p.retries || ctx.Err() != nil {
			return false, err
		}

		p.logger.Warn("retrying request", "attempt", attempt, "error", err)

		return true, err
	})
}
