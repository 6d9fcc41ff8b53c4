// Package generate fabricates feature flags and gradual rollout strategies.
package generate

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"go.flipt.io/flagseed/pkg/model"
)

const (
	maxRollout   = 100
	maxSortOrder = 100000
)

// Set is the output of a single generation run.
// Strategies is keyed by feature name and holds one entry per feature,
// in the same order the strategies were generated.
type Set struct {
	Features   []model.Feature             `json:"features" yaml:"features"`
	Strategies map[string][]model.Strategy `json:"strategies" yaml:"strategies"`
}

// StrategyCount returns the total number of strategies across all features.
func (s Set) StrategyCount() (n int) {
	for _, strategies := range s.Strategies {
		n += len(strategies)
	}

	return
}

// Generator produces Sets from a single pseudo-random source.
// It is not safe for concurrent use.
type Generator struct {
	seed        int64
	now         func() time.Time
	constraints int

	rand    *rand.Rand
	entropy *ulid.MonotonicEntropy
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed seeds the random source. Defaults to the current time.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithClock overrides the time source used for feature names and dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithConstraintsPerStrategy attaches n random constraints to every strategy.
func WithConstraintsPerStrategy(n int) Option {
	return func(g *Generator) {
		g.constraints = n
	}
}

// New constructs a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		seed: time.Now().UnixNano(),
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	g.rand = rand.New(rand.NewSource(g.seed))
	g.entropy = ulid.Monotonic(g.rand, 0)

	return g
}

// Seed returns the seed of the underlying random source.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate returns count features, each owning strategiesPerFeature strategies.
// Negative counts are treated as zero.
func (g *Generator) Generate(count, strategiesPerFeature int) Set {
	count, strategiesPerFeature = max(count, 0), max(strategiesPerFeature, 0)

	set := Set{
		Features:   make([]model.Feature, 0, count),
		Strategies: make(map[string][]model.Strategy, count),
	}

	for i := 0; i < count; i++ {
		feature := g.feature()
		set.Features = append(set.Features, feature)

		strategies := make([]model.Strategy, 0, strategiesPerFeature)
		for s := 0; s < strategiesPerFeature; s++ {
			strategies = append(strategies, g.strategy(feature.Name, s))
		}

		set.Strategies[feature.Name] = strategies
	}

	return set
}

func (g *Generator) feature() model.Feature {
	return model.Feature{
		Name:           ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String(),
		FeatureType:    model.RandomFeatureType(g.rand),
		ImpressionData: g.rand.Intn(2) == 1,
	}
}

// StrategyTitle is the title of the index'th strategy of a feature.
func StrategyTitle(feature string, index int) string {
	return fmt.Sprintf("strategy_%s_%d", feature, index)
}

func (g *Generator) strategy(feature string, index int) model.Strategy {
	rollout := 1 + g.rand.Intn(maxRollout-1)
	sortOrder := 1 + g.rand.Intn(maxSortOrder-1)

	constraints := make([]model.Constraint, 0, g.constraints)
	for i := 0; i < g.constraints; i++ {
		constraints = append(constraints, g.constraint())
	}

	return model.Strategy{
		Name:        model.StrategyGradualRollout,
		Title:       StrategyTitle(feature, index),
		SortOrder:   uint32(sortOrder),
		Constraints: constraints,
		Parameters: map[string]string{
			model.ParameterRollout:    strconv.Itoa(rollout),
			model.ParameterStickiness: model.StickinessDefault,
			model.ParameterGroupID:    feature,
		},
		Segments: []uint32{},
	}
}
