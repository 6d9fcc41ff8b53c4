// Package schema validates admin API request bodies before they are sent.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.flipt.io/flagseed/pkg/model"
)

var (
	//go:embed feature.schema.json
	featureSchema []byte

	//go:embed strategy.schema.json
	strategySchema []byte
)

// ValidationError lists every schema violation found in one payload.
type ValidationError struct {
	Kind   string
	Name   string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Name, strings.Join(e.Errors, "; "))
}

// Validator checks features and strategies against the admin API schemas.
type Validator struct {
	feature  *gojsonschema.Schema
	strategy *gojsonschema.Schema
}

// New compiles the bundled schemas.
func New() (*Validator, error) {
	feature, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(featureSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling feature schema: %w", err)
	}

	strategy, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(strategySchema))
	if err != nil {
		return nil, fmt.Errorf("compiling strategy schema: %w", err)
	}

	return &Validator{feature: feature, strategy: strategy}, nil
}

func (v *Validator) ValidateFeature(feature model.Feature) error {
	return validate(v.feature, "feature", feature.Name, feature)
}

func (v *Validator) ValidateStrategy(strategy model.Strategy) error {
	return validate(v.strategy, "strategy", strategy.Title, strategy)
}

func validate(schema *gojsonschema.Schema, kind, name string, doc any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating %s %q: %w", kind, name, err)
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Kind: kind, Name: name}
	for _, re := range result.Errors() {
		verr.Errors = append(verr.Errors, re.String())
	}

	return verr
}
