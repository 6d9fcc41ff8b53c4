package model

import "encoding/json"

const (
	// StrategyGradualRollout is the strategy type name every generated
	// strategy uses.
	StrategyGradualRollout = "gradualRollout"

	ParameterRollout    = "rollout"
	ParameterStickiness = "stickiness"
	ParameterGroupID    = "groupId"

	StickinessDefault = "default"
)

// Constraint narrows when a strategy applies based on a context field.
// Values and Value are always present on the wire, even when empty.
type Constraint struct {
	ContextName     string   `json:"contextName" yaml:"contextName"`
	Operator        Operator `json:"operator" yaml:"operator"`
	CaseInsensitive bool     `json:"caseInsensitive" yaml:"caseInsensitive"`
	Inverted        bool     `json:"inverted" yaml:"inverted"`
	Values          []string `json:"values" yaml:"values"`
	Value           string   `json:"value" yaml:"value"`
}

func (c Constraint) MarshalJSON() ([]byte, error) {
	type constraint Constraint
	if c.Values == nil {
		c.Values = []string{}
	}

	return json.Marshal(constraint(c))
}

// Strategy is a rollout rule attached to a feature in one environment.
type Strategy struct {
	Name        string            `json:"name" yaml:"name"`
	Title       string            `json:"title" yaml:"title"`
	Disabled    bool              `json:"disabled" yaml:"disabled"`
	SortOrder   uint32            `json:"sortOrder" yaml:"sortOrder"`
	Constraints []Constraint      `json:"constraints" yaml:"constraints"`
	Parameters  map[string]string `json:"parameters" yaml:"parameters"`
	Segments    []uint32          `json:"segments" yaml:"segments"`
}

func (s Strategy) MarshalJSON() ([]byte, error) {
	type strategy Strategy
	if s.Constraints == nil {
		s.Constraints = []Constraint{}
	}

	if s.Parameters == nil {
		s.Parameters = map[string]string{}
	}

	if s.Segments == nil {
		s.Segments = []uint32{}
	}

	return json.Marshal(strategy(s))
}
