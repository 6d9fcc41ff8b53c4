package model

import (
	"fmt"
	"math/rand"
)

// FeatureType is the kind of a feature flag as understood by the admin API.
type FeatureType string

const (
	FeatureTypeRelease     FeatureType = "release"
	FeatureTypeOperational FeatureType = "operational"
	FeatureTypeExperiment  FeatureType = "experiment"
	FeatureTypePermission  FeatureType = "permission"
)

// featureTypes is the sampling table for RandomFeatureType.
// Index i is drawn with probability 1/len(featureTypes).
var featureTypes = [...]FeatureType{
	0: FeatureTypeRelease,
	1: FeatureTypeOperational,
	2: FeatureTypeExperiment,
	3: FeatureTypePermission,
}

// RandomFeatureType draws a FeatureType uniformly from r.
func RandomFeatureType(r *rand.Rand) FeatureType {
	return featureTypes[r.Intn(len(featureTypes))]
}

func (t FeatureType) valid() bool {
	for _, known := range featureTypes {
		if t == known {
			return true
		}
	}

	return false
}

func (t FeatureType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("unknown feature type: %q", string(t))
	}

	return []byte(t), nil
}

func (t *FeatureType) UnmarshalText(v []byte) error {
	typ := FeatureType(v)
	if !typ.valid() {
		return fmt.Errorf("unknown feature type: %q", string(v))
	}

	*t = typ
	return nil
}

// Feature is a flag definition posted to the features endpoint.
type Feature struct {
	Name           string      `json:"name" yaml:"name"`
	Description    *string     `json:"description" yaml:"description"`
	FeatureType    FeatureType `json:"featureType" yaml:"featureType"`
	ImpressionData bool        `json:"impressionData" yaml:"impressionData"`
}
