package model

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFeature_JSON(t *testing.T) {
	feature := Feature{
		Name:           "01HBQ4WJ6XK3ZB9V8A7M5N2P1R",
		FeatureType:    FeatureTypeExperiment,
		ImpressionData: true,
	}

	data, err := json.Marshal(feature)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "01HBQ4WJ6XK3ZB9V8A7M5N2P1R",
		"description": null,
		"featureType": "experiment",
		"impressionData": true
	}`, string(data))

	var decoded Feature
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, feature, decoded)
}

func TestFeatureType_Invalid(t *testing.T) {
	var feature Feature
	err := json.Unmarshal([]byte(`{"name":"a","featureType":"killSwitch"}`), &feature)
	require.Error(t, err)

	_, err = json.Marshal(Feature{Name: "a"})
	require.Error(t, err)
}

func TestRandomFeatureType(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	seen := map[FeatureType]struct{}{}
	for i := 0; i < 400; i++ {
		seen[RandomFeatureType(r)] = struct{}{}
	}

	assert.Equal(t, map[FeatureType]struct{}{
		FeatureTypeRelease:     {},
		FeatureTypeOperational: {},
		FeatureTypeExperiment:  {},
		FeatureTypePermission:  {},
	}, seen)
}

func testStrategy() Strategy {
	return Strategy{
		Name:      StrategyGradualRollout,
		Title:     "strategy_abc_0",
		SortOrder: 4242,
		Constraints: []Constraint{
			{
				ContextName:     "userId",
				Operator:        UnknownOperator("X"),
				CaseInsensitive: true,
				Values:          []string{},
				Value:           "",
			},
			{
				ContextName: "appName",
				Operator:    OperatorIn,
				Inverted:    true,
				Values:      []string{"web", "ios"},
				Value:       "",
			},
		},
		Parameters: map[string]string{
			ParameterRollout:    "37",
			ParameterStickiness: StickinessDefault,
			ParameterGroupID:    "abc",
		},
		Segments: []uint32{},
	}
}

func TestStrategy_JSON(t *testing.T) {
	strategy := testStrategy()

	data, err := json.Marshal(strategy)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "gradualRollout",
		"title": "strategy_abc_0",
		"disabled": false,
		"sortOrder": 4242,
		"constraints": [
			{"contextName": "userId", "operator": "X", "caseInsensitive": true, "inverted": false, "values": [], "value": ""},
			{"contextName": "appName", "operator": "IN", "caseInsensitive": false, "inverted": true, "values": ["web", "ios"], "value": ""}
		],
		"parameters": {"rollout": "37", "stickiness": "default", "groupId": "abc"},
		"segments": []
	}`, string(data))

	var decoded Strategy
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, strategy, decoded)
}

func TestStrategy_JSON_EmptyCollections(t *testing.T) {
	data, err := json.Marshal(Strategy{
		Name:        StrategyGradualRollout,
		Constraints: []Constraint{{ContextName: "userId", Operator: OperatorNumEq, Value: "3"}},
	})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, map[string]any{}, wire["parameters"])
	assert.Equal(t, []any{}, wire["segments"])

	constraint := wire["constraints"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{}, constraint["values"])
	assert.Equal(t, "3", constraint["value"])
}

func TestStrategy_YAML(t *testing.T) {
	strategy := testStrategy()

	data, err := yaml.Marshal(strategy)
	require.NoError(t, err)
	assert.Contains(t, string(data), "operator: X\n")
	assert.Contains(t, string(data), "operator: IN\n")

	var decoded Strategy
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, strategy, decoded)
}
