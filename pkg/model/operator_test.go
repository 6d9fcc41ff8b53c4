package model

import (
	"encoding/json"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperator_JSON(t *testing.T) {
	for _, test := range []struct {
		name     string
		operator Operator
		wire     string
	}{
		{name: "not in", operator: OperatorNotIn, wire: `"NOT_IN"`},
		{name: "string starts with", operator: OperatorStrStartsWith, wire: `"STR_STARTS_WITH"`},
		{name: "number greater or equal", operator: OperatorNumGte, wire: `"NUM_GTE"`},
		{name: "date before", operator: OperatorDateBefore, wire: `"DATE_BEFORE"`},
		{name: "semver greater", operator: OperatorSemverGt, wire: `"SEMVER_GT"`},
		{name: "unknown", operator: UnknownOperator("REGEX_MATCH"), wire: `"REGEX_MATCH"`},
	} {
		t.Run(test.name, func(t *testing.T) {
			data, err := json.Marshal(test.operator)
			require.NoError(t, err)
			assert.Equal(t, test.wire, string(data))

			var op Operator
			require.NoError(t, json.Unmarshal(data, &op))
			assert.Equal(t, test.operator, op)
		})
	}
}

func TestOperator_Unknown(t *testing.T) {
	op := UnknownOperator("X")
	assert.True(t, op.IsUnknown())
	assert.Equal(t, "X", op.String())
	assert.Equal(t, FamilyUnknown, op.Family())

	// known wire values never become unknown
	assert.Equal(t, OperatorIn, UnknownOperator("IN"))
	assert.False(t, UnknownOperator("IN").IsUnknown())
}

func TestOperator_Unset(t *testing.T) {
	var op Operator
	assert.True(t, op.IsZero())

	_, err := json.Marshal(op)
	require.Error(t, err)

	require.Error(t, json.Unmarshal([]byte(`""`), &op))

	// an empty unknown value cannot be read back, so it is never written
	_, err = json.Marshal(Constraint{ContextName: "appName", Operator: UnknownOperator("")})
	require.Error(t, err)
}

func TestOperator_Compare(t *testing.T) {
	ops := []Operator{
		UnknownOperator("B"),
		OperatorSemverGt,
		UnknownOperator("A"),
		OperatorIn,
		OperatorNumEq,
		OperatorNotIn,
	}

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Compare(ops[j]) < 0
	})

	assert.Equal(t, []Operator{
		OperatorNotIn,
		OperatorIn,
		OperatorNumEq,
		OperatorSemverGt,
		UnknownOperator("A"),
		UnknownOperator("B"),
	}, ops)

	assert.Equal(t, 0, OperatorIn.Compare(OperatorIn))
	assert.Equal(t, 1, UnknownOperator("").Compare(OperatorSemverGt))
}

func TestOperators(t *testing.T) {
	ops := Operators()
	require.Len(t, ops, 15)

	for i := 1; i < len(ops); i++ {
		assert.Negative(t, ops[i-1].Compare(ops[i]), "operators out of declaration order at %d", i)
	}

	// mutating the returned slice leaves the table intact
	ops[0] = OperatorSemverEq
	assert.Equal(t, OperatorNotIn, Operators()[0])
}

func TestRandomOperator(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	seen := map[Operator]int{}
	for i := 0; i < 3000; i++ {
		op := RandomOperator(r)
		require.False(t, op.IsUnknown())
		require.NotEqual(t, FamilyUnknown, op.Family())
		seen[op]++
	}

	assert.Len(t, seen, 15)
}
