package model

import (
	"fmt"
	"math/rand"
	"strings"
)

type operatorKind uint8

// Declaration order defines Operator ordering. operatorUnknown must stay last.
const (
	operatorUnset operatorKind = iota
	operatorNotIn
	operatorIn
	operatorStrEndsWith
	operatorStrStartsWith
	operatorStrContains
	operatorNumEq
	operatorNumGt
	operatorNumGte
	operatorNumLt
	operatorNumLte
	operatorDateAfter
	operatorDateBefore
	operatorSemverEq
	operatorSemverLt
	operatorSemverGt
	operatorUnknown
)

var operatorNames = map[operatorKind]string{
	operatorNotIn:         "NOT_IN",
	operatorIn:            "IN",
	operatorStrEndsWith:   "STR_ENDS_WITH",
	operatorStrStartsWith: "STR_STARTS_WITH",
	operatorStrContains:   "STR_CONTAINS",
	operatorNumEq:         "NUM_EQ",
	operatorNumGt:         "NUM_GT",
	operatorNumGte:        "NUM_GTE",
	operatorNumLt:         "NUM_LT",
	operatorNumLte:        "NUM_LTE",
	operatorDateAfter:     "DATE_AFTER",
	operatorDateBefore:    "DATE_BEFORE",
	operatorSemverEq:      "SEMVER_EQ",
	operatorSemverLt:      "SEMVER_LT",
	operatorSemverGt:      "SEMVER_GT",
}

// Operator is the comparison applied by a Constraint.
//
// It is a closed set of known operators plus an unknown case which carries
// the raw wire value of an operator this package does not recognise.
// The zero value is unset and cannot be marshalled.
type Operator struct {
	kind operatorKind
	raw  string
}

var (
	OperatorNotIn         = Operator{kind: operatorNotIn}
	OperatorIn            = Operator{kind: operatorIn}
	OperatorStrEndsWith   = Operator{kind: operatorStrEndsWith}
	OperatorStrStartsWith = Operator{kind: operatorStrStartsWith}
	OperatorStrContains   = Operator{kind: operatorStrContains}
	OperatorNumEq         = Operator{kind: operatorNumEq}
	OperatorNumGt         = Operator{kind: operatorNumGt}
	OperatorNumGte        = Operator{kind: operatorNumGte}
	OperatorNumLt         = Operator{kind: operatorNumLt}
	OperatorNumLte        = Operator{kind: operatorNumLte}
	OperatorDateAfter     = Operator{kind: operatorDateAfter}
	OperatorDateBefore    = Operator{kind: operatorDateBefore}
	OperatorSemverEq      = Operator{kind: operatorSemverEq}
	OperatorSemverLt      = Operator{kind: operatorSemverLt}
	OperatorSemverGt      = Operator{kind: operatorSemverGt}
)

// operators is the sampling table for RandomOperator.
var operators = [...]Operator{
	0:  OperatorNotIn,
	1:  OperatorIn,
	2:  OperatorStrEndsWith,
	3:  OperatorStrStartsWith,
	4:  OperatorStrContains,
	5:  OperatorNumEq,
	6:  OperatorNumGt,
	7:  OperatorNumGte,
	8:  OperatorNumLt,
	9:  OperatorNumLte,
	10: OperatorDateAfter,
	11: OperatorDateBefore,
	12: OperatorSemverEq,
	13: OperatorSemverLt,
	14: OperatorSemverGt,
}

// RandomOperator draws one of the known operators uniformly from r.
func RandomOperator(r *rand.Rand) Operator {
	return operators[r.Intn(len(operators))]
}

// Operators returns every known operator in declaration order.
func Operators() []Operator {
	ops := make([]Operator, len(operators))
	copy(ops, operators[:])
	return ops
}

// UnknownOperator wraps a wire value this package does not recognise.
// When text names a known operator, that operator is returned instead so
// that values round-trip through their wire form unchanged.
func UnknownOperator(text string) Operator {
	if op, ok := parseKnownOperator(text); ok {
		return op
	}

	return Operator{kind: operatorUnknown, raw: text}
}

func parseKnownOperator(text string) (Operator, bool) {
	for kind, name := range operatorNames {
		if name == text {
			return Operator{kind: kind}, true
		}
	}

	return Operator{}, false
}

// IsUnknown reports whether o carries an unrecognised wire value.
func (o Operator) IsUnknown() bool {
	return o.kind == operatorUnknown
}

// IsZero reports whether o is unset.
func (o Operator) IsZero() bool {
	return o.kind == operatorUnset
}

// Family groups operators by the shape of value they compare against.
type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyList
	FamilyString
	FamilyNumber
	FamilyDate
	FamilySemver
)

func (o Operator) Family() Family {
	switch o.kind {
	case operatorNotIn, operatorIn:
		return FamilyList
	case operatorStrEndsWith, operatorStrStartsWith, operatorStrContains:
		return FamilyString
	case operatorNumEq, operatorNumGt, operatorNumGte, operatorNumLt, operatorNumLte:
		return FamilyNumber
	case operatorDateAfter, operatorDateBefore:
		return FamilyDate
	case operatorSemverEq, operatorSemverLt, operatorSemverGt:
		return FamilySemver
	default:
		return FamilyUnknown
	}
}

// Compare orders operators by declaration order. Unknown operators sort
// after every known operator and amongst themselves by raw value.
func (o Operator) Compare(other Operator) int {
	switch {
	case o.kind < other.kind:
		return -1
	case o.kind > other.kind:
		return 1
	case o.kind == operatorUnknown:
		return strings.Compare(o.raw, other.raw)
	default:
		return 0
	}
}

func (o Operator) String() string {
	switch o.kind {
	case operatorUnset:
		return ""
	case operatorUnknown:
		return o.raw
	default:
		return operatorNames[o.kind]
	}
}

func (o Operator) MarshalText() ([]byte, error) {
	if o.kind == operatorUnset {
		return nil, fmt.Errorf("operator not set")
	}

	if o.kind == operatorUnknown && o.raw == "" {
		return nil, fmt.Errorf("operator: empty value")
	}

	return []byte(o.String()), nil
}

func (o *Operator) UnmarshalText(v []byte) error {
	if len(v) == 0 {
		return fmt.Errorf("operator: empty value")
	}

	*o = UnknownOperator(string(v))
	return nil
}
