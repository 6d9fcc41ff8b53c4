package generate

import (
	"fmt"
	"strconv"
	"time"

	"go.flipt.io/flagseed/pkg/model"
)

var (
	listContextNames   = [...]string{"userId", "sessionId", "remoteAddress", "appName", "environment"}
	numberContextNames = [...]string{"userId", "tenantId", "accountAge"}
	semverContextNames = [...]string{"appVersion", "clientVersion"}
)

const dateContextName = "currentTime"

func (g *Generator) pick(names []string) string {
	return names[g.rand.Intn(len(names))]
}

// constraint builds a constraint whose value shape matches the family
// of a randomly drawn operator.
func (g *Generator) constraint() model.Constraint {
	op := model.RandomOperator(g.rand)
	c := model.Constraint{
		Operator: op,
		Inverted: g.rand.Intn(2) == 1,
		Values:   []string{},
	}

	switch op.Family() {
	case model.FamilyList, model.FamilyString:
		c.ContextName = g.pick(listContextNames[:])
		n := 1 + g.rand.Intn(3)
		for i := 0; i < n; i++ {
			c.Values = append(c.Values, fmt.Sprintf("value-%d", g.rand.Intn(1000)))
		}

		if op.Family() == model.FamilyString {
			c.CaseInsensitive = g.rand.Intn(2) == 1
		}
	case model.FamilyNumber:
		c.ContextName = g.pick(numberContextNames[:])
		c.Value = strconv.Itoa(g.rand.Intn(1000))
	case model.FamilyDate:
		c.ContextName = dateContextName
		offset := time.Duration(g.rand.Intn(720)-360) * time.Hour
		c.Value = g.now().Add(offset).UTC().Format(time.RFC3339)
	case model.FamilySemver:
		c.ContextName = g.pick(semverContextNames[:])
		c.Value = fmt.Sprintf("%d.%d.%d", g.rand.Intn(10), g.rand.Intn(20), g.rand.Intn(50))
	}

	return c
}
