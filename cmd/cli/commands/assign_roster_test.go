package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhollins/dutyroster/pkg/core/engine"
)

func TestSortedUtilization(t *testing.T) {
	m := map[string]engine.Utilization{
		"e3": {EmployeeID: "e3", ShiftsAssigned: 1},
		"e1": {EmployeeID: "e1", ShiftsAssigned: 3},
		"e2": {EmployeeID: "e2", ShiftsAssigned: 2},
	}

	out := sortedUtilization(m)

	ids := make([]string, len(out))
	for i, u := range out {
		ids[i] = u.EmployeeID
	}
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids)
}

func TestSortedUtilization_Empty(t *testing.T) {
	assert.Empty(t, sortedUtilization(nil))
}
