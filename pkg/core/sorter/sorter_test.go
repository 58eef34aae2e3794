package sorter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/workload"
)

func hired(y int) time.Time {
	return time.Date(y, 6, 1, 0, 0, 0, 0, time.UTC)
}

func testPool() []model.Employee {
	return []model.Employee{
		{ID: "e1", Name: "Ada", Role: "nurse", HireDate: hired(2015)},
		{ID: "e2", Name: "Ben", Role: "doctor", HireDate: hired(2020)},
		{ID: "e3", Name: "Cam", Role: "technician", HireDate: hired(2010)},
		{ID: "e4", Name: "Dia", Role: "general-employee", HireDate: hired(2018)},
	}
}

func ids(pool []model.Employee) []string {
	out := make([]string, len(pool))
	for i, e := range pool {
		out[i] = e.ID
	}
	return out
}

func TestRank_Seniority(t *testing.T) {
	s := New(nil, rand.New(rand.NewSource(1)))

	ranked := s.Rank(testPool(), StrategySeniority)

	assert.Equal(t, []string{"e3", "e1", "e4", "e2"}, ids(ranked))
}

func TestRank_Availability_RolePriority(t *testing.T) {
	s := New(nil, rand.New(rand.NewSource(1)))

	ranked := s.Rank(testPool(), StrategyAvailability)

	assert.Equal(t, []string{"e2", "e1", "e3", "e4"}, ids(ranked))
}

func TestRank_Availability_CustomRoleOrder(t *testing.T) {
	s := New([]string{"technician", "nurse"}, rand.New(rand.NewSource(1)))

	ranked := s.Rank(testPool(), StrategyAvailability)

	// Unlisted roles sort after every listed one
	assert.Equal(t, "e3", ranked[0].ID)
	assert.Equal(t, "e1", ranked[1].ID)
}

func TestRank_Random_IsPermutation(t *testing.T) {
	s := New(nil, rand.New(rand.NewSource(42)))
	pool := testPool()

	ranked := s.Rank(pool, StrategyRandom)

	require.Len(t, ranked, len(pool))
	assert.ElementsMatch(t, ids(pool), ids(ranked))
}

func TestRank_Balanced_PreservesRoleBlocks(t *testing.T) {
	s := New(nil, rand.New(rand.NewSource(7)))

	// Jitter stays below one rank step, so a doctor always precedes a
	// general-employee even though same-role employees shuffle
	for i := 0; i < 20; i++ {
		ranked := s.Rank(testPool(), StrategyBalanced)
		posDoctor, posGeneral := -1, -1
		for idx, e := range ranked {
			switch e.ID {
			case "e2":
				posDoctor = idx
			case "e4":
				posGeneral = idx
			}
		}
		assert.Less(t, posDoctor, posGeneral)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	s := New(nil, rand.New(rand.NewSource(1)))
	pool := testPool()
	original := ids(pool)

	s.Rank(pool, StrategySeniority)
	s.Rank(pool, StrategyRandom)

	assert.Equal(t, original, ids(pool))
}

func TestStrategyIsValid(t *testing.T) {
	assert.True(t, StrategyBalanced.IsValid())
	assert.True(t, StrategySeniority.IsValid())
	assert.True(t, StrategyAvailability.IsValid())
	assert.True(t, StrategyRandom.IsValid())
	assert.False(t, Strategy("alphabetical").IsValid())
}

func TestByWorkload_LeastLoadedFirst(t *testing.T) {
	s := New(nil, rand.New(rand.NewSource(3)))
	pool := testPool()

	shift := model.Shift{
		Date:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Start: time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC),
		End:   time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC),
		Kind:  model.KindDay,
	}

	states := map[string]workload.State{
		"e1": workload.Advance(workload.Advance(workload.NewState(), shift), shift),
		"e2": workload.Advance(workload.NewState(), shift),
		"e3": workload.NewState(),
		"e4": workload.Advance(workload.NewState(), shift),
	}

	ranked := s.ByWorkload(pool, states, false)

	assert.Equal(t, "e3", ranked[0].ID)
	assert.Equal(t, "e1", ranked[3].ID)
}

func TestByWorkload_PreferFullTimeBreaksTies(t *testing.T) {
	s := New(nil, rand.New(rand.NewSource(3)))
	pool := []model.Employee{
		{ID: "part", MaxWeeklyHours: 20},
		{ID: "full"},
	}
	states := map[string]workload.State{
		"part": workload.NewState(),
		"full": workload.NewState(),
	}

	for i := 0; i < 10; i++ {
		ranked := s.ByWorkload(pool, states, true)
		assert.Equal(t, "full", ranked[0].ID)
	}
}
