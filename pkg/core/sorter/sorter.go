// Package sorter orders a candidate employee pool ahead of each shift's
// assignment pass. Ordering is deliberately non-deterministic for the
// random and balanced strategies; callers that need reproducibility pass
// a seeded rand source.
package sorter

import (
	"math/rand"
	"sort"
	"time"

	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/workload"
)

// Strategy selects how the employee pool is ranked
type Strategy string

const (
	// StrategyBalanced orders by role-priority rank plus a bounded random
	// jitter, loosely preserving role order while shuffling within roles
	StrategyBalanced Strategy = "balanced"

	// StrategySeniority orders by ascending hire date, earliest first
	StrategySeniority Strategy = "seniority"

	// StrategyAvailability orders by ascending role-priority rank
	StrategyAvailability Strategy = "availability"

	// StrategyRandom applies a uniform random permutation, re-rolled on
	// every call
	StrategyRandom Strategy = "random"
)

// IsValid reports whether the strategy is one of the known orderings
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyBalanced, StrategySeniority, StrategyAvailability, StrategyRandom:
		return true
	}
	return false
}

// DefaultRolePriority is the standard role ordering, most critical first.
// Unlisted roles rank after every listed one.
var DefaultRolePriority = []string{"doctor", "nurse", "technician", "general-employee"}

// balancedJitter bounds the random offset added to role rank under the
// balanced strategy. Must stay below 1.0 so role order is only blurred
// within a rank, never across two adjacent ranks by more than one step.
const balancedJitter = 0.9

// Sorter ranks employee pools using an injected role-priority table
type Sorter struct {
	roleRank map[string]int
	unranked int
	rng      *rand.Rand
}

// New creates a Sorter with the given role-priority order. A nil or empty
// order falls back to DefaultRolePriority. A nil rng is seeded from the
// clock, matching production behaviour where fairness matters more than
// reproducibility.
func New(rolePriority []string, rng *rand.Rand) *Sorter {
	if len(rolePriority) == 0 {
		rolePriority = DefaultRolePriority
	}
	rank := make(map[string]int, len(rolePriority))
	for i, role := range rolePriority {
		rank[role] = i
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sorter{
		roleRank: rank,
		unranked: len(rolePriority),
		rng:      rng,
	}
}

// RoleRank returns the priority rank for a role; unknown roles sort last
func (s *Sorter) RoleRank(role string) int {
	if r, ok := s.roleRank[role]; ok {
		return r
	}
	return s.unranked
}

// Rank returns a new slice with the pool ordered per the strategy.
// The input slice is never modified.
func (s *Sorter) Rank(pool []model.Employee, strategy Strategy) []model.Employee {
	out := make([]model.Employee, len(pool))
	copy(out, pool)

	switch strategy {
	case StrategySeniority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].HireDate.Before(out[j].HireDate)
		})
	case StrategyAvailability:
		sort.SliceStable(out, func(i, j int) bool {
			return s.RoleRank(out[i].Role) < s.RoleRank(out[j].Role)
		})
	case StrategyRandom:
		s.rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	default: // balanced
		keys := make(map[string]float64, len(out))
		for _, e := range out {
			keys[e.ID] = float64(s.RoleRank(e.Role)) + s.rng.Float64()*balancedJitter
		}
		sort.SliceStable(out, func(i, j int) bool {
			return keys[out[i].ID] < keys[out[j].ID]
		})
	}
	return out
}

// ByWorkload orders the pool by ascending shifts-assigned count with random
// tie-breaks. This is the balancing step the engine applies before every
// shift, layered on top of the strategy ordering.
func (s *Sorter) ByWorkload(pool []model.Employee, states map[string]workload.State, preferFullTime bool) []model.Employee {
	out := make([]model.Employee, len(pool))
	copy(out, pool)

	// Random key assigned once per call, then a stable sort on the real
	// criteria. Equivalent to shuffle-then-stable-sort.
	tiebreak := make(map[string]float64, len(out))
	for _, e := range out {
		tiebreak[e.ID] = s.rng.Float64()
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		sa, sb := states[a.ID].ShiftsAssigned, states[b.ID].ShiftsAssigned
		if sa != sb {
			return sa < sb
		}
		if preferFullTime {
			fa, fb := a.WeeklyHourCap() >= model.DefaultMaxWeeklyHours, b.WeeklyHourCap() >= model.DefaultMaxWeeklyHours
			if fa != fb {
				return fa
			}
		}
		return tiebreak[a.ID] < tiebreak[b.ID]
	})
	return out
}
