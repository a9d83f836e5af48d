package scheduler

import (
	"context"
	"errors"
)

// TruncationReason explains why a search stopped before exhausting the space.
type TruncationReason string

const (
	NotTruncated              TruncationReason = ""
	TruncatedResultLimit      TruncationReason = "result_limit"
	TruncatedExplorationLimit TruncationReason = "exploration_limit"
	TruncatedDeadline         TruncationReason = "deadline"
)

// contextPollInterval is how many placements are tried between context checks.
const contextPollInterval = 512

// Limits caps the work a single enumeration may do. Zero means unlimited.
type Limits struct {
	MaxResults  int
	MaxExplored int
}

// Schedule is one conflict-free selection, one section per slot group in group order.
type Schedule struct {
	Sections []Section
}

// Enumerator walks the plan depth-first and yields conflict-free schedules one at a time.
// A partial selection is abandoned as soon as a candidate conflicts with a reservation or
// with any section already chosen. It is not safe for concurrent use and cannot be rewound.
type Enumerator struct {
	groups   []SlotGroup
	reserved []Reservation
	limits   Limits

	depth  int
	cursor []int
	chosen []Section

	explored  int
	yielded   int
	done      bool
	truncated TruncationReason
	err       error
}

// NewEnumerator prepares a search over the plan.
func NewEnumerator(plan Plan, limits Limits) *Enumerator {
	return &Enumerator{
		groups:   plan.Groups,
		reserved: plan.Reserved,
		limits:   limits,
		cursor:   make([]int, len(plan.Groups)),
		chosen:   make([]Section, len(plan.Groups)),
		done:     len(plan.Groups) == 0,
	}
}

// Next advances to the next schedule. It returns false once the space is exhausted,
// a limit is hit, the context ends, or it was already exhausted.
func (e *Enumerator) Next(ctx context.Context) bool {
	if e.done {
		return false
	}
	if !e.search(ctx) {
		e.done = true
		return false
	}
	if e.limits.MaxResults > 0 && e.yielded >= e.limits.MaxResults {
		// A valid schedule exists past the ceiling.
		e.truncated = TruncatedResultLimit
		e.done = true
		return false
	}
	e.yielded++
	return true
}

// Schedule returns a copy of the current selection.
func (e *Enumerator) Schedule() Schedule {
	sections := make([]Section, len(e.chosen))
	copy(sections, e.chosen)
	return Schedule{Sections: sections}
}

// Err returns the cancellation error that stopped the search, if any.
func (e *Enumerator) Err() error {
	return e.err
}

// Truncated reports why the search stopped early, or NotTruncated.
func (e *Enumerator) Truncated() TruncationReason {
	return e.truncated
}

// Explored returns how many candidate placements were tried.
func (e *Enumerator) Explored() int {
	return e.explored
}

func (e *Enumerator) search(ctx context.Context) bool {
	last := len(e.groups) - 1
	for e.depth >= 0 {
		group := e.groups[e.depth]
		idx := e.cursor[e.depth]
		if idx >= len(group.Sections) {
			e.cursor[e.depth] = 0
			e.depth--
			continue
		}
		e.cursor[e.depth] = idx + 1
		if !e.tick(ctx) {
			return false
		}

		candidate := group.Sections[idx]
		if !e.fits(candidate) {
			continue
		}
		e.chosen[e.depth] = candidate
		if e.depth == last {
			return true
		}
		e.depth++
	}
	return false
}

func (e *Enumerator) fits(candidate Section) bool {
	for _, r := range e.reserved {
		if Conflicts(candidate.Block, r.Block) {
			return false
		}
	}
	for _, picked := range e.chosen[:e.depth] {
		if Conflicts(candidate.Block, picked.Block) {
			return false
		}
	}
	return true
}

func (e *Enumerator) tick(ctx context.Context) bool {
	e.explored++
	if e.limits.MaxExplored > 0 && e.explored > e.limits.MaxExplored {
		e.explored = e.limits.MaxExplored
		e.truncated = TruncatedExplorationLimit
		return false
	}
	if e.explored%contextPollInterval == 0 {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				e.truncated = TruncatedDeadline
			} else {
				e.err = err
			}
			return false
		}
	}
	return true
}

// Result is a fully drained enumeration.
type Result struct {
	Schedules []Schedule
	Explored  int
	Truncated TruncationReason
}

// Collect drains the enumerator. A cancelled context is returned as an error; a
// deadline is reported as truncation with the schedules found so far.
func Collect(ctx context.Context, e *Enumerator) (Result, error) {
	var schedules []Schedule
	for e.Next(ctx) {
		schedules = append(schedules, e.Schedule())
	}
	if err := e.Err(); err != nil {
		return Result{}, err
	}
	return Result{Schedules: schedules, Explored: e.Explored(), Truncated: e.Truncated()}, nil
}
