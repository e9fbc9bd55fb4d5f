package schedule

import (
	"errors"
	"math/rand"

	"github.com/leaguekit/ffsched/internal/league"
	"github.com/leaguekit/ffsched/internal/matchup"
)

// Reason codes for a failed attempt. All three are recoverable by retrying
// with a fresh matchup order; they differ only in diagnostics.
var (
	// ErrExhausted means the search ran out of legal placements.
	ErrExhausted = errors.New("no legal placement found for remaining matchups")
	// ErrBacktrackLimit means the attempt was cut off by its backtrack budget.
	ErrBacktrackLimit = errors.New("backtrack limit exceeded")
	// ErrThrashUnwind means the attempt ended while a forced deep backtrack
	// was still unwinding the stack.
	ErrThrashUnwind = errors.New("abandoned during forced deep backtrack")
)

// Options tunes one search attempt.
type Options struct {
	Weeks           int
	GamesPerWeek    int
	RematchCooldown int

	// BacktrackLimit bounds total backtrack events per attempt. Hard
	// cutoff: once exceeded, the attempt fails even if a solution was one
	// step away.
	BacktrackLimit int

	// ThrashHistory is the capacity of the week-change history window used
	// for oscillation detection. Zero or negative disables detection.
	ThrashHistory int

	// ThrashUnwindWeeks is how many weeks' worth of placements a forced
	// deep backtrack unwinds once thrashing is detected.
	ThrashUnwindWeeks int

	// Progress, when set, is invoked every 1000 search iterations.
	Progress func(iterations int)
}

// Stats reports per-attempt search effort.
type Stats struct {
	Iterations int
	Backtracks int
}

// Attempt runs one complete, self-contained search: generate a freshly
// shuffled matchup multiset, fix the rivalry-week slate, and backtrack over
// the remaining weeks. It returns a fully placed schedule or a
// reason-coded error; never a partial schedule. Attempts share nothing but
// the rng, so callers may retry freely.
func Attempt(lg *league.League, opts Options, rng *rand.Rand) (*Schedule, Stats, error) {
	games, err := matchup.Generate(lg, opts.Weeks, rng)
	if err != nil {
		// Internal-consistency fault, not a search failure.
		return nil, Stats{}, err
	}

	s := newSolver(opts, matchup.Rematches(games))

	for _, m := range matchup.RivalryWeek(lg) {
		s.sched.Games[opts.Weeks] = append(s.sched.Games[opts.Weeks], m)
		games = removeFirst(games, m)
	}

	if s.search(games, 0) {
		return s.sched, s.stats(), nil
	}

	switch {
	case s.backtracks > opts.BacktrackLimit:
		err = ErrBacktrackLimit
	case s.forceUnwind > 0:
		err = ErrThrashUnwind
	default:
		err = ErrExhausted
	}
	return nil, s.stats(), err
}

// solver is the mutable state of one in-flight attempt. Nothing here is
// shared across attempts or goroutines.
type solver struct {
	opts      Options
	rematches map[matchup.Matchup]bool
	sched     *Schedule

	iterations  int
	backtracks  int
	lastWeek    int
	weekHistory []int
	forceUnwind int
}

func newSolver(opts Options, rematches map[matchup.Matchup]bool) *solver {
	return &solver{
		opts:      opts,
		rematches: rematches,
		sched:     New(opts.Weeks),
		lastWeek:  -1,
	}
}

func (s *solver) stats() Stats {
	return Stats{Iterations: s.iterations, Backtracks: s.backtracks}
}

// search fills slots in a fixed order: weeks Weeks-1 down to 1, GamesPerWeek
// slots each. Working backward from the fixed final week is a performance
// heuristic only; it does not change the feasible set.
func (s *solver) search(remaining []matchup.Matchup, slot int) bool {
	if s.backtracks > s.opts.BacktrackLimit {
		return false
	}
	if s.forceUnwind > 0 {
		s.forceUnwind--
		s.backtracks++
		return false
	}

	s.iterations++
	if s.opts.Progress != nil && s.iterations%1000 == 0 {
		s.opts.Progress(s.iterations)
	}

	totalSlots := (s.opts.Weeks - 1) * s.opts.GamesPerWeek
	if slot >= totalSlots {
		return true
	}

	week := s.opts.Weeks - 1 - slot/s.opts.GamesPerWeek
	if week != s.lastWeek {
		s.lastWeek = week
		if s.recordWeek(week) {
			// Oscillating between two weeks without progress: force the
			// next several entries to fail so the stack unwinds through
			// multiple weeks of decisions before normal search resumes.
			s.forceUnwind = s.opts.ThrashUnwindWeeks * s.opts.GamesPerWeek
			return false
		}
	}

	for i, m := range remaining {
		if s.teamBusy(week, m) {
			continue
		}
		if s.rematches[m] {
			if other := s.otherWeek(m, week); other != 0 {
				if abs(week-other) <= s.opts.RematchCooldown {
					continue
				}
				if s.weekPairUsed(other, week) {
					continue
				}
			}
		}

		s.sched.Games[week] = append(s.sched.Games[week], m)

		// The child gets its own copy of the remaining list; this frame's
		// slice must survive the recursion untouched for backtracking.
		rest := make([]matchup.Matchup, 0, len(remaining)-1)
		rest = append(rest, remaining[:i]...)
		rest = append(rest, remaining[i+1:]...)

		if s.search(rest, slot+1) {
			return true
		}

		placed := s.sched.Games[week]
		s.sched.Games[week] = placed[:len(placed)-1]
		s.backtracks++
	}

	return false
}

// recordWeek appends to the bounded week-change history and reports whether
// thrashing was detected: a full window containing exactly two distinct
// weeks. Detection clears the history so it cannot immediately re-trigger.
func (s *solver) recordWeek(w int) bool {
	if s.opts.ThrashHistory <= 0 {
		return false
	}
	s.weekHistory = append(s.weekHistory, w)
	if len(s.weekHistory) > s.opts.ThrashHistory {
		s.weekHistory = s.weekHistory[1:]
	}
	if len(s.weekHistory) < s.opts.ThrashHistory {
		return false
	}
	distinct := make(map[int]bool)
	for _, h := range s.weekHistory {
		distinct[h] = true
	}
	if len(distinct) != 2 {
		return false
	}
	s.weekHistory = s.weekHistory[:0]
	return true
}

// teamBusy reports whether either side of m already plays in the week.
func (s *solver) teamBusy(week int, m matchup.Matchup) bool {
	for _, g := range s.sched.Games[week] {
		if g.A == m.A || g.A == m.B || g.B == m.A || g.B == m.B {
			return true
		}
	}
	return false
}

// otherWeek returns the week where m's other occurrence is already placed,
// or 0 if it is not placed yet. The fixed final week counts: a rivalry
// game is one leg of its pair's rematch.
func (s *solver) otherWeek(m matchup.Matchup, week int) int {
	for w, games := range s.sched.Games {
		if w == week {
			continue
		}
		for _, g := range games {
			if g == m {
				return w
			}
		}
	}
	return 0
}

// weekPairUsed reports whether the sorted week pair (w1, w2) already hosts
// some other fully placed rematch. Two distinct rematch pairs may not reuse
// the same "week X vs week Y" pattern.
func (s *solver) weekPairUsed(w1, w2 int) bool {
	if w1 > w2 {
		w1, w2 = w2, w1
	}
	locations := make(map[matchup.Matchup][]int)
	for week, games := range s.sched.Games {
		for _, g := range games {
			if s.rematches[g] {
				locations[g] = append(locations[g], week)
			}
		}
	}
	for _, weeks := range locations {
		if len(weeks) != 2 {
			continue
		}
		a, b := weeks[0], weeks[1]
		if a > b {
			a, b = b, a
		}
		if a == w1 && b == w2 {
			return true
		}
	}
	return false
}

func removeFirst(games []matchup.Matchup, m matchup.Matchup) []matchup.Matchup {
	for i, g := range games {
		if g == m {
			out := make([]matchup.Matchup, 0, len(games)-1)
			out = append(out, games[:i]...)
			return append(out, games[i+1:]...)
		}
	}
	return games
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
