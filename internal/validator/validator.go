// Package validator independently proves a completed schedule correct. It
// re-derives every invariant from the roster alone, reusing none of the
// search's bookkeeping, so search bugs cannot hide behind their own state.
package validator

import (
	"fmt"

	"github.com/leaguekit/ffsched/internal/league"
	"github.com/leaguekit/ffsched/internal/matchup"
	"github.com/leaguekit/ffsched/internal/schedule"
)

// Violation is one failed invariant.
type Violation struct {
	Message string
}

// Check verifies a fully placed schedule against every invariant. An empty
// result means the schedule is valid. A non-empty result for a schedule the
// search reported as successful indicates a search-logic bug, not a hard
// instance.
func Check(lg *league.League, sched *schedule.Schedule, cooldown int) []Violation {
	required, err := matchup.RequiredMatchups(lg, sched.Weeks)
	if err != nil {
		return []Violation{{Message: err.Error()}}
	}

	var violations []Violation
	violations = append(violations, checkGameCounts(sched, required)...)
	violations = append(violations, checkWeeklyStructure(lg, sched)...)
	violations = append(violations, checkRivalryWeek(lg, sched)...)
	violations = append(violations, checkRematchSpacing(sched, required, cooldown)...)
	return violations
}

// checkGameCounts verifies the schedule holds exactly the required multiset:
// same total, same matchups, same multiplicities.
func checkGameCounts(sched *schedule.Schedule, required []matchup.Matchup) []Violation {
	var violations []Violation

	placed := sched.AllGames()
	if len(placed) != len(required) {
		violations = append(violations, Violation{
			Message: fmt.Sprintf("schedule has %d games, expected %d", len(placed), len(required)),
		})
	}

	counts := make(map[matchup.Matchup]int)
	for _, m := range required {
		counts[m]++
	}
	for _, m := range placed {
		counts[m]--
	}
	for m, n := range counts {
		switch {
		case n > 0:
			violations = append(violations, Violation{
				Message: fmt.Sprintf("%s is scheduled %d fewer time(s) than required", m, n),
			})
		case n < 0:
			violations = append(violations, Violation{
				Message: fmt.Sprintf("%s is scheduled %d more time(s) than required", m, -n),
			})
		}
	}
	return violations
}

// checkWeeklyStructure verifies every week holds a full slate with each
// team playing exactly once.
func checkWeeklyStructure(lg *league.League, sched *schedule.Schedule) []Violation {
	var violations []Violation
	gamesPerWeek := lg.GamesPerWeek()

	for w := 1; w <= sched.Weeks; w++ {
		games := sched.Week(w)
		if len(games) != gamesPerWeek {
			violations = append(violations, Violation{
				Message: fmt.Sprintf("week %d has %d games, expected %d", w, len(games), gamesPerWeek),
			})
			continue
		}

		appearances := make(map[string]int)
		for _, g := range games {
			appearances[g.A]++
			appearances[g.B]++
		}
		for _, t := range lg.Teams {
			if appearances[t.Name] != 1 {
				violations = append(violations, Violation{
					Message: fmt.Sprintf("%s plays %d games in week %d, expected 1", t.Name, appearances[t.Name], w),
				})
			}
		}
	}
	return violations
}

// checkRivalryWeek verifies the final week matches the slate recomputed
// from current rank data.
func checkRivalryWeek(lg *league.League, sched *schedule.Schedule) []Violation {
	expected := make(map[matchup.Matchup]bool)
	for _, m := range matchup.RivalryWeek(lg) {
		expected[m] = true
	}

	var violations []Violation
	final := sched.Week(sched.Weeks)
	seen := make(map[matchup.Matchup]bool)
	for _, g := range final {
		seen[g] = true
		if !expected[g] {
			violations = append(violations, Violation{
				Message: fmt.Sprintf("week %d game %s is not a rivalry-week pairing", sched.Weeks, g),
			})
		}
	}
	for m := range expected {
		if !seen[m] {
			violations = append(violations, Violation{
				Message: fmt.Sprintf("rivalry-week game %s is missing from week %d", m, sched.Weeks),
			})
		}
	}
	return violations
}

// checkRematchSpacing verifies the cooldown between each rematch pair's two
// games, and that no two rematch pairs occupy the same sorted week pair.
func checkRematchSpacing(sched *schedule.Schedule, required []matchup.Matchup, cooldown int) []Violation {
	var violations []Violation

	locations := make(map[matchup.Matchup][]int)
	for w := 1; w <= sched.Weeks; w++ {
		for _, g := range sched.Week(w) {
			locations[g] = append(locations[g], w)
		}
	}

	weekPairs := make(map[[2]int]bool)
	for m, weeks := range locations {
		if len(weeks) != 2 {
			continue
		}
		a, b := weeks[0], weeks[1]
		if a > b {
			a, b = b, a
		}
		if b-a <= cooldown {
			violations = append(violations, Violation{
				Message: fmt.Sprintf("rematch %s in weeks %d and %d violates the %d-week cooldown", m, a, b, cooldown),
			})
		}
		weekPairs[[2]int{a, b}] = true
	}

	rematches := matchup.Rematches(required)
	if len(weekPairs) != len(rematches) {
		violations = append(violations, Violation{
			Message: fmt.Sprintf("rematches use %d distinct week pairs, expected %d: a week-pair pattern repeats", len(weekPairs), len(rematches)),
		})
	}
	return violations
}
