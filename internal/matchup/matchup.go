// Package matchup generates the multiset of games a season must contain:
// intra-division opponents meet twice, inter-division opponents once, and
// the final week is fixed by previous-season rank.
package matchup

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/leaguekit/ffsched/internal/league"
)

// Matchup is an unordered pair of team names held in canonical order
// (A < B), so equality and counting ignore which side is listed first.
type Matchup struct {
	A, B string
}

// New returns the canonical matchup for two teams.
func New(a, b string) Matchup {
	if a > b {
		a, b = b, a
	}
	return Matchup{A: a, B: b}
}

func (m Matchup) String() string {
	return fmt.Sprintf("%s vs %s", m.A, m.B)
}

// RequiredMatchups builds the full multiset of games: every same-division
// pair appears twice and every cross-division pair once. The returned order
// is deterministic. A size other than teams × weeks / 2 means the
// generation rule and the configured league shape have drifted apart, which
// is a fatal internal fault rather than a user error.
func RequiredMatchups(lg *league.League, weeks int) ([]Matchup, error) {
	var matchups []Matchup

	for _, div := range lg.Divisions {
		for i := 0; i < len(div.Teams); i++ {
			for j := i + 1; j < len(div.Teams); j++ {
				m := New(div.Teams[i].Name, div.Teams[j].Name)
				matchups = append(matchups, m, m)
			}
		}
	}

	for i := 0; i < len(lg.Divisions); i++ {
		for j := i + 1; j < len(lg.Divisions); j++ {
			for _, t1 := range lg.Divisions[i].Teams {
				for _, t2 := range lg.Divisions[j].Teams {
					matchups = append(matchups, New(t1.Name, t2.Name))
				}
			}
		}
	}

	expected := len(lg.Teams) * weeks / 2
	if len(matchups) != expected {
		return nil, fmt.Errorf("generated %d matchups, expected %d: generation rule and league shape are out of sync", len(matchups), expected)
	}
	return matchups, nil
}

// Generate returns the required multiset in a fresh random order. The
// permutation is what makes independent search attempts explore different
// regions of the space; it has no bearing on correctness.
func Generate(lg *league.League, weeks int, rng *rand.Rand) ([]Matchup, error) {
	matchups, err := RequiredMatchups(lg, weeks)
	if err != nil {
		return nil, err
	}
	rng.Shuffle(len(matchups), func(i, j int) {
		matchups[i], matchups[j] = matchups[j], matchups[i]
	})
	return matchups, nil
}

// Rematches returns the set of pairs that occur exactly twice in the
// multiset, which by construction are the intra-division pairs.
func Rematches(matchups []Matchup) map[Matchup]bool {
	counts := make(map[Matchup]int)
	for _, m := range matchups {
		counts[m]++
	}
	rematches := make(map[Matchup]bool)
	for m, n := range counts {
		if n == 2 {
			rematches[m] = true
		}
	}
	return rematches
}

// RivalryWeek returns the fixed final-week slate: within each division,
// teams sorted by rank play their rank neighbor (1v2, 3v4, ...).
// Deterministic given the roster; the search never re-derives these.
func RivalryWeek(lg *league.League) []Matchup {
	var matchups []Matchup
	for _, div := range lg.Divisions {
		ranked := make([]league.Team, len(div.Teams))
		copy(ranked, div.Teams)
		sort.Slice(ranked, func(i, j int) bool {
			return ranked[i].Rank < ranked[j].Rank
		})
		for i := 0; i+1 < len(ranked); i += 2 {
			matchups = append(matchups, New(ranked[i].Name, ranked[i+1].Name))
		}
	}
	return matchups
}
