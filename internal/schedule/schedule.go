// Package schedule owns the season schedule structure and the
// backtracking search that fills it.
package schedule

import (
	"github.com/leaguekit/ffsched/internal/matchup"
)

// Schedule maps week numbers (1..Weeks) to the games played that week.
// Order within a week is not meaningful.
type Schedule struct {
	Weeks int
	Games map[int][]matchup.Matchup
}

// New returns an empty schedule spanning the given number of weeks.
func New(weeks int) *Schedule {
	return &Schedule{
		Weeks: weeks,
		Games: make(map[int][]matchup.Matchup, weeks),
	}
}

// Week returns the games in a given week.
func (s *Schedule) Week(w int) []matchup.Matchup {
	return s.Games[w]
}

// AllGames returns every placed game in week order.
func (s *Schedule) AllGames() []matchup.Matchup {
	var all []matchup.Matchup
	for w := 1; w <= s.Weeks; w++ {
		all = append(all, s.Games[w]...)
	}
	return all
}

// GameCount returns the number of placed games.
func (s *Schedule) GameCount() int {
	n := 0
	for _, games := range s.Games {
		n += len(games)
	}
	return n
}
