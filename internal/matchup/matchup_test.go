package matchup

import (
	"math/rand"
	"testing"

	"github.com/leaguekit/ffsched/internal/league"
)

// testLeague is the documented 12-team, 3-division league. Names within
// divisions are deliberately not in rank order.
func testLeague() *league.League {
	divisions := []league.Division{
		{Name: "East", Teams: []league.Team{
			{Name: "Pirates", Division: "East", Rank: 1},
			{Name: "Aardvarks", Division: "East", Rank: 2},
			{Name: "Zephyrs", Division: "East", Rank: 3},
			{Name: "Miners", Division: "East", Rank: 4},
		}},
		{Name: "North", Teams: []league.Team{
			{Name: "Titans", Division: "North", Rank: 2},
			{Name: "Heroes", Division: "North", Rank: 1},
			{Name: "Raiders", Division: "North", Rank: 4},
			{Name: "Phantoms", Division: "North", Rank: 3},
		}},
		{Name: "West", Teams: []league.Team{
			{Name: "Giants", Division: "West", Rank: 4},
			{Name: "Passers", Division: "West", Rank: 3},
			{Name: "Sharks", Division: "West", Rank: 2},
			{Name: "Foxes", Division: "West", Rank: 1},
		}},
	}
	var teams []league.Team
	for _, d := range divisions {
		teams = append(teams, d.Teams...)
	}
	return &league.League{Teams: teams, Divisions: divisions}
}

func TestNewIsCanonical(t *testing.T) {
	if New("Zephyrs", "Aardvarks") != New("Aardvarks", "Zephyrs") {
		t.Error("matchup equality depends on argument order")
	}
	m := New("Zephyrs", "Aardvarks")
	if m.A != "Aardvarks" || m.B != "Zephyrs" {
		t.Errorf("canonical order = (%s, %s), want (Aardvarks, Zephyrs)", m.A, m.B)
	}
	if m.String() != "Aardvarks vs Zephyrs" {
		t.Errorf("String() = %q", m.String())
	}
}

func TestRequiredMatchups(t *testing.T) {
	lg := testLeague()
	matchups, err := RequiredMatchups(lg, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("total game count", func(t *testing.T) {
		// Intra: 3 divisions × C(4,2) pairs × 2 games = 36.
		// Inter: C(3,2) division pairs × 4×4 = 48. Total 84 = 12×14/2.
		if len(matchups) != 84 {
			t.Errorf("total matchups = %d, want 84", len(matchups))
		}
	})

	t.Run("pair multiplicities", func(t *testing.T) {
		counts := make(map[Matchup]int)
		for _, m := range matchups {
			counts[m]++
		}

		divisionOf := make(map[string]string)
		for _, team := range lg.Teams {
			divisionOf[team.Name] = team.Division
		}

		for i := 0; i < len(lg.Teams); i++ {
			for j := i + 1; j < len(lg.Teams); j++ {
				a, b := lg.Teams[i].Name, lg.Teams[j].Name
				want := 1
				if divisionOf[a] == divisionOf[b] {
					want = 2
				}
				if got := counts[New(a, b)]; got != want {
					t.Errorf("%s: multiplicity = %d, want %d", New(a, b), got, want)
				}
			}
		}
	})

	t.Run("week count drift is fatal", func(t *testing.T) {
		if _, err := RequiredMatchups(lg, 13); err == nil {
			t.Error("expected error for inconsistent week count")
		}
	})
}

func TestGeneratePreservesMultiset(t *testing.T) {
	lg := testLeague()
	required, err := RequiredMatchups(lg, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shuffled, err := Generate(lg, 14, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := make(map[Matchup]int)
	for _, m := range required {
		want[m]++
	}
	got := make(map[Matchup]int)
	for _, m := range shuffled {
		got[m]++
	}
	for m, n := range want {
		if got[m] != n {
			t.Errorf("%s: multiplicity = %d, want %d", m, got[m], n)
		}
	}
	if len(got) != len(want) {
		t.Errorf("distinct pairs = %d, want %d", len(got), len(want))
	}

	t.Run("same seed reproduces the order", func(t *testing.T) {
		again, err := Generate(lg, 14, rand.New(rand.NewSource(42)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := range shuffled {
			if again[i] != shuffled[i] {
				t.Fatalf("order diverges at index %d: %s vs %s", i, again[i], shuffled[i])
			}
		}
	})
}

func TestRematches(t *testing.T) {
	lg := testLeague()
	matchups, err := RequiredMatchups(lg, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rematches := Rematches(matchups)

	// 3 divisions × C(4,2) intra-division pairs.
	if len(rematches) != 18 {
		t.Errorf("rematch pairs = %d, want 18", len(rematches))
	}
	for m := range rematches {
		divisionOf := make(map[string]string)
		for _, team := range lg.Teams {
			divisionOf[team.Name] = team.Division
		}
		if divisionOf[m.A] != divisionOf[m.B] {
			t.Errorf("%s is a rematch but crosses divisions", m)
		}
	}
}

func TestRivalryWeek(t *testing.T) {
	lg := testLeague()
	slate := RivalryWeek(lg)

	t.Run("pairs ranks regardless of name order", func(t *testing.T) {
		want := map[Matchup]bool{
			New("Pirates", "Aardvarks"): true, // East ranks 1 and 2
			New("Zephyrs", "Miners"):    true, // East ranks 3 and 4
			New("Heroes", "Titans"):     true, // North ranks 1 and 2
			New("Phantoms", "Raiders"):  true, // North ranks 3 and 4
			New("Foxes", "Sharks"):      true, // West ranks 1 and 2
			New("Passers", "Giants"):    true, // West ranks 3 and 4
		}
		if len(slate) != 6 {
			t.Fatalf("rivalry games = %d, want 6", len(slate))
		}
		for _, m := range slate {
			if !want[m] {
				t.Errorf("unexpected rivalry pairing %s", m)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		again := RivalryWeek(lg)
		if len(again) != len(slate) {
			t.Fatalf("slate size changed: %d vs %d", len(again), len(slate))
		}
		for i := range slate {
			if again[i] != slate[i] {
				t.Errorf("slate diverges at index %d: %s vs %s", i, again[i], slate[i])
			}
		}
	})
}
