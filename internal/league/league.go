// Package league holds the team/division model and the roster loader.
// The loader is responsible for every guarantee the scheduling core
// relies on: exact team and division counts, unique team names, and a
// dense 1..N rank set within each division.
package league

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Team is one franchise. Rank is the previous season's finish within its
// division, 1 being first place.
type Team struct {
	Name     string
	Division string
	Rank     int
}

// Division is a named group of teams.
type Division struct {
	Name  string
	Teams []Team
}

// League is the immutable roster loaded at startup. Divisions preserve
// first-appearance order from the input file so downstream iteration is
// deterministic.
type League struct {
	Teams     []Team
	Divisions []Division
}

// TeamsPerDivision returns the (uniform) division size.
func (l *League) TeamsPerDivision() int {
	if len(l.Divisions) == 0 {
		return 0
	}
	return len(l.Divisions[0].Teams)
}

// GamesPerWeek is the number of simultaneous games when every team plays.
func (l *League) GamesPerWeek() int {
	return len(l.Teams) / 2
}

const (
	colTeamName = "team_name"
	colDivision = "division_name"
	colFinish   = "previous_season_finish"
)

// Load reads the roster CSV and validates it against the expected league
// shape: wantTeams teams split evenly across wantDivisions divisions.
func Load(path string, wantTeams, wantDivisions int) (*League, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening teams file: %w", err)
	}
	defer f.Close()

	lg, err := Parse(f, wantTeams, wantDivisions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lg, nil
}

// Parse reads roster rows from r and validates them. Header fields are
// normalized (trimmed, lowercased, spaces collapsed to underscores) so
// "Team Name" and "team_name" are equivalent.
func Parse(r io.Reader, wantTeams, wantDivisions int) (*League, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}
	for _, required := range []string{colTeamName, colDivision, colFinish} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var teams []Team
	byDivision := make(map[string][]Team)
	var divisionOrder []string
	seen := make(map[string]bool)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		team := Team{
			Name:     strings.TrimSpace(row[cols[colTeamName]]),
			Division: strings.TrimSpace(row[cols[colDivision]]),
		}
		if team.Name == "" || team.Division == "" {
			return nil, fmt.Errorf("line %d: team name and division name cannot be empty", line)
		}
		if seen[team.Name] {
			return nil, fmt.Errorf("line %d: duplicate team %q", line, team.Name)
		}
		seen[team.Name] = true

		rank, err := strconv.Atoi(strings.TrimSpace(row[cols[colFinish]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s %q", line, colFinish, row[cols[colFinish]])
		}
		team.Rank = rank

		teams = append(teams, team)
		if _, ok := byDivision[team.Division]; !ok {
			divisionOrder = append(divisionOrder, team.Division)
		}
		byDivision[team.Division] = append(byDivision[team.Division], team)
	}

	if len(teams) != wantTeams {
		return nil, fmt.Errorf("league must have exactly %d teams, found %d", wantTeams, len(teams))
	}
	if len(byDivision) != wantDivisions {
		return nil, fmt.Errorf("league must have exactly %d divisions, found %d", wantDivisions, len(byDivision))
	}

	perDivision := wantTeams / wantDivisions
	divisions := make([]Division, 0, len(divisionOrder))
	for _, name := range divisionOrder {
		members := byDivision[name]
		if len(members) != perDivision {
			return nil, fmt.Errorf("division %q must have %d teams, found %d", name, perDivision, len(members))
		}
		if err := checkRanks(name, members, perDivision); err != nil {
			return nil, err
		}
		divisions = append(divisions, Division{Name: name, Teams: members})
	}

	return &League{Teams: teams, Divisions: divisions}, nil
}

// checkRanks requires each division's ranks to be exactly 1..size. The
// rivalry-week pairing unpacks teams by rank order and is undefined
// otherwise.
func checkRanks(division string, teams []Team, size int) error {
	ranks := make([]int, len(teams))
	for i, t := range teams {
		ranks[i] = t.Rank
	}
	sort.Ints(ranks)
	for i, r := range ranks {
		if r != i+1 {
			return fmt.Errorf("division %q: ranks must form a dense 1..%d set, got %v", division, size, ranks)
		}
	}
	return nil
}

func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff") // strip BOM from the first field
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}
