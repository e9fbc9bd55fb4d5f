package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leaguekit/ffsched/internal/config"
	"github.com/leaguekit/ffsched/internal/league"
	"github.com/leaguekit/ffsched/internal/matchup"
	"github.com/leaguekit/ffsched/internal/schedule"
)

const masterSheet = "Season Schedule"

// ValidateFile reads a saved workbook's master sheet back into a schedule
// and runs the full invariant check against it, so hand-edited workbooks
// can be re-verified. The parsed schedule is returned alongside the
// violations so callers can resync the rest of the workbook from it.
func ValidateFile(cfg *config.Config, lg *league.League, path string) ([]Violation, *schedule.Schedule, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sched, err := readMasterSheet(f, cfg.League.Weeks)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", masterSheet, err)
	}

	return Check(lg, sched, cfg.Rules.RematchCooldown), sched, nil
}

func readMasterSheet(f *excelize.File, weeks int) (*schedule.Schedule, error) {
	rows, err := f.GetRows(masterSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	sched := schedule.New(weeks)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		week, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid week %q", i+1, row[0])
		}
		if week < 1 || week > weeks {
			return nil, fmt.Errorf("row %d: week %d out of range 1..%d", i+1, week, weeks)
		}

		for _, cell := range row[1:] {
			if cell == "" {
				continue
			}
			a, b, ok := parseGameCell(cell)
			if !ok {
				return nil, fmt.Errorf("row %d: cannot parse game cell %q", i+1, cell)
			}
			sched.Games[week] = append(sched.Games[week], matchup.New(a, b))
		}
	}

	return sched, nil
}

// parseGameCell parses "A vs B" and returns both team names.
func parseGameCell(cell string) (a, b string, ok bool) {
	left, right, found := strings.Cut(cell, " vs ")
	if !found || left == "" || right == "" {
		return "", "", false
	}
	return strings.TrimSpace(left), strings.TrimSpace(right), true
}
