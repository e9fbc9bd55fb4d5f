// Package excel renders a completed schedule as a workbook: a master
// week-by-week sheet plus one sheet per team.
package excel

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/leaguekit/ffsched/internal/league"
	"github.com/leaguekit/ffsched/internal/matchup"
	"github.com/leaguekit/ffsched/internal/schedule"
)

// MasterSheet is the name of the week-grid sheet; the validate command
// parses it back out of saved workbooks.
const MasterSheet = "Season Schedule"

// Generate creates an Excel workbook for the schedule.
func Generate(lg *league.League, sched *schedule.Schedule) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := writeMasterSheet(f, lg, sched); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}
	if err := writeTeamSheets(f, lg, sched); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// UpdateTeamSheets rewrites the per-team sheets of an existing workbook
// from the given schedule, so hand edits to the master sheet propagate to
// each team's view.
func UpdateTeamSheets(path string, lg *league.League, sched *schedule.Schedule) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if err := writeTeamSheets(f, lg, sched); err != nil {
		return fmt.Errorf("writing team sheets: %w", err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	return nil
}

func writeMasterSheet(f *excelize.File, lg *league.League, sched *schedule.Schedule) error {
	f.NewSheet(MasterSheet)

	gamesPerWeek := lg.GamesPerWeek()
	headers := []string{"Week"}
	for i := 1; i <= gamesPerWeek; i++ {
		headers = append(headers, fmt.Sprintf("Game %d", i))
	}
	for i, h := range headers {
		f.SetCellValue(MasterSheet, cellRef(i+1, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if headerStyle != 0 {
		for i := range headers {
			f.SetCellStyle(MasterSheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
		}
	}

	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	rivalryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFE699"}},
	})

	for w := 1; w <= sched.Weeks; w++ {
		row := w + 1
		f.SetCellValue(MasterSheet, cellRef(1, row), w)

		games := make([]matchup.Matchup, len(sched.Week(w)))
		copy(games, sched.Week(w))
		sort.Slice(games, func(i, j int) bool {
			return games[i].A < games[j].A
		})
		for i, g := range games {
			f.SetCellValue(MasterSheet, cellRef(i+2, row), g.String())
		}

		style := cellStyle
		if w == sched.Weeks {
			style = rivalryStyle
		}
		if style != 0 {
			f.SetCellStyle(MasterSheet, cellRef(1, row), cellRef(len(headers), row), style)
		}
	}

	f.SetColWidth(MasterSheet, "A", "A", 10)
	for i := 0; i < gamesPerWeek; i++ {
		col := colLetter(i + 2)
		f.SetColWidth(MasterSheet, col, col, 36)
	}

	return nil
}

func writeTeamSheets(f *excelize.File, lg *league.League, sched *schedule.Schedule) error {
	divisionOf := make(map[string]string)
	for _, t := range lg.Teams {
		divisionOf[t.Name] = t.Division
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})

	for _, team := range lg.Teams {
		sheet := team.Name
		f.NewSheet(sheet)

		headers := []string{"Week", "Opponent", "Type"}
		for i, h := range headers {
			f.SetCellValue(sheet, cellRef(i+1, 1), h)
			if headerStyle != 0 {
				f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
			}
		}

		for w := 1; w <= sched.Weeks; w++ {
			row := w + 1
			opponent := ""
			for _, g := range sched.Week(w) {
				if g.A == team.Name {
					opponent = g.B
				} else if g.B == team.Name {
					opponent = g.A
				}
			}

			kind := "Interdivision"
			if divisionOf[opponent] == team.Division {
				kind = "Division"
			}
			if w == sched.Weeks {
				kind = "Rivalry"
			}

			f.SetCellValue(sheet, cellRef(1, row), w)
			f.SetCellValue(sheet, cellRef(2, row), opponent)
			f.SetCellValue(sheet, cellRef(3, row), kind)
			if cellStyle != 0 {
				for col := 1; col <= len(headers); col++ {
					f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), cellStyle)
				}
			}
		}

		widths := map[string]float64{"A": 10, "B": 24, "C": 16}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}

	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
