package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/leaguekit/ffsched/internal/config"
	"github.com/leaguekit/ffsched/internal/excel"
	"github.com/leaguekit/ffsched/internal/league"
	"github.com/leaguekit/ffsched/internal/matchup"
	"github.com/leaguekit/ffsched/internal/schedule"
	"github.com/leaguekit/ffsched/internal/validator"
)

const defaultConfigFile = "config.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "ffsched",
		Short: "Fantasy football season schedule generator",
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml and teams.csv in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	var configFile string
	var outputFile string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a full-season schedule",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runGenerate(configPath, outputFile)
		},
	}
	generateCmd.Flags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")

	var validateConfigFile string
	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a saved schedule against the league rules",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(validateConfigFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}
	validateCmd.Flags().StringVar(&validateConfigFile, "config", "", "Path to config file (default: config.yaml in current directory)")

	rootCmd.AddCommand(initCmd, generateCmd, validateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}
	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("✓ Created %s\n", outputPath)

	teamsPath := filepath.Join(filepath.Dir(outputPath), "teams.csv")
	if _, err := os.Stat(teamsPath); err == nil {
		return nil
	}
	if err := os.WriteFile(teamsPath, []byte(teamsTemplate), 0644); err != nil {
		return fmt.Errorf("writing teams file: %w", err)
	}
	fmt.Printf("✓ Created %s\n", teamsPath)
	return nil
}

const configTemplate = `# ffsched Season Configuration
# ============================
# Parameters for generating a fantasy football season schedule.

# League shape. Week count is forced by the shape: every team plays each
# division rival twice and everyone else once, one game per week.
league:
  teams: 12
  divisions: 3
  weeks: 14

# Roster file: one row per team with columns team_name, division_name,
# previous_season_finish (rank 1..4 within each division).
teams_file: teams.csv

# Hard constraints. A schedule that violates these is invalid.
rules:
  # Minimum week gap between a division rematch's two games, exclusive.
  # 2 means the games must be at least 3 weeks apart (week 1 -> week 4).
  rematch_cooldown: 2

# Search heuristics. The scheduler restarts with a fresh random matchup
# order whenever an attempt fails or exceeds its budget.
search:
  max_attempts: 20
  backtrack_limit: 1000000
  thrash_history: 200
  thrash_unwind_weeks: 4

  # Random seed; 0 derives one from the clock. Set a fixed value to make
  # runs reproducible.
  seed: 0
`

const teamsTemplate = `team_name,division_name,previous_season_finish
Gridiron Gurus,East,1
Blitz Brigade,East,2
End Zone Elite,East,3
Pigskin Pirates,East,4
Touchdown Titans,North,1
Hail Mary Heroes,North,2
Red Zone Raiders,North,3
Fourth Down Phantoms,North,4
Goal Line Giants,West,1
Pocket Passers,West,2
Shotgun Sharks,West,3
Flea Flicker Foxes,West,4
`

func runGenerate(configPath, outputPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	lg, err := league.Load(cfg.TeamsFile, cfg.League.Teams, cfg.League.Divisions)
	if err != nil {
		return fmt.Errorf("loading teams: %w", err)
	}
	fmt.Printf("Loaded %d teams in %d divisions\n", len(lg.Teams), len(lg.Divisions))

	seed := cfg.Search.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	opts := schedule.Options{
		Weeks:             cfg.League.Weeks,
		GamesPerWeek:      cfg.League.GamesPerWeek(),
		RematchCooldown:   cfg.Rules.RematchCooldown,
		BacktrackLimit:    cfg.Search.BacktrackLimit,
		ThrashHistory:     cfg.Search.ThrashHistory,
		ThrashUnwindWeeks: cfg.Search.ThrashUnwindWeeks,
		Progress: func(int) {
			fmt.Print(".")
		},
	}

	var sched *schedule.Schedule
	for attempt := 1; attempt <= cfg.Search.MaxAttempts; attempt++ {
		fmt.Printf("\nAttempt %d of %d: ", attempt, cfg.Search.MaxAttempts)
		s, stats, err := schedule.Attempt(lg, opts, rng)
		fmt.Println()

		if err != nil {
			switch {
			case errors.Is(err, schedule.ErrBacktrackLimit):
				fmt.Printf("Attempt %d failed: backtrack limit of %d reached\n", attempt, cfg.Search.BacktrackLimit)
			case errors.Is(err, schedule.ErrThrashUnwind):
				fmt.Printf("Attempt %d abandoned during a forced deep backtrack\n", attempt)
			case errors.Is(err, schedule.ErrExhausted):
				fmt.Printf("Attempt %d failed: no solution found on this path\n", attempt)
			default:
				// Internal-consistency fault; retrying cannot fix it.
				return err
			}
			continue
		}

		if violations := validator.Check(lg, s, cfg.Rules.RematchCooldown); len(violations) > 0 {
			for _, v := range violations {
				fmt.Fprintf(os.Stderr, "✗ %s\n", v.Message)
			}
			return fmt.Errorf("schedule passed search but failed validation; this is a bug, please report it")
		}

		fmt.Printf("✓ Schedule found on attempt %d (%d backtracks)\n", attempt, stats.Backtracks)
		sched = s
		break
	}

	if sched == nil {
		return fmt.Errorf("could not generate a valid schedule after %d attempts", cfg.Search.MaxAttempts)
	}

	printSchedule(sched)

	f, err := excel.Generate(lg, sched)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}

func printSchedule(sched *schedule.Schedule) {
	fmt.Println("\n--- Generated Schedule ---")
	for w := 1; w <= sched.Weeks; w++ {
		fmt.Printf("\nWeek %d:\n", w)
		games := make([]matchup.Matchup, len(sched.Week(w)))
		copy(games, sched.Week(w))
		sort.Slice(games, func(i, j int) bool {
			return games[i].A < games[j].A
		})
		for _, g := range games {
			fmt.Printf("  %s\n", g)
		}
	}
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	lg, err := league.Load(cfg.TeamsFile, cfg.League.Teams, cfg.League.Divisions)
	if err != nil {
		return fmt.Errorf("loading teams: %w", err)
	}

	violations, sched, err := validator.ValidateFile(cfg, lg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	for _, v := range violations {
		fmt.Printf("✗ %s\n", v.Message)
	}
	if len(violations) > 0 {
		return fmt.Errorf("%d constraint violations found", len(violations))
	}
	fmt.Println("✓ Schedule is valid and meets all constraints")

	// The master sheet is the source of truth; rebuild the per-team sheets
	// from it so hand edits carry through.
	if err := excel.UpdateTeamSheets(schedulePath, lg, sched); err != nil {
		return fmt.Errorf("updating team sheets: %w", err)
	}
	fmt.Printf("✓ Team sheets updated in %s\n", schedulePath)
	return nil
}
