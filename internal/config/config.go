// Package config loads the YAML season configuration: league shape,
// rematch rule, search heuristics, and the roster file location.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LeagueShape fixes the size of the league. The scheduler is designed and
// tuned for the 12-team, 3-division, 14-week season; other even shapes are
// accepted but not tuned for.
type LeagueShape struct {
	Teams     int `yaml:"teams"`
	Divisions int `yaml:"divisions"`
	Weeks     int `yaml:"weeks"`
}

// TeamsPerDivision returns the uniform division size.
func (s LeagueShape) TeamsPerDivision() int {
	return s.Teams / s.Divisions
}

// GamesPerWeek is the number of games in a full week of play.
func (s LeagueShape) GamesPerWeek() int {
	return s.Teams / 2
}

// Rules are hard constraints on the generated schedule.
type Rules struct {
	// RematchCooldown is the minimum week gap between a rematch pair's two
	// games, exclusive: cooldown 2 means the games must be 3+ weeks apart.
	RematchCooldown int `yaml:"rematch_cooldown"`
}

// Search tunes the randomized-restart backtracking search.
type Search struct {
	MaxAttempts       int   `yaml:"max_attempts"`
	BacktrackLimit    int   `yaml:"backtrack_limit"`
	ThrashHistory     int   `yaml:"thrash_history"`
	ThrashUnwindWeeks int   `yaml:"thrash_unwind_weeks"`
	Seed              int64 `yaml:"seed"` // 0 = derive from the clock
}

type Config struct {
	League    LeagueShape `yaml:"league"`
	TeamsFile string      `yaml:"teams_file"`
	Rules     Rules       `yaml:"rules"`
	Search    Search      `yaml:"search"`
}

// LoadFromBytes parses YAML bytes into a Config, applies defaults, and
// validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	if c.League.Teams == 0 {
		c.League.Teams = 12
	}
	if c.League.Divisions == 0 {
		c.League.Divisions = 3
	}
	if c.League.Weeks == 0 {
		c.League.Weeks = 14
	}
	if c.TeamsFile == "" {
		c.TeamsFile = "teams.csv"
	}
	if c.Rules.RematchCooldown == 0 {
		c.Rules.RematchCooldown = 2
	}
	if c.Search.MaxAttempts == 0 {
		c.Search.MaxAttempts = 20
	}
	if c.Search.BacktrackLimit == 0 {
		c.Search.BacktrackLimit = 1_000_000
	}
	if c.Search.ThrashHistory == 0 {
		c.Search.ThrashHistory = 200
	}
	if c.Search.ThrashUnwindWeeks == 0 {
		c.Search.ThrashUnwindWeeks = 4
	}
}

func (c *Config) validate() error {
	if c.League.Divisions <= 0 || c.League.Teams <= 0 {
		return fmt.Errorf("league.teams and league.divisions must be positive")
	}
	if c.League.Teams%c.League.Divisions != 0 {
		return fmt.Errorf("%d teams cannot be split evenly into %d divisions", c.League.Teams, c.League.Divisions)
	}
	perDivision := c.League.TeamsPerDivision()
	if perDivision%2 != 0 {
		return fmt.Errorf("teams per division must be even for rivalry week pairing, got %d", perDivision)
	}

	// Each team plays every division rival twice and everyone else once,
	// one game per week, so the week count is forced by the shape.
	requiredWeeks := 2*(perDivision-1) + (c.League.Teams - perDivision)
	if c.League.Weeks != requiredWeeks {
		return fmt.Errorf("league shape %d/%d requires %d weeks, config says %d",
			c.League.Teams, c.League.Divisions, requiredWeeks, c.League.Weeks)
	}

	if c.Rules.RematchCooldown < 0 {
		return fmt.Errorf("rules.rematch_cooldown cannot be negative")
	}
	if c.Search.MaxAttempts < 1 {
		return fmt.Errorf("search.max_attempts must be at least 1")
	}
	if c.Search.BacktrackLimit < 0 {
		return fmt.Errorf("search.backtrack_limit cannot be negative")
	}
	if c.Search.ThrashHistory < 0 {
		return fmt.Errorf("search.thrash_history cannot be negative")
	}
	if c.Search.ThrashUnwindWeeks < 0 {
		return fmt.Errorf("search.thrash_unwind_weeks cannot be negative")
	}
	return nil
}
