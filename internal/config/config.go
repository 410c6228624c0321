// Package config holds the gameplay balance knobs for the outbreak
// simulation: infection and cure rates, build costs, and the region
// catalog. A Balance value is immutable once handed to the engine.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rates tunes how fast infection spreads and how fast outposts cure it.
type Rates struct {
	// BaseInfectionPerHour is the infection gained by every province per
	// in-game hour on day 1, before the daily ramp is applied.
	BaseInfectionPerHour float64 `yaml:"base_infection_per_hour"`

	// DailyGrowth ramps the virus: strength = 1 + DailyGrowth*(day-1).
	DailyGrowth float64 `yaml:"daily_growth"`

	// LocalCurePerHour is the infection removed per active outpost per
	// hour in the outpost's own province.
	LocalCurePerHour float64 `yaml:"local_cure_per_hour"`

	// GlobalCurePerHour is the cure progress contributed per hour by a
	// single outpost before diminishing returns.
	GlobalCurePerHour float64 `yaml:"global_cure_per_hour"`

	// DiminishingFactor discounts each successive outpost's global
	// contribution: the i-th outpost (by build order) contributes
	// DiminishingFactor^i of a full share. Must be in (0,1].
	DiminishingFactor float64 `yaml:"diminishing_factor"`

	// DisableThreshold is the infection level at which a province's
	// outposts shut down. They resume once infection drops back below it.
	DisableThreshold float64 `yaml:"disable_threshold"`

	// FullyInfectedThreshold marks a province as lost for construction
	// purposes and counts it toward the defeat condition.
	FullyInfectedThreshold float64 `yaml:"fully_infected_threshold"`

	// InitialInfectionMin and InitialInfectionMax bound the seeded
	// starting infection of each province. Equal values give every
	// province the same fixed start.
	InitialInfectionMin float64 `yaml:"initial_infection_min"`
	InitialInfectionMax float64 `yaml:"initial_infection_max"`

	// BonusMultiplier scales the global contribution of outposts built
	// in bonus regions.
	BonusMultiplier float64 `yaml:"bonus_multiplier"`
}

// Costs tunes the outpost economy.
type Costs struct {
	// OutpostBase is the price of the first outpost anywhere in the world.
	OutpostBase int `yaml:"outpost_base"`

	// OutpostPerExisting is added to the price for every outpost already
	// built, regardless of province.
	OutpostPerExisting int `yaml:"outpost_per_existing"`

	// StartingCurrency is the shared balance at the start of a run.
	StartingCurrency int `yaml:"starting_currency"`
}

// Region is one entry of the region catalog.
type Region struct {
	ID string `yaml:"id"`

	// Bonus regions give their outposts a boosted global contribution.
	Bonus bool `yaml:"bonus"`
}

// Balance is the full gameplay configuration for one run.
type Balance struct {
	Rates   Rates    `yaml:"rates"`
	Costs   Costs    `yaml:"costs"`
	Regions []Region `yaml:"regions"`
}

// Default returns the baseline balance configuration.
func Default() Balance {
	return Balance{
		Rates: Rates{
			BaseInfectionPerHour:   0.0125,
			DailyGrowth:            0.06,
			LocalCurePerHour:       0.02,
			GlobalCurePerHour:      0.004,
			DiminishingFactor:      0.85,
			DisableThreshold:       0.8,
			FullyInfectedThreshold: 0.99,
			InitialInfectionMin:    0.05,
			InitialInfectionMax:    0.15,
			BonusMultiplier:        1.5,
		},
		Costs: Costs{
			OutpostBase:        20,
			OutpostPerExisting: 8,
			StartingCurrency:   200,
		},
		Regions: []Region{
			{ID: "altai"},
			{ID: "baltora", Bonus: true},
			{ID: "corvane"},
			{ID: "drellin"},
			{ID: "esker"},
			{ID: "frostmoor"},
			{ID: "galthia", Bonus: true},
			{ID: "harrow"},
			{ID: "ithorn"},
			{ID: "jarnvik"},
			{ID: "kessara"},
			{ID: "lumen"},
		},
	}
}

// Casual returns an easier balance for casual play.
func Casual() Balance {
	cfg := Default()
	cfg.Rates.BaseInfectionPerHour = 0.009
	cfg.Rates.DailyGrowth = 0.04
	cfg.Rates.LocalCurePerHour = 0.025
	cfg.Rates.GlobalCurePerHour = 0.005
	cfg.Costs.StartingCurrency = 280
	return cfg
}

// Hard returns a tougher balance for experienced players.
func Hard() Balance {
	cfg := Default()
	cfg.Rates.BaseInfectionPerHour = 0.016
	cfg.Rates.DailyGrowth = 0.08
	cfg.Rates.DiminishingFactor = 0.8
	cfg.Rates.InitialInfectionMax = 0.25
	cfg.Costs.OutpostPerExisting = 12
	cfg.Costs.StartingCurrency = 160
	return cfg
}

// ByDifficulty maps a difficulty name to its preset. Unknown names fall
// back to the default balance.
func ByDifficulty(name string) Balance {
	switch name {
	case "casual":
		return Casual()
	case "hard":
		return Hard()
	default:
		return Default()
	}
}

// Load reads a YAML balance file layered on top of the default
// configuration, so override files only need the keys they change.
func Load(path string) (Balance, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Balance{}, fmt.Errorf("parse balance file: %w", err)
	}
	return cfg, nil
}

// Validate reports the first problem that would make the balance
// unusable by the simulation engine.
func (b Balance) Validate() error {
	if len(b.Regions) == 0 {
		return fmt.Errorf("region catalog is empty")
	}
	seen := make(map[string]bool, len(b.Regions))
	for _, r := range b.Regions {
		if r.ID == "" {
			return fmt.Errorf("region with empty id")
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate region id %q", r.ID)
		}
		seen[r.ID] = true
	}
	r := b.Rates
	if r.DisableThreshold <= 0 || r.DisableThreshold > 1 {
		return fmt.Errorf("disable threshold %v outside (0,1]", r.DisableThreshold)
	}
	if r.FullyInfectedThreshold <= 0 || r.FullyInfectedThreshold > 1 {
		return fmt.Errorf("fully infected threshold %v outside (0,1]", r.FullyInfectedThreshold)
	}
	if r.DisableThreshold > r.FullyInfectedThreshold {
		return fmt.Errorf("disable threshold %v above fully infected threshold %v",
			r.DisableThreshold, r.FullyInfectedThreshold)
	}
	if r.DiminishingFactor <= 0 || r.DiminishingFactor > 1 {
		return fmt.Errorf("diminishing factor %v outside (0,1]", r.DiminishingFactor)
	}
	if r.InitialInfectionMin < 0 || r.InitialInfectionMax > 1 ||
		r.InitialInfectionMin > r.InitialInfectionMax {
		return fmt.Errorf("initial infection range [%v,%v] invalid",
			r.InitialInfectionMin, r.InitialInfectionMax)
	}
	if r.BaseInfectionPerHour < 0 || r.LocalCurePerHour < 0 || r.GlobalCurePerHour < 0 {
		return fmt.Errorf("rates must be non-negative")
	}
	if r.BonusMultiplier <= 0 {
		return fmt.Errorf("bonus multiplier %v must be positive", r.BonusMultiplier)
	}
	c := b.Costs
	if c.OutpostBase < 0 || c.OutpostPerExisting < 0 || c.StartingCurrency < 0 {
		return fmt.Errorf("costs must be non-negative")
	}
	return nil
}
