package jacks

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MachineFile is the optional yaml machine configuration: the bonus switch,
// meter defaults and paytable row overrides keyed by hand name
// ("royal_flush", "full_house", ...).
type MachineFile struct {
	BonusEnabled    *bool            `yaml:"bonus_enabled"`
	StartingCredits int              `yaml:"starting_credits"`
	DefaultBet      int              `yaml:"default_bet"`
	Seed            int64            `yaml:"seed"`
	Paytable        map[string][]int `yaml:"paytable"`
}

func LoadMachineFile(path string) (*MachineFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f MachineFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse machine file %s: %w", path, err)
	}
	return &f, nil
}

// Apply overlays the file onto a Config. Unknown paytable keys and rows that
// are not exactly 5 payouts are rejected.
func (f *MachineFile) Apply(cfg *Config) error {
	if f.BonusEnabled != nil {
		cfg.BonusEnabled = *f.BonusEnabled
	}
	if f.StartingCredits > 0 {
		cfg.StartingCredits = f.StartingCredits
	}
	if f.DefaultBet > 0 {
		cfg.DefaultBet = f.DefaultBet
	}
	if f.Seed != 0 {
		cfg.Seed = f.Seed
	}
	if len(f.Paytable) == 0 {
		return nil
	}

	table := DefaultPaytable
	if cfg.Paytable != nil {
		table = *cfg.Paytable
	}
	for key, row := range f.Paytable {
		hand, ok := handByKey(key)
		if !ok {
			return fmt.Errorf("unknown paytable hand %q", key)
		}
		if len(row) != MaxBetLevel {
			return fmt.Errorf("paytable row %q needs %d payouts, got %d", key, MaxBetLevel, len(row))
		}
		for i, v := range row {
			if v < 0 {
				return fmt.Errorf("paytable row %q has negative payout", key)
			}
			table[hand][i] = v
		}
	}
	cfg.Paytable = &table
	return nil
}

// handByKey resolves "two_pair" / "Two Pair" style keys to a Hand* constant.
func handByKey(key string) (byte, bool) {
	want := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "_", " "))
	for hand, name := range HandTypeDictionary {
		if strings.ToLower(name) == want {
			return hand, true
		}
	}
	return 0, false
}
