package policy

import (
	"fmt"

	"toolchest/internal/method"
)

// Strategy is a named reordering of catalog priorities. auto leaves
// catalog priorities unchanged; the presets remap priorities through a
// fixed rank table. Methods absent from a preset's table keep their
// catalog-declared priority.
type Strategy string

const (
	StrategyAuto          Strategy = "auto"
	StrategySystemFirst   Strategy = "system-first"
	StrategyLanguageFirst Strategy = "language-first"
	StrategyIsolatedFirst Strategy = "isolated-first"
)

var strategyRanks = map[Strategy]map[method.Method]int{
	StrategySystemFirst: {
		method.Apt:  1,
		method.Brew: 2,
	},
	StrategyLanguageFirst: {
		method.Cargo: 1,
		method.Pipx:  2,
		method.Npm:   3,
		method.Pip:   4,
		method.Gem:   5,
	},
	StrategyIsolatedFirst: {
		method.Pipx:          1,
		method.Cargo:         2,
		method.GithubRelease: 3,
	},
}

// ParseStrategy validates a strategy tag.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyAuto, StrategySystemFirst, StrategyLanguageFirst, StrategyIsolatedFirst:
		return Strategy(s), nil
	}
	return StrategyAuto, fmt.Errorf("unknown strategy %q", s)
}

// AdjustPriority maps a catalog priority through the strategy's rank
// table.
func AdjustPriority(m method.Method, base int, s Strategy) int {
	ranks, ok := strategyRanks[s]
	if !ok {
		return base
	}
	if rank, ok := ranks[m]; ok {
		return rank
	}
	return base
}
