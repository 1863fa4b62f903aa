// Package cost provides deterministic token cost estimation and budget
// accounting for rendered output.
package cost

import (
	"fmt"

	"github.com/kevinaud/repo-map/internal/verbosity"
)

// tokenDivisor is the fixed chars-per-token heuristic. Roughly four
// characters per token on average for code and prose.
const tokenDivisor = 4

// EstimateTokens estimates the token count of a text span. Deterministic
// and pure: length in bytes divided by a fixed divisor, floored.
func EstimateTokens(text string) int {
	return len(text) / tokenDivisor
}

// FileCosts maps each verbosity level to the token cost of the text that
// would be rendered at that level.
type FileCosts map[verbosity.Level]int

// NewFileCosts builds a cost map from the per-level rendered texts. Costs
// are clamped so they are monotonically non-decreasing in level: a higher
// level discloses a superset of information, and the cost table must
// reflect that even when a level's rendered text happens to be shorter
// than the one below it (an empty structure listing versus a long path,
// for example).
func NewFileCosts(existence, structure, iface, implementation string) FileCosts {
	costs := FileCosts{verbosity.Exclude: 0}
	prev := 0
	for _, entry := range []struct {
		level verbosity.Level
		text  string
	}{
		{verbosity.Existence, existence},
		{verbosity.Structure, structure},
		{verbosity.Interface, iface},
		{verbosity.Implementation, implementation},
	} {
		c := EstimateTokens(entry.text)
		if c < prev {
			c = prev
		}
		costs[entry.level] = c
		prev = c
	}
	return costs
}

// At returns the cost at a level, 0 for unknown levels.
func (c FileCosts) At(level verbosity.Level) int {
	return c[level]
}

// FormatAnnotation formats the inline per-file cost breakdown line.
func FormatAnnotation(costs FileCosts) string {
	return fmt.Sprintf("# Costs: L0=%d, L1=%d, L2=%d, L3=%d, L4=%d tokens",
		costs.At(verbosity.Exclude),
		costs.At(verbosity.Existence),
		costs.At(verbosity.Structure),
		costs.At(verbosity.Interface),
		costs.At(verbosity.Implementation))
}

// FormatBudgetWarning formats the trailing budget overrun warning line.
func FormatBudgetWarning(budget, actual int) string {
	return fmt.Sprintf("# BUDGET EXCEEDED: %d tokens (budget: %d, +%d)",
		actual, budget, actual-budget)
}
