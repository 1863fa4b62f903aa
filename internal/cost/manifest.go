package cost

import (
	"sort"

	"github.com/kevinaud/repo-map/internal/verbosity"
)

// FileEntry records what a single file cost at the level it was actually
// rendered.
type FileEntry struct {
	Path  string          `json:"path"`
	Level verbosity.Level `json:"level"`
	Cost  int             `json:"cost"`
}

// Contributor is a file and its token contribution, used to explain budget
// overruns.
type Contributor struct {
	Path string `json:"path"`
	Cost int    `json:"cost"`
}

// Manifest tracks per-file and aggregate token costs for one render
// invocation.
type Manifest struct {
	Budget  int         `json:"budget"`
	Actual  int         `json:"actual"`
	Overrun int         `json:"overrun"`
	Files   []FileEntry `json:"files"`

	costs map[string]FileCosts
}

// NewManifest creates an empty manifest for the given budget.
func NewManifest(budget int) *Manifest {
	return &Manifest{
		Budget: budget,
		costs:  make(map[string]FileCosts),
	}
}

// AddFile records a file's cost table and the level it was rendered at.
func (m *Manifest) AddFile(path string, costs FileCosts, rendered verbosity.Level) {
	m.AddRendered(path, costs, rendered, costs.At(rendered))
}

// AddRendered records a file with an explicit rendered cost, for files
// whose per-section selection diverges from the file-level cost table.
func (m *Manifest) AddRendered(path string, costs FileCosts, rendered verbosity.Level, actual int) {
	m.costs[path] = costs
	m.Files = append(m.Files, FileEntry{Path: path, Level: rendered, Cost: actual})
	m.Actual += actual
	if over := m.Actual - m.Budget; over > 0 {
		m.Overrun = over
	} else {
		m.Overrun = 0
	}
}

// OverBudget reports whether actual usage exceeds the budget.
func (m *Manifest) OverBudget() bool {
	return m.Actual > m.Budget
}

// CostsFor returns the full cost table recorded for a path.
func (m *Manifest) CostsFor(path string) (FileCosts, bool) {
	c, ok := m.costs[path]
	return c, ok
}

// TotalAtLevel returns the total cost if every recorded file were rendered
// at the given level.
func (m *Manifest) TotalAtLevel(level verbosity.Level) int {
	total := 0
	for _, c := range m.costs {
		total += c.At(level)
	}
	return total
}

// TopContributors returns the n files contributing the most tokens at
// their rendered level, highest first. Ties break by path for stable
// output.
func (m *Manifest) TopContributors(n int) []Contributor {
	contributors := make([]Contributor, 0, len(m.Files))
	for _, f := range m.Files {
		contributors = append(contributors, Contributor{Path: f.Path, Cost: f.Cost})
	}
	sort.Slice(contributors, func(i, j int) bool {
		if contributors[i].Cost != contributors[j].Cost {
			return contributors[i].Cost > contributors[j].Cost
		}
		return contributors[i].Path < contributors[j].Path
	})
	if len(contributors) > n {
		contributors = contributors[:n]
	}
	return contributors
}
