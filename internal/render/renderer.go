// Package render composes the final map text from ranked file nodes,
// enforcing the token budget.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kevinaud/repo-map/internal/cost"
	"github.com/kevinaud/repo-map/internal/errors"
	"github.com/kevinaud/repo-map/internal/plan"
	"github.com/kevinaud/repo-map/internal/scan"
	"github.com/kevinaud/repo-map/internal/verbosity"
)

// Policy selects how a budget overrun is handled.
type Policy int

const (
	// Soft renders everything and appends a warning when over budget.
	Soft Policy = iota
	// Strict stops before exceeding the budget and fails.
	Strict
)

// Status is the terminal state of a render.
type Status string

const (
	StatusOK             Status = "OK"
	StatusBudgetWarned   Status = "BUDGET_WARNED"
	StatusBudgetRejected Status = "BUDGET_REJECTED"
	StatusEmpty          Status = "EMPTY"
)

// Options configures one render invocation.
type Options struct {
	Policy    Policy
	ShowCosts bool
}

// Result is the outcome of a render: the composed output, the cost
// manifest, and any per-file diagnostics collected along the way.
type Result struct {
	Status      Status
	Output      string
	Manifest    *cost.Manifest
	Diagnostics []string
}

// Renderer applies a plan's verbosity rules to ranked nodes.
type Renderer struct {
	plan   *plan.Plan
	logger *slog.Logger
}

// New creates a renderer. A nil plan falls back to defaults, a nil
// logger discards output.
func New(p *plan.Plan, logger *slog.Logger) *Renderer {
	if p == nil {
		p = plan.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{plan: p, logger: logger}
}

// Render emits nodes in descending score order, ties broken by path
// ascending so identical inputs produce byte-identical output. The
// budget policy decides whether an overrun warns or rejects.
//
// Cancellation between files leaves the partial output well-formed;
// the result is returned alongside the Cancelled error.
func (r *Renderer) Render(ctx context.Context, nodes []*scan.FileNode, opts Options) (*Result, error) {
	ordered := make([]*scan.FileNode, len(nodes))
	copy(ordered, nodes)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		return ordered[i].Path < ordered[j].Path
	})

	res := &Result{Manifest: cost.NewManifest(r.plan.Budget)}
	var parts []string
	rendered := 0
	renderedTokens := 0
	skipped := 0

	for _, node := range ordered {
		if err := ctx.Err(); err != nil {
			r.finish(res, parts, rendered, renderedTokens)
			res.Status = statusFor(res, rendered)
			return res, errors.New(errors.Cancelled, "render cancelled", err)
		}

		level, sectionRules := r.plan.ResolveLevel(node.Path)
		if level == verbosity.Exclude {
			continue
		}
		if node.Binary {
			// Binary files only ever get a path marker.
			level, sectionRules = verbosity.Existence, nil
		}

		block, tokens := r.renderFile(node, level, sectionRules, opts.ShowCosts)

		// The manifest accounts every non-excluded file, so a strict
		// rejection can report the would-be total and its top
		// contributors.
		res.Manifest.AddRendered(node.Path, node.Costs, level, tokens)

		if opts.Policy == Strict && renderedTokens+tokens > r.plan.Budget {
			// Greedy: later, cheaper files may still fit.
			skipped++
			continue
		}

		if node.Diagnostic != "" {
			res.Diagnostics = append(res.Diagnostics, node.Path+": "+node.Diagnostic)
		}
		parts = append(parts, block)
		rendered++
		renderedTokens += tokens
	}

	if opts.Policy == Strict && skipped > 0 {
		r.finish(res, parts, rendered, renderedTokens)
		res.Status = StatusBudgetRejected
		top := res.Manifest.TopContributors(5)
		detail := map[string]interface{}{
			"budget":          res.Manifest.Budget,
			"actual":          res.Manifest.Actual,
			"overrun":         res.Manifest.Overrun,
			"topContributors": top,
		}
		return res, errors.New(errors.BudgetExceeded,
			fmt.Sprintf("budget %d exceeded: would render %d tokens",
				res.Manifest.Budget, res.Manifest.Actual), nil).WithDetails(detail)
	}

	if rendered == 0 {
		res.Status = StatusEmpty
		res.Output = ""
		return res, errors.New(errors.EmptyResult, "every file resolved to EXCLUDE", nil)
	}

	r.finish(res, parts, rendered, renderedTokens)
	if res.Manifest.OverBudget() {
		res.Status = StatusBudgetWarned
		res.Output += "\n" + cost.FormatBudgetWarning(res.Manifest.Budget, res.Manifest.Actual)
	} else {
		res.Status = StatusOK
	}

	r.logger.Debug("render complete",
		slog.String("status", string(res.Status)),
		slog.Int("files", rendered),
		slog.Int("tokens", res.Manifest.Actual))
	return res, nil
}

// renderFile produces one file block and its token cost.
func (r *Renderer) renderFile(node *scan.FileNode, level verbosity.Level, sectionRules []plan.SectionRule, showCosts bool) (string, int) {
	var b strings.Builder
	b.WriteString("## ")
	b.WriteString(node.Path)
	b.WriteByte('\n')
	if showCosts {
		b.WriteString(cost.FormatAnnotation(node.Costs))
		b.WriteByte('\n')
	}

	if level == verbosity.Existence {
		tokens := node.Costs.At(verbosity.Existence)
		fmt.Fprintf(&b, "# [path only - %d tokens]\n", tokens)
		return b.String(), tokens
	}

	body := r.fileBody(node, level, sectionRules)
	tokens := cost.EstimateTokens(body)
	if tokens == 0 {
		tokens = node.Costs.At(verbosity.Existence)
	}
	if body != "" {
		b.WriteString("```\n")
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString("```\n")
	}
	return b.String(), tokens
}

// fileBody renders the file at its level, applying section rules when
// the matched verbosity rule carries them. Sections keep ascending
// line order regardless of their individual levels.
func (r *Renderer) fileBody(node *scan.FileNode, level verbosity.Level, sectionRules []plan.SectionRule) string {
	if len(sectionRules) == 0 || node.Degraded || len(node.Sections) == 0 {
		return node.LevelText(level)
	}
	var b strings.Builder
	for _, sec := range node.Sections {
		secLevel := plan.ResolveSectionLevel(sec.Name, sectionRules, level)
		if secLevel == verbosity.Exclude {
			continue
		}
		text := node.SectionText(sec, secLevel)
		if text == "" {
			continue
		}
		b.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// finish joins the per-file blocks and appends the total line. The
// total reflects what was actually emitted, which in strict mode can
// be less than the manifest's would-be total.
func (r *Renderer) finish(res *Result, parts []string, rendered, renderedTokens int) {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(part)
	}
	if rendered > 0 {
		fmt.Fprintf(&b, "\n# Total: %d/%d tokens", renderedTokens, res.Manifest.Budget)
	}
	res.Output = b.String()
}

func statusFor(res *Result, rendered int) Status {
	switch {
	case rendered == 0:
		return StatusEmpty
	case res.Manifest.OverBudget():
		return StatusBudgetWarned
	default:
		return StatusOK
	}
}
