package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kevinaud/repo-map/internal/errors"
	"github.com/kevinaud/repo-map/internal/extract"
	"github.com/kevinaud/repo-map/internal/graph"
	"github.com/kevinaud/repo-map/internal/plan"
	"github.com/kevinaud/repo-map/internal/project"
	"github.com/kevinaud/repo-map/internal/scan"
)

// implicitImportantBoost is the teleport weight granted to entry-point
// files (README, manifests, CI config) that carry no stronger explicit
// boost. It sits well below the default focus weight so user intent
// always dominates.
const implicitImportantBoost = 2.0

// Input configures one end-to-end render of a repository.
type Input struct {
	// Root is the repository directory to map.
	Root string

	// Plan drives budget, focus, and verbosity. Nil means defaults.
	Plan *plan.Plan

	// ShowCosts annotates each emitted file with its would-be cost at
	// every level.
	ShowCosts bool

	// Strict rejects renders that exceed the budget instead of
	// emitting a warning.
	Strict bool

	// SCIPIndex optionally names a SCIP index file whose occurrences
	// supplement the heuristic reference graph.
	SCIPIndex string

	// Scan carries walker and worker-pool settings, including the
	// extraction cache.
	Scan scan.Options

	Logger *slog.Logger
}

// Run executes the full pipeline: scan the repository, build and rank
// the reference graph, then render within the plan's budget.
func Run(ctx context.Context, in Input) (*Result, error) {
	logger := in.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := in.Plan
	if p == nil {
		p = plan.Default()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger = logger.With(slog.String("runId", runID))
	start := time.Now()
	logger.Info("render started", slog.String("root", in.Root))

	scanOpts, err := applyDeclaration(in.Root, in.Scan, logger)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "loading project declaration", err)
	}

	scanner := scan.NewScanner(logger)
	nodes, err := scanner.Scan(ctx, in.Root, p, scanOpts)
	if err != nil {
		return nil, err
	}
	logger.Debug("scan complete", slog.Int("files", len(nodes)))

	if err := rankNodes(ctx, logger, p, nodes, in.SCIPIndex); err != nil {
		return nil, err
	}

	renderer := New(p, logger)
	res, err := renderer.Render(ctx, nodes, Options{
		Policy:    policyFor(in.Strict),
		ShowCosts: in.ShowCosts,
	})
	if res != nil {
		logger.Info("render finished",
			slog.String("status", string(res.Status)),
			slog.Duration("elapsed", time.Since(start)))
	}
	return res, err
}

// applyDeclaration folds the repository's .repomap.toml, when present,
// into the scan options: extra excludes and language overrides.
func applyDeclaration(root string, opts scan.Options, logger *slog.Logger) (scan.Options, error) {
	decl, err := project.Load(root)
	if err != nil {
		return opts, err
	}
	if len(decl.Exclude) > 0 {
		opts.Walk.ExcludePatterns = append(opts.Walk.ExcludePatterns, decl.Exclude...)
	}
	for ext, name := range decl.Languages {
		lang, ok := extract.ParseLanguage(name)
		if !ok {
			logger.Warn("ignoring unknown language in declaration",
				slog.String("extension", ext), slog.String("language", name))
			continue
		}
		if opts.LanguageOverrides == nil {
			opts.LanguageOverrides = make(map[string]extract.Language)
		}
		opts.LanguageOverrides[ext] = lang
	}
	if decl.Name != "" {
		logger.Debug("project declaration loaded", slog.String("project", decl.Name))
	}
	return opts, nil
}

func policyFor(strict bool) Policy {
	if strict {
		return Strict
	}
	return Soft
}

// rankNodes builds the reference graph from the scanned tags, resolves
// focus boosts, and writes normalized centrality scores back onto the
// nodes.
func rankNodes(ctx context.Context, logger *slog.Logger, p *plan.Plan, nodes []*scan.FileNode, scipIndex string) error {
	tags := make(map[string][]extract.Tag, len(nodes))
	for _, node := range nodes {
		tags[node.Path] = node.Tags
	}

	g := graph.Build(tags)
	if scipIndex != "" {
		edges, err := graph.LoadPreciseEdges(scipIndex)
		if err != nil {
			return err
		}
		added := g.AddPreciseEdges(edges)
		logger.Debug("loaded precise references",
			slog.String("index", scipIndex), slog.Int("edges", added))
	}

	boosts := resolveBoosts(p, nodes, tags)
	scores := graph.NormalizeByMax(g.Rank(ctx, boosts, graph.DefaultRankOptions()))
	if err := ctx.Err(); err != nil {
		return errors.New(errors.Cancelled, "ranking cancelled", err)
	}
	for _, node := range nodes {
		node.Score = scores[node.Path]
	}
	logger.Debug("ranking complete",
		slog.Int("nodes", g.NumNodes()),
		slog.Int("edges", g.NumEdges()),
		slog.Int("boosted", len(boosts)))
	return nil
}

// resolveBoosts turns the plan's focus section into per-file teleport
// weights. Path globs and symbol names combine max-wins, and important
// root files receive a small implicit boost when nothing stronger
// applies.
func resolveBoosts(p *plan.Plan, nodes []*scan.FileNode, tags map[string][]extract.Tag) map[string]float64 {
	pathBoosts := make(map[string]float64)
	symbolBoosts := make(map[string]float64)
	if p.Focus != nil {
		for _, pb := range p.Focus.Paths {
			for _, node := range nodes {
				if plan.MatchPath(pb.Pattern, node.Path) {
					if pb.Weight > pathBoosts[node.Path] {
						pathBoosts[node.Path] = pb.Weight
					}
				}
			}
		}
		for _, sb := range p.Focus.Symbols {
			if sb.Weight > symbolBoosts[sb.Name] {
				symbolBoosts[sb.Name] = sb.Weight
			}
		}
	}

	boosts := graph.MergeBoosts(pathBoosts, symbolBoosts, graph.DefinerIndex(tags))
	for _, node := range nodes {
		if node.Important && boosts[node.Path] < implicitImportantBoost {
			boosts[node.Path] = implicitImportantBoost
		}
	}
	return boosts
}
