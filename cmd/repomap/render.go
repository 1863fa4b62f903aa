package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kevinaud/repo-map/internal/cache"
	"github.com/kevinaud/repo-map/internal/config"
	"github.com/kevinaud/repo-map/internal/export"
	"github.com/kevinaud/repo-map/internal/plan"
	"github.com/kevinaud/repo-map/internal/render"
	"github.com/kevinaud/repo-map/internal/scan"
)

var (
	renderPlanPath     string
	renderBudget       int
	renderStrict       bool
	renderShowCosts    bool
	renderOutput       string
	renderCompress     bool
	renderManifestPath string
	renderFocus        []string
	renderFocusSymbols []string
	renderExclude      []string
	renderNoDefaults   bool
	renderNoGitignore  bool
	renderNoCache      bool
	renderWorkers      int
	renderScipIndex    string
)

var renderCmd = &cobra.Command{
	Use:   "render [root]",
	Short: "Render a token-budgeted map of a repository",
	Long: `Render a repository map within a token budget.

Files are ranked by reference-graph centrality; the render plan decides
how much of each file to show. Without a plan every file is rendered at
the structure level under the default budget.

Examples:
  repomap render
  repomap render ~/src/billing --budget 8000
  repomap render --plan plan.yaml --strict --output map.md
  repomap render --focus 'internal/auth/**:25' --focus-symbol Login
  repomap render --output map.md.zst --manifest manifest.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderPlanPath, "plan", "", "Render plan file (YAML or TOML)")
	renderCmd.Flags().IntVar(&renderBudget, "budget", 0, "Token budget (overrides plan)")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "Fail instead of warning when over budget")
	renderCmd.Flags().BoolVar(&renderShowCosts, "show-costs", false, "Annotate each file with per-level token costs")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", export.Stdout, "Output destination (- for stdout)")
	renderCmd.Flags().BoolVar(&renderCompress, "compress", false, "zstd-compress the output file")
	renderCmd.Flags().StringVar(&renderManifestPath, "manifest", "", "Write the cost manifest to this file as JSON")
	renderCmd.Flags().StringArrayVar(&renderFocus, "focus", nil, "Boost files matching glob, as pattern[:weight] (repeatable)")
	renderCmd.Flags().StringArrayVar(&renderFocusSymbols, "focus-symbol", nil, "Boost files defining symbol, as name[:weight] (repeatable)")
	renderCmd.Flags().StringArrayVar(&renderExclude, "exclude", nil, "Extra exclude glob (repeatable)")
	renderCmd.Flags().BoolVar(&renderNoDefaults, "no-default-excludes", false, "Disable builtin exclude patterns")
	renderCmd.Flags().BoolVar(&renderNoGitignore, "no-gitignore", false, "Ignore .gitignore files")
	renderCmd.Flags().BoolVar(&renderNoCache, "no-cache", false, "Disable the extraction cache")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", 0, "Extraction workers (0 = one per CPU)")
	renderCmd.Flags().StringVar(&renderScipIndex, "scip", "", "SCIP index supplementing the reference graph")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg.Logging.Format, cfg.Logging.Level)

	p, err := buildPlan(cfg)
	if err != nil {
		return err
	}

	scanOpts := scan.Options{
		Walk: scan.WalkOptions{
			ExcludePatterns:   append(append([]string{}, cfg.Scan.Exclude...), renderExclude...),
			NoDefaultExcludes: renderNoDefaults || cfg.Scan.NoDefaultExcludes,
			NoGitignore:       renderNoGitignore || cfg.Scan.NoGitignore,
		},
		Workers: renderWorkers,
	}
	if scanOpts.Workers == 0 {
		scanOpts.Workers = cfg.Scan.Workers
	}

	if !renderNoCache && cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = filepath.Join(root, ".repomap")
		}
		store, err := cache.Open(dir, logger)
		if err != nil {
			logger.Warn("extraction cache unavailable", "error", err)
		} else {
			defer store.Close()
			scanOpts.Cache = store
		}
	}

	scipIndex := renderScipIndex
	if scipIndex == "" && cfg.Scip.Enabled {
		scipIndex = filepath.Join(root, cfg.Scip.IndexPath)
	}

	res, err := render.Run(cmd.Context(), render.Input{
		Root:      root,
		Plan:      p,
		ShowCosts: renderShowCosts,
		Strict:    renderStrict,
		SCIPIndex: scipIndex,
		Scan:      scanOpts,
		Logger:    logger,
	})
	if res != nil && renderManifestPath != "" {
		if merr := export.WriteJSON(renderManifestPath, res.Manifest, false); merr != nil {
			logger.Warn("failed to write manifest", "error", merr)
		}
	}
	if err != nil {
		return err
	}

	for _, diag := range res.Diagnostics {
		logger.Warn("degraded file", "detail", diag)
	}
	return export.Write(renderOutput, []byte(res.Output), renderCompress)
}

// buildPlan loads the plan file (or starts from defaults) and folds in
// CLI overrides. CLI focus entries replace the plan's focus wholesale.
func buildPlan(cfg *config.Config) (*plan.Plan, error) {
	var p *plan.Plan
	if renderPlanPath != "" {
		loaded, err := plan.Load(renderPlanPath)
		if err != nil {
			return nil, err
		}
		p = loaded
	} else {
		p = plan.Default()
		if cfg.Budget > 0 {
			p.Budget = cfg.Budget
		}
	}

	var o plan.Overrides
	if renderBudget != 0 {
		o.Budget = renderBudget
	}
	if len(renderFocus) > 0 || len(renderFocusSymbols) > 0 {
		focus := &plan.Focus{}
		for _, raw := range renderFocus {
			pattern, weight, err := splitBoost(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid --focus %q: %w", raw, err)
			}
			focus.Paths = append(focus.Paths, plan.PathBoost{Pattern: pattern, Weight: weight})
		}
		for _, raw := range renderFocusSymbols {
			name, weight, err := splitBoost(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid --focus-symbol %q: %w", raw, err)
			}
			focus.Symbols = append(focus.Symbols, plan.SymbolBoost{Name: name, Weight: weight})
		}
		o.Focus = focus
	}

	p = p.Merge(o)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// splitBoost parses "pattern[:weight]". The weight defaults when
// omitted. Windows-style paths are not supported in boost patterns, so
// the last colon is unambiguous.
func splitBoost(raw string) (string, float64, error) {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return raw, plan.DefaultBoostWeight, nil
	}
	weight, err := strconv.ParseFloat(raw[idx+1:], 64)
	if err != nil {
		return "", 0, fmt.Errorf("weight %q is not a number", raw[idx+1:])
	}
	if weight <= 0 {
		return "", 0, fmt.Errorf("weight must be positive")
	}
	if raw[:idx] == "" {
		return "", 0, fmt.Errorf("empty pattern")
	}
	return raw[:idx], weight, nil
}
