package scan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/kevinaud/repo-map/internal/cost"
	"github.com/kevinaud/repo-map/internal/errors"
	"github.com/kevinaud/repo-map/internal/extract"
	"github.com/kevinaud/repo-map/internal/plan"
	"github.com/kevinaud/repo-map/internal/verbosity"
)

// ExtractionCache stores extraction results keyed by path and content
// hash. Implementations must tolerate concurrent use.
type ExtractionCache interface {
	Get(path, contentHash string) (extract.Result, bool)
	Put(path, contentHash string, res extract.Result) error
}

// Options configures a scan.
type Options struct {
	Walk WalkOptions

	// Workers bounds the extraction pool. Zero means one worker per
	// CPU.
	Workers int

	// Cache, when set, short-circuits extraction for files whose
	// content is unchanged since a previous scan.
	Cache ExtractionCache

	// LanguageOverrides maps file extensions (with leading dot) to
	// languages, taking precedence over builtin detection.
	LanguageOverrides map[string]extract.Language
}

// Scanner runs the per-file extraction pass.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a scanner. A nil logger discards output.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{logger: logger}
}

// Scan enumerates root and extracts every file on a bounded worker
// pool. Workers share nothing; results are aggregated after the pool
// drains and returned sorted by path. Custom queries from the plan
// override the built-in ruleset for matching files.
func (s *Scanner) Scan(ctx context.Context, root string, p *plan.Plan, opts Options) ([]*FileNode, error) {
	paths, err := Walk(root, opts.Walk)
	if err != nil {
		return nil, errors.New(errors.InternalError, "walking repository", err)
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.EmptyResult, "no files matched under "+root, nil)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	s.logger.Debug("scanning repository",
		slog.String("root", root),
		slog.Int("files", len(paths)),
		slog.Int("workers", workers))

	jobs := make(chan string)
	results := make(chan *FileNode, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range jobs {
				if ctx.Err() != nil {
					return
				}
				results <- s.scanFile(ctx, root, rel, p, opts)
			}
		}()
	}

feed:
	for _, rel := range paths {
		select {
		case jobs <- rel:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	if ctx.Err() != nil {
		return nil, errors.New(errors.Cancelled, "scan cancelled", ctx.Err())
	}

	nodes := make([]*FileNode, 0, len(paths))
	for node := range results {
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })

	if len(nodes) == 0 {
		return nil, errors.New(errors.EmptyResult, "no readable files under "+root, nil)
	}
	return nodes, nil
}

// scanFile extracts one file. It never fails the scan: unreadable
// files are dropped, binary and unparseable files degrade to markers.
func (s *Scanner) scanFile(ctx context.Context, root, rel string, p *plan.Plan, opts Options) *FileNode {
	cache := opts.Cache
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		s.logger.Warn("skipping unreadable file", slog.String("path", rel), slog.Any("error", err))
		return nil
	}

	node := &FileNode{
		Path:      rel,
		Important: IsImportant(rel),
	}

	if !isTextContent(content) {
		node.Binary = true
		node.Diagnostic = "binary content"
		node.Costs = cost.NewFileCosts(rel, "", "", "")
		return node
	}

	node.Content = string(content)
	lang, _ := LanguageFor(rel)
	if override, ok := opts.LanguageOverrides[strings.ToLower(filepath.Ext(rel))]; ok {
		lang = override
	}
	node.Language = lang

	customQuery := ""
	if p != nil {
		if q, ok := p.ResolveQuery(rel); ok {
			customQuery = q
		}
	}

	// Interface-level extraction carries everything the lower levels
	// need; per-level texts are derived from it. Files under a custom
	// query bypass the cache since the query shapes the sections.
	var res extract.Result
	cacheable := cache != nil && customQuery == ""
	contentHash := ""
	if cacheable {
		// The language participates in the key so that declaration
		// changes invalidate affected entries.
		contentHash = hashContent(content) + ":" + string(lang)
		if hit, ok := cache.Get(rel, contentHash); ok {
			res = hit
		} else {
			res = extract.Extract(ctx, rel, content, lang, verbosity.Interface, "")
			if err := cache.Put(rel, contentHash, res); err != nil {
				s.logger.Warn("failed to cache extraction", slog.String("path", rel), slog.Any("error", err))
			}
		}
	} else {
		res = extract.Extract(ctx, rel, content, lang, verbosity.Interface, customQuery)
	}
	node.Sections = res.Sections
	node.Degraded = res.Degraded
	node.Diagnostic = res.Diagnostic
	if res.Degraded {
		s.logger.Debug("extraction degraded",
			slog.String("path", rel), slog.String("reason", res.Diagnostic))
	}

	node.Tags = extract.ExtractTags(ctx, content, lang)
	node.Costs = cost.NewFileCosts(rel,
		node.LevelText(verbosity.Structure),
		node.LevelText(verbosity.Interface),
		node.Content)
	return node
}

// LanguageFor wraps language detection for scan callers.
func LanguageFor(rel string) (extract.Language, bool) {
	return extract.LanguageFromPath(rel)
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
