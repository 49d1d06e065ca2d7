// Package app wires the continuity engine together: fetch candidates,
// deduplicate against recent coverage, pick today's community spotlight,
// and write the run report downstream stages consume.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/zirnhelt/curated-podcast-generator/internal/cache"
	"github.com/zirnhelt/curated-podcast-generator/internal/config"
	"github.com/zirnhelt/curated-podcast-generator/internal/dedup"
	"github.com/zirnhelt/curated-podcast-generator/internal/feeds"
	"github.com/zirnhelt/curated-podcast-generator/internal/history"
	"github.com/zirnhelt/curated-podcast-generator/internal/logger"
	"github.com/zirnhelt/curated-podcast-generator/internal/metrics"
	"github.com/zirnhelt/curated-podcast-generator/internal/psa"
	"github.com/zirnhelt/curated-podcast-generator/internal/ratelimit"
	"github.com/zirnhelt/curated-podcast-generator/internal/retry"
	"github.com/zirnhelt/curated-podcast-generator/internal/rotation"
	"github.com/zirnhelt/curated-podcast-generator/internal/scraper"
)

// Report is the per-run output consumed by the downstream generation
// pipeline: the deduplicated candidate set, continuity annotations, and
// today's spotlight selection.
type Report struct {
	RunID           string                `json:"run_id"`
	Date            string                `json:"date"`
	Kept            []dedup.Candidate     `json:"kept"`
	Evolving        []dedup.EvolvingMatch `json:"evolving,omitempty"`
	EvolvingContext string                `json:"evolving_context,omitempty"`
	Selection       *psa.Selection        `json:"selection,omitempty"`
}

type App struct {
	cfg      *config.Config
	store    *history.Store
	deduper  *dedup.Deduplicator
	selector *psa.Selector
	fetcher  *feeds.Fetcher
	resolver *scraper.Resolver
	resolves *cache.Cache
}

// New builds the engine from loaded configuration. All config is read once
// here and passed by reference; nothing re-reads files mid-run.
func New(cfg *config.Config) (*App, error) {
	orgs, err := rotation.LoadOrganizations(filepath.Join(cfg.ConfigDir, "organizations.json"))
	if err != nil {
		return nil, err
	}
	events, err := rotation.LoadEvents(filepath.Join(cfg.ConfigDir, "events.json"))
	if err != nil {
		return nil, err
	}

	selector := psa.NewSelector(orgs, events, rotation.NewStateStore(cfg.StateFilePath))
	selector.LookaheadDays = cfg.EventLookaheadDays
	selector.MinDays = cfg.MinDaysBetweenRepeats

	retryCfg := retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}

	return &App{
		cfg:      cfg,
		store:    history.NewStore(cfg.CitationsDir),
		deduper:  dedup.New(cfg.SimilarityThreshold),
		selector: selector,
		fetcher:  feeds.NewFetcher(cfg.RequestTimeout, retryCfg),
		resolver: scraper.NewResolver(cfg.RequestTimeout),
		resolves: cache.New(),
	}, nil
}

// Run executes one full generation cycle for today and writes the report.
func Run() error {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := New(cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	report, err := a.RunCycle(context.Background(), time.Now())
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}
	metrics.Global.SetLastRun(time.Since(started))

	logger.Info("run complete",
		"run_id", report.RunID,
		"kept", len(report.Kept),
		"evolving", len(report.Evolving),
	)
	return nil
}

// RunCycle performs one day's fetch, resolution, dedup and spotlight
// selection, and persists the report. Dedup and selection stay independent:
// a failure to select still yields a usable dedup report.
func (a *App) RunCycle(ctx context.Context, today time.Time) (*Report, error) {
	runID := uuid.NewString()
	log := logger.With("run_id", runID)

	sources, err := feeds.LoadSources(a.cfg.FeedsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load feed sources: %w", err)
	}

	candidates := a.fetcher.FetchCandidates(ctx, sources, a.cfg.MaxCandidates)
	metrics.Global.AddCandidatesFetched(len(candidates))

	a.resolveThin(candidates, log)

	kept, evolving := a.Dedupe(today, candidates)

	report := &Report{
		RunID:           runID,
		Date:            today.Format("2006-01-02"),
		Kept:            kept,
		Evolving:        evolving,
		EvolvingContext: dedup.FormatEvolvingContext(evolving),
	}

	selection, err := a.SelectPSA(today)
	if err != nil {
		// The dedup half of the report is still valid without a spotlight.
		log.Error("spotlight selection failed", "error", err)
	} else {
		report.Selection = selection
	}

	if err := a.writeReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

// Dedupe partitions a candidate batch against the trailing coverage window.
func (a *App) Dedupe(today time.Time, candidates []dedup.Candidate) ([]dedup.Candidate, []dedup.EvolvingMatch) {
	records := a.store.LoadRecent(today, a.cfg.HistoryWindowDays)
	kept, evolving := a.deduper.Dedupe(candidates, records)
	metrics.Global.RecordDedup(len(kept), len(evolving), len(candidates)-len(kept))
	return kept, evolving
}

// SelectPSA picks today's community spotlight and updates the metrics split
// between event-driven and rotation selections.
func (a *App) SelectPSA(today time.Time) (*psa.Selection, error) {
	selection, err := a.selector.Select(today)
	if err != nil {
		return nil, err
	}
	if selection != nil {
		switch selection.Source {
		case psa.SourceEvent:
			metrics.Global.IncrementEventSelections()
		case psa.SourceRotation:
			metrics.Global.IncrementRotationSelections()
		}
	}
	return selection, nil
}

// resolveThin upgrades candidates whose feed metadata is too thin to
// deduplicate well: missing or stubby titles get the page's own headline,
// and the canonical URL replaces tracking/shortened links. Budgeted so one
// oversized batch can't turn the job into a crawl.
func (a *App) resolveThin(candidates []dedup.Candidate, log *slog.Logger) {
	budget := ratelimit.NewBudget("resolve", a.cfg.ResolveMaxPerRun)

	for i := range candidates {
		c := &candidates[i]
		if c.URL == "" || !needsResolution(c) {
			continue
		}

		if hit, ok := a.resolves.Get(c.URL); ok {
			applyResolution(c, hit.(*scraper.Resolution))
			continue
		}

		if !budget.Allow() {
			break
		}

		metrics.Global.IncrementResolveAttempts()
		res, err := a.resolver.Resolve(c.URL)
		if err != nil {
			metrics.Global.IncrementResolveFailures()
			log.Warn("candidate resolution failed", "url", c.URL, "error", err)
			continue
		}

		a.resolves.Set(c.URL, res, a.cfg.ResolveCacheTTL)
		applyResolution(c, res)
		log.Debug("resolved candidate", "url", c.URL, "canonical", res.CanonicalURL)
	}
}

// needsResolution flags candidates whose titles are too short to compare
// meaningfully.
func needsResolution(c *dedup.Candidate) bool {
	return len(dedup.NormalizeTitle(c.Title)) < 10
}

func applyResolution(c *dedup.Candidate, res *scraper.Resolution) {
	if res.Title != "" {
		c.Title = res.Title
	}
	if res.CanonicalURL != "" {
		c.URL = res.CanonicalURL
	}
}

func (a *App) writeReport(report *Report) error {
	if err := os.MkdirAll(a.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(a.cfg.OutputDir, fmt.Sprintf("continuity_%s.json", report.Date))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize report: %w", err)
	}

	logger.Info("report written", "path", path)
	return nil
}
