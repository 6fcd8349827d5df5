package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/preview"
	"github.com/MrSnakeDoc/nextdir/internal/sources/seed"
	"github.com/MrSnakeDoc/nextdir/internal/store"
)

// maxConcurrentPreviews bounds outbound requests while enriching entries.
const maxConcurrentPreviews = 4

// Previewer fills in descriptions missing from seed entries.
type Previewer interface {
	Fetch(ctx context.Context, url string) (preview.Preview, error)
}

// bulkCreator is implemented by drivers that can write many records at once.
type bulkCreator interface {
	CreateMany(ctx context.Context, collection string, payloads []store.Record) ([]store.Record, error)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int       `json:"imported"`
	Existing int       `json:"existing"`
	Skipped  int       `json:"skipped"`
	Enriched int       `json:"enriched"`
	At       time.Time `json:"at"`
}

// SeedImporter copies curated resources from a YAML file into the store on
// start, on a cron schedule and on manual trigger. Resources whose URL is
// already stored are left alone.
type SeedImporter struct {
	loader        *seed.Loader
	store         store.RecordStore
	previewer     Previewer
	logger        logger.Logger
	schedule      string
	manualTrigger chan struct{}
	stopCh        chan struct{}
	now           func() time.Time

	mu   sync.Mutex // one import at a time
	last ImportResult
}

// NewSeedImporter creates an importer. previewer may be nil.
func NewSeedImporter(
	seedFile string,
	s store.RecordStore,
	previewer Previewer,
	log logger.Logger,
	schedule string,
	manualTrigger chan struct{},
) *SeedImporter {
	return &SeedImporter{
		loader:        seed.NewLoader(seedFile),
		store:         s,
		previewer:     previewer,
		logger:        log.Named("seed"),
		schedule:      schedule,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		now:           time.Now,
	}
}

// Start imports once, then schedules further runs until ctx is done or
// Stop is called.
func (si *SeedImporter) Start(ctx context.Context) error {
	if _, err := si.Import(ctx); err != nil {
		return fmt.Errorf("initial seed import failed: %w", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(si.schedule, func() { si.run(ctx, "scheduled") }); err != nil {
		return fmt.Errorf("invalid seed schedule %q: %w", si.schedule, err)
	}
	c.Start()

	go func() {
		defer c.Stop()
		for {
			select {
			case <-si.manualTrigger:
				si.run(ctx, "manual")
			case <-si.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the importer
func (si *SeedImporter) Stop() {
	close(si.stopCh)
}

// Last returns the result of the most recent successful import.
func (si *SeedImporter) Last() ImportResult {
	si.mu.Lock()
	defer si.mu.Unlock()
	return si.last
}

func (si *SeedImporter) run(ctx context.Context, reason string) {
	si.logger.Info("seed import triggered", logger.String("reason", reason))
	if _, err := si.Import(ctx); err != nil {
		si.logger.Error("seed import failed", logger.Error(err))
	}
}

// Import loads the seed file and stores entries not yet present.
func (si *SeedImporter) Import(ctx context.Context) (ImportResult, error) {
	si.mu.Lock()
	defer si.mu.Unlock()

	file, err := si.loader.Load()
	if err != nil {
		return ImportResult{}, err
	}

	recs, skipped := seed.Map(file, si.now())
	for _, reason := range skipped {
		si.logger.Warn("skipping seed entry", logger.String("reason", reason))
	}

	existing, err := si.store.List(ctx, store.CollectionResources, store.ListOptions{})
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to list existing resources: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, rec := range existing {
		if u, ok := rec["url"].(string); ok {
			known[u] = true
		}
	}

	fresh := make([]store.Record, 0, len(recs))
	for _, rec := range recs {
		if !known[rec["url"].(string)] {
			fresh = append(fresh, rec)
		}
	}

	enriched, err := si.enrich(ctx, fresh)
	if err != nil {
		return ImportResult{}, err
	}

	if err := si.write(ctx, fresh); err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{
		Imported: len(fresh),
		Existing: len(recs) - len(fresh),
		Skipped:  len(skipped),
		Enriched: enriched,
		At:       si.now(),
	}
	si.last = res

	si.logger.Info("seed import completed",
		logger.String("file", si.loader.Path()),
		logger.Int("imported", res.Imported),
		logger.Int("existing", res.Existing),
		logger.Int("skipped", res.Skipped))
	return res, nil
}

// enrich fetches a description for entries that have none. Preview
// failures leave the entry as is.
func (si *SeedImporter) enrich(ctx context.Context, recs []store.Record) (int, error) {
	if si.previewer == nil {
		return 0, nil
	}

	sem := semaphore.NewWeighted(maxConcurrentPreviews)
	g, gctx := errgroup.WithContext(ctx)

	var (
		mu    sync.Mutex
		count int
	)
	for _, rec := range recs {
		if rec["description"] != "" {
			continue
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			return 0, err
		}
		rec := rec
		g.Go(func() error {
			defer sem.Release(1)

			link := rec["url"].(string)
			p, err := si.previewer.Fetch(gctx, link)
			if err != nil || p.Description == "" {
				si.logger.Debug("no preview for seed entry", logger.String("url", link))
				return nil
			}

			mu.Lock()
			rec["description"] = p.Description
			if rec["githubUrl"] == "" && p.GitHubURL != "" {
				rec["githubUrl"] = p.GitHubURL
			}
			count++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return count, nil
}

func (si *SeedImporter) write(ctx context.Context, recs []store.Record) error {
	if len(recs) == 0 {
		return nil
	}

	if bulk, ok := si.store.(bulkCreator); ok {
		if _, err := bulk.CreateMany(ctx, store.CollectionResources, recs); err != nil {
			return fmt.Errorf("failed to save seed resources: %w", err)
		}
		return nil
	}

	for _, rec := range recs {
		if _, err := si.store.Create(ctx, store.CollectionResources, rec); err != nil {
			return fmt.Errorf("failed to save seed resource %s: %w", rec.ID(), err)
		}
	}
	return nil
}
