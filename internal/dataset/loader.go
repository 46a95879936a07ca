// Package dataset resolves dataset names to measurement tables through a
// processed-then-raw fallback chain, with an explicit cache keyed on
// source file modification state.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FEBEN-G/solar-challenge-week0/internal/metrics"
	"github.com/FEBEN-G/solar-challenge-week0/internal/models"
	"github.com/FEBEN-G/solar-challenge-week0/internal/schema"
	"github.com/FEBEN-G/solar-challenge-week0/internal/storage"
)

var (
	// ErrDatasetNotFound signals that neither the processed nor the raw
	// file for a dataset exists or parses. Callers skip the dataset.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrNoDataAvailable signals that no requested dataset loaded.
	// Callers switch to synthetic generation.
	ErrNoDataAvailable = errors.New("no data available")
)

// loadConcurrency bounds the LoadAll fan-out.
const loadConcurrency = 4

type cacheEntry struct {
	path    string
	size    int64
	modTime time.Time
	dataset models.Dataset
}

// Loader loads and caches datasets from a storage backend rooted at the
// data directory.
type Loader struct {
	store   storage.StorageClient
	catalog *Catalog

	mu    sync.Mutex
	cache map[string]*cacheEntry
}

// NewLoader creates a loader over the given data storage and catalog.
func NewLoader(store storage.StorageClient, catalog *Catalog) *Loader {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Loader{
		store:   store,
		catalog: catalog,
		cache:   make(map[string]*cacheEntry),
	}
}

// KnownDatasets returns the catalog's dataset names in order.
func (l *Loader) KnownDatasets() []string {
	return l.catalog.Names()
}

// Load resolves a dataset name through the fallback chain: processed
// file first, then the raw station export. The returned dataset is
// normalized and tagged with its provenance. Both paths missing or
// unparseable yields ErrDatasetNotFound.
func (l *Loader) Load(ctx context.Context, name string) (models.Dataset, error) {
	source, known := l.catalog.Lookup(name)
	if !known {
		// Unknown names still get the processed-path derivation so ad
		// hoc cleaned files can be dropped in without a catalog edit.
		source = Source{Name: name}
	}

	candidates := []struct {
		path       string
		provenance models.Provenance
	}{
		{source.ProcessedPath(), models.ProvenanceProcessed},
		{source.RawPath(), models.ProvenanceRaw},
	}

	for _, cand := range candidates {
		if cand.path == "" {
			continue
		}
		ds, err := l.loadFile(ctx, name, cand.path, cand.provenance)
		if err != nil {
			log.Printf("Dataset %s: %s unavailable: %v", name, cand.path, err)
			continue
		}
		metrics.DatasetLoadsTotal.WithLabelValues(name, string(cand.provenance)).Inc()
		log.Printf("Loaded dataset %s from %s (%s, %d rows)", name, cand.path, cand.provenance, len(ds.Records))
		return ds, nil
	}

	metrics.DatasetLoadsTotal.WithLabelValues(name, "failed").Inc()
	return models.Dataset{}, fmt.Errorf("dataset %s: %w", name, ErrDatasetNotFound)
}

// loadFile reads and parses one candidate file, consulting the cache
// first. The cache entry is valid only while the file's size and
// modification time are unchanged.
func (l *Loader) loadFile(ctx context.Context, name, path string, provenance models.Provenance) (models.Dataset, error) {
	exists, err := l.store.FileExists(ctx, path)
	if err != nil {
		return models.Dataset{}, err
	}
	if !exists {
		return models.Dataset{}, fmt.Errorf("file does not exist")
	}

	stat, err := l.store.Stat(ctx, path)
	if err != nil {
		return models.Dataset{}, err
	}

	l.mu.Lock()
	if entry, ok := l.cache[name]; ok &&
		entry.path == path && entry.size == stat.Size && entry.modTime.Equal(stat.ModTime) {
		ds := entry.dataset
		l.mu.Unlock()
		metrics.CacheEventsTotal.WithLabelValues(name, "hit").Inc()
		return ds, nil
	}
	l.mu.Unlock()
	metrics.CacheEventsTotal.WithLabelValues(name, "miss").Inc()

	data, err := l.store.GetFile(ctx, path)
	if err != nil {
		return models.Dataset{}, err
	}
	columns, records, err := parseTable(data)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("parse %s: %w", path, err)
	}

	ds := schema.NormalizeDataset(models.Dataset{
		Name:       name,
		Provenance: provenance,
		Columns:    columns,
		Records:    records,
	})

	l.mu.Lock()
	l.cache[name] = &cacheEntry{path: path, size: stat.Size, modTime: stat.ModTime, dataset: ds}
	l.mu.Unlock()

	return ds, nil
}

// LoadAll loads every named dataset, collecting per-dataset failures
// without aborting the batch. The combined table preserves the requested
// order. An empty successful set returns ErrNoDataAvailable so the
// caller can invoke synthetic generation.
func (l *Loader) LoadAll(ctx context.Context, names []string) (*models.CombinedTable, []models.LoadFailure, error) {
	results := make([]*models.Dataset, len(names))
	loadErrs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			ds, err := l.Load(gctx, name)
			if err != nil {
				loadErrs[i] = err
				return nil
			}
			results[i] = &ds
			return nil
		})
	}
	// Workers record failures instead of returning them, so Wait only
	// propagates context cancellation.
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var datasets []models.Dataset
	var failures []models.LoadFailure
	for i, name := range names {
		if loadErrs[i] != nil {
			failures = append(failures, models.LoadFailure{
				Dataset: name,
				Err:     loadErrs[i],
				Message: loadErrs[i].Error(),
			})
			continue
		}
		if results[i] != nil {
			datasets = append(datasets, *results[i])
		}
	}

	if len(datasets) == 0 {
		return nil, failures, fmt.Errorf("none of %d requested datasets loaded: %w", len(names), ErrNoDataAvailable)
	}
	return models.Combine(datasets), failures, nil
}

// LoadOrGenerate runs the complete fallback chain: real files through
// LoadAll, then deterministic synthetic samples when nothing loads at
// all. The returned statuses reflect what actually backed each dataset,
// so synthetic data is always labeled as such. Partial failures keep the
// real data and report the failures alongside it.
func (l *Loader) LoadOrGenerate(ctx context.Context, names []string, cfg SampleConfig) (*models.CombinedTable, []models.DatasetStatus, []models.LoadFailure, error) {
	table, failures, err := l.LoadAll(ctx, names)
	if err == nil {
		return table, l.Status(ctx), failures, nil
	}
	if !errors.Is(err, ErrNoDataAvailable) {
		return nil, nil, failures, err
	}

	log.Printf("No measurement files available, generating synthetic samples (seed %d)", cfg.Seed)
	datasets := GenerateSample(names, cfg)
	statuses := make([]models.DatasetStatus, 0, len(names))
	for _, ds := range datasets {
		source, known := l.catalog.Lookup(ds.Name)
		if !known {
			source = Source{Name: ds.Name}
		}
		statuses = append(statuses, models.DatasetStatus{
			Name:          ds.Name,
			Provenance:    models.ProvenanceSynthetic,
			ProcessedPath: source.ProcessedPath(),
			RawPath:       source.RawPath(),
			Rows:          len(ds.Records),
		})
		metrics.DatasetLoadsTotal.WithLabelValues(ds.Name, string(models.ProvenanceSynthetic)).Inc()
	}
	return models.Combine(datasets), statuses, failures, nil
}

// Invalidate drops one dataset's cache entry.
func (l *Loader) Invalidate(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[name]; ok {
		delete(l.cache, name)
		metrics.CacheEventsTotal.WithLabelValues(name, "invalidate").Inc()
	}
}

// InvalidateAll drops every cache entry.
func (l *Loader) InvalidateAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name := range l.cache {
		metrics.CacheEventsTotal.WithLabelValues(name, "invalidate").Inc()
	}
	l.cache = make(map[string]*cacheEntry)
}

// cached reports whether a dataset currently has a cache entry and, if
// so, its row count.
func (l *Loader) cached(name string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok := l.cache[name]; ok {
		return len(entry.dataset.Records), true
	}
	return 0, false
}

// Status reports per-dataset file availability for the dashboard footer
// and the status API.
func (l *Loader) Status(ctx context.Context) []models.DatasetStatus {
	statuses := make([]models.DatasetStatus, 0, len(l.catalog.Sources))
	for _, source := range l.catalog.Sources {
		st := models.DatasetStatus{
			Name:          source.Name,
			ProcessedPath: source.ProcessedPath(),
			RawPath:       source.RawPath(),
		}

		candidates := []struct {
			path       string
			provenance models.Provenance
		}{
			{source.ProcessedPath(), models.ProvenanceProcessed},
			{source.RawPath(), models.ProvenanceRaw},
		}
		for _, cand := range candidates {
			if cand.path == "" {
				continue
			}
			if exists, err := l.store.FileExists(ctx, cand.path); err != nil || !exists {
				continue
			}
			st.FileFound = true
			st.Provenance = cand.provenance
			if stat, err := l.store.Stat(ctx, cand.path); err == nil {
				st.FileSizeKB = float64(stat.Size) / 1024.0
			}
			break
		}

		if rows, ok := l.cached(source.Name); ok {
			st.Cached = true
			st.Rows = rows
		}
		statuses = append(statuses, st)
	}
	return statuses
}
