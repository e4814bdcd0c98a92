// Package orchestration runs the source-priority fallback chain: cache
// first, then each enabled network source in configured order, then the
// bundled static dataset. Every successful fetch is validated and written
// through to the cache before it is returned.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
	"github.com/venturegraph/sdk-go/pkg/logging"
	"github.com/venturegraph/sdk-go/pkg/schema"
)

// CacheKey is the single key under which the orchestrator stores the
// canonical dataset
const CacheKey = "graph:dataset"

const tracerName = "github.com/venturegraph/sdk-go/pkg/orchestration"

// Orchestrator owns the decision of which source populates the cache
type Orchestrator struct {
	networkSources []interfaces.DataSource
	terminal       interfaces.DataSource
	cache          interfaces.DatasetCache
	validator      *schema.Validator
	logger         logging.Logger
	tracer         trace.Tracer
	ttls           map[string]time.Duration
	defaultTTL     time.Duration

	mu           sync.Mutex
	activeSource string
}

// Option represents an option for configuring the orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger for the orchestrator
func WithLogger(logger logging.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithTTL sets the cache TTL used when the named source populates the cache
func WithTTL(source string, ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.ttls[source] = ttl
	}
}

// WithDefaultTTL sets the TTL for sources without an explicit one
func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.defaultTTL = ttl
	}
}

// New creates an orchestrator. networkSources are consulted in slice order;
// terminal is the always-available static fallback at the end of the chain.
func New(cache interfaces.DatasetCache, validator *schema.Validator, networkSources []interfaces.DataSource, terminal interfaces.DataSource, options ...Option) *Orchestrator {
	orchestrator := &Orchestrator{
		networkSources: networkSources,
		terminal:       terminal,
		cache:          cache,
		validator:      validator,
		logger:         logging.New(),
		tracer:         otel.Tracer(tracerName),
		ttls:           make(map[string]time.Duration),
		defaultTTL:     10 * time.Minute,
	}

	for _, option := range options {
		option(orchestrator)
	}

	return orchestrator
}

// Fetch returns the canonical dataset: from the cache when fresh, otherwise
// from the first source in the chain that succeeds. Sources run strictly
// sequentially, never raced.
func (o *Orchestrator) Fetch(ctx context.Context) (*interfaces.Dataset, error) {
	runID := uuid.NewString()
	ctx, span := o.tracer.Start(ctx, "orchestration.Fetch",
		trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()

	cached, err := o.cache.Get(ctx, CacheKey)
	if err != nil {
		// A broken cache backend degrades to a fetch, it does not fail the run
		o.logger.Warn(ctx, "Cache lookup failed, fetching from sources", map[string]interface{}{
			"run_id": runID,
			"error":  err.Error(),
		})
	}
	if cached != nil {
		o.logger.Debug(ctx, "Cache hit", map[string]interface{}{"run_id": runID})
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	for _, source := range o.networkSources {
		if !source.Enabled() {
			continue
		}

		dataset, err := o.runStep(ctx, source, runID)
		if err == nil {
			return dataset, nil
		}

		if !source.AllowFallback() {
			span.RecordError(err)
			return nil, fmt.Errorf("source %s failed with fallback disabled: %w", source.Name(), err)
		}

		o.logger.Warn(ctx, "Source failed, falling back", map[string]interface{}{
			"run_id": runID,
			"source": source.Name(),
			"error":  err.Error(),
		})
	}

	dataset, err := o.runStep(ctx, o.terminal, runID)
	if err != nil {
		span.RecordError(err)
		var validationErr *interfaces.ValidationError
		if errors.As(err, &validationErr) {
			return nil, fmt.Errorf("bundled dataset failed validation: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", interfaces.ErrAllSourcesExhausted, err)
	}
	return dataset, nil
}

// Refresh invalidates the cache key and re-runs the chain. It fails when no
// network source is enabled, since a refresh that can only re-read the
// bundle is a caller mistake.
func (o *Orchestrator) Refresh(ctx context.Context) (*interfaces.Dataset, error) {
	if !o.hasEnabledNetworkSource() {
		return nil, interfaces.ErrNoNetworkSource
	}
	if err := o.cache.Invalidate(ctx, CacheKey); err != nil {
		return nil, fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return o.Fetch(ctx)
}

// ActiveSource returns the name of the source that most recently populated
// the cache, or "" before the first successful fetch
func (o *Orchestrator) ActiveSource() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activeSource
}

// runStep executes one fallback-chain step: fetch, validate, write through
func (o *Orchestrator) runStep(ctx context.Context, source interfaces.DataSource, runID string) (*interfaces.Dataset, error) {
	ctx, span := o.tracer.Start(ctx, "orchestration.step",
		trace.WithAttributes(attribute.String("source", source.Name())))
	defer span.End()

	dataset, err := source.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := o.validator.ValidateDataset(dataset); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("dataset from %s failed validation: %w", source.Name(), err)
	}

	if err := o.cache.Set(ctx, CacheKey, dataset, o.ttl(source.Name())); err != nil {
		// The dataset is good; a cache write failure only costs freshness
		o.logger.Warn(ctx, "Cache write failed", map[string]interface{}{
			"run_id": runID,
			"source": source.Name(),
			"error":  err.Error(),
		})
	}

	o.mu.Lock()
	o.activeSource = source.Name()
	o.mu.Unlock()

	o.logger.Info(ctx, "Dataset fetched", map[string]interface{}{
		"run_id":        runID,
		"source":        source.Name(),
		"organizations": len(dataset.Organizations),
		"people":        len(dataset.People),
		"relationships": len(dataset.Relationships),
	})
	return dataset, nil
}

func (o *Orchestrator) ttl(source string) time.Duration {
	if ttl, ok := o.ttls[source]; ok {
		return ttl
	}
	return o.defaultTTL
}

func (o *Orchestrator) hasEnabledNetworkSource() bool {
	for _, source := range o.networkSources {
		if source.Enabled() {
			return true
		}
	}
	return false
}
