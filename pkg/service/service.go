// Package service is the inbound surface of the SDK: it owns the
// process-scoped cache, source clients, and orchestrator, and exposes the
// graph operations consumed by UI and summary collaborators.
package service

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/venturegraph/sdk-go/pkg/cache"
	"github.com/venturegraph/sdk-go/pkg/config"
	"github.com/venturegraph/sdk-go/pkg/graph"
	"github.com/venturegraph/sdk-go/pkg/interfaces"
	"github.com/venturegraph/sdk-go/pkg/logging"
	"github.com/venturegraph/sdk-go/pkg/orchestration"
	"github.com/venturegraph/sdk-go/pkg/schema"
	"github.com/venturegraph/sdk-go/pkg/sources/crunchbase"
	"github.com/venturegraph/sdk-go/pkg/sources/github"
	"github.com/venturegraph/sdk-go/pkg/sources/static"
)

// Stats describes the pipeline's current state
type Stats struct {
	ActiveSource string                `json:"activeSource"`
	Cache        interfaces.CacheStats `json:"cache"`
}

// Service exposes graph operations backed by the acquisition pipeline.
// Construct it once at startup and share the instance; it is safe for
// concurrent use.
type Service struct {
	orchestrator *orchestration.Orchestrator
	cache        interfaces.DatasetCache
	logger       logging.Logger
}

// Option represents an option for configuring the service
type Option func(*builder)

type builder struct {
	logger         logging.Logger
	cache          interfaces.DatasetCache
	networkSources []interfaces.DataSource
	terminal       interfaces.DataSource
}

// WithLogger sets the logger for the service
func WithLogger(logger logging.Logger) Option {
	return func(b *builder) {
		b.logger = logger
	}
}

// WithCache overrides the config-selected cache backend
func WithCache(c interfaces.DatasetCache) Option {
	return func(b *builder) {
		b.cache = c
	}
}

// WithSources overrides the config-built source chain. Useful in tests.
func WithSources(network []interfaces.DataSource, terminal interfaces.DataSource) Option {
	return func(b *builder) {
		b.networkSources = network
		b.terminal = terminal
	}
}

// New builds the service and every pipeline component from configuration
func New(cfg *config.Config, options ...Option) (*Service, error) {
	b := &builder{}
	for _, option := range options {
		option(b)
	}

	if b.logger == nil {
		b.logger = logging.New()
	}

	if b.cache == nil {
		switch cfg.Cache.Backend {
		case "redis":
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Cache.Redis.URL,
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
			})
			b.cache = cache.NewRedis(client)
		case "memory", "":
			b.cache = cache.NewMemory()
		default:
			return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
		}
	}

	if b.networkSources == nil && b.terminal == nil {
		githubSource, err := github.New(cfg, github.WithLogger(b.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to build github source: %w", err)
		}
		crunchbaseSource := crunchbase.New(cfg, crunchbase.WithLogger(b.logger))

		b.networkSources = []interfaces.DataSource{githubSource, crunchbaseSource}
		b.terminal = static.New()
	}

	orchestrator := orchestration.New(
		b.cache,
		schema.New(),
		b.networkSources,
		b.terminal,
		orchestration.WithLogger(b.logger),
		orchestration.WithTTL("github", cfg.Cache.GitHubTTL),
		orchestration.WithTTL("crunchbase", cfg.Cache.CrunchbaseTTL),
		orchestration.WithTTL("static", cfg.Cache.StaticTTL),
	)

	return &Service{
		orchestrator: orchestrator,
		cache:        b.cache,
		logger:       b.logger,
	}, nil
}

// GetGraph returns the assembled graph, fetching through the fallback chain
// when the cache is stale. An empty dataset yields a valid empty graph, not
// an error; absence of data is always an explicit error.
func (s *Service) GetGraph(ctx context.Context) (*graph.Model, error) {
	dataset, err := s.orchestrator.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return graph.Assemble(dataset)
}

// RefreshGraph invalidates the cache and re-runs the acquisition chain
func (s *Service) RefreshGraph(ctx context.Context) (*graph.Model, error) {
	dataset, err := s.orchestrator.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return graph.Assemble(dataset)
}

// GetStats reports the active source and cache state
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	cacheStats, err := s.cache.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return Stats{
		ActiveSource: s.orchestrator.ActiveSource(),
		Cache:        cacheStats,
	}, nil
}

// FindNode returns the graph node with the given id
func (s *Service) FindNode(ctx context.Context, id string) (*graph.Node, error) {
	model, err := s.GetGraph(ctx)
	if err != nil {
		return nil, err
	}
	for i := range model.Nodes {
		if model.Nodes[i].ID() == id {
			return &model.Nodes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: node %s", interfaces.ErrNotFound, id)
}

// Neighbors returns the nodes one edge away from id, in either direction
func (s *Service) Neighbors(ctx context.Context, id string) ([]graph.Node, error) {
	model, err := s.GetGraph(ctx)
	if err != nil {
		return nil, err
	}
	return graph.Neighbors(id, model.Nodes, model.Edges), nil
}

// Filter returns the subgraph matching criteria
func (s *Service) Filter(ctx context.Context, criteria graph.Criteria) (*graph.Model, error) {
	model, err := s.GetGraph(ctx)
	if err != nil {
		return nil, err
	}
	return graph.Filter(model, criteria), nil
}
