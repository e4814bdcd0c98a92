package crunchbase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/venturegraph/sdk-go/pkg/config"
	"github.com/venturegraph/sdk-go/pkg/interfaces"
	"github.com/venturegraph/sdk-go/pkg/logging"
	"github.com/venturegraph/sdk-go/pkg/ratelimit"
	"github.com/venturegraph/sdk-go/pkg/retry"
)

const sourceName = "crunchbase"

// Source implements interfaces.DataSource on top of the Crunchbase API.
// Crunchbase has no anonymous tier: without an API key the source reports
// itself disabled.
type Source struct {
	client        *client
	limiter       *ratelimit.Limiter
	executor      *retry.Executor
	logger        logging.Logger
	heuristics    config.Heuristics
	query         string
	maxOrgs       int
	enabled       bool
	allowFallback bool
	now           func() time.Time
}

// Option represents an option for configuring the source
type Option func(*Source)

// WithLogger sets the logger for the source
func WithLogger(logger logging.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// WithHTTPClient overrides the HTTP client. Useful in tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Source) {
		s.client.httpClient = httpClient
	}
}

// WithLimiter overrides the rate limiter
func WithLimiter(limiter *ratelimit.Limiter) Option {
	return func(s *Source) {
		s.limiter = limiter
	}
}

// WithRetryExecutor overrides the retry executor
func WithRetryExecutor(executor *retry.Executor) Option {
	return func(s *Source) {
		s.executor = executor
	}
}

// WithClock overrides the time source. Useful in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		s.now = now
	}
}

// New creates a Crunchbase source from configuration
func New(cfg *config.Config, options ...Option) *Source {
	apiKey := cfg.Sources.Crunchbase.APIKey

	source := &Source{
		client:  newClient(cfg.Sources.Crunchbase.BaseURL, apiKey, cfg.HTTP.Timeout),
		limiter: ratelimit.New(cfg.RateLimit.CrunchbaseInterval),
		executor: retry.NewExecutor(retry.NewPolicy(
			retry.WithMaximumAttempts(cfg.Retry.MaxAttempts),
			retry.WithDefaultRetryAfter(cfg.Retry.DefaultRetryAfter),
			retry.WithBackoffBase(cfg.Retry.BackoffBase),
		)),
		logger:        logging.New(),
		heuristics:    cfg.Heuristics,
		query:         cfg.Sources.Crunchbase.Query,
		maxOrgs:       cfg.Sources.Crunchbase.MaxOrgs,
		enabled:       cfg.Sources.Crunchbase.Enabled && apiKey != "",
		allowFallback: cfg.Sources.Crunchbase.AllowFallback,
		now:           time.Now,
	}

	for _, option := range options {
		option(source)
	}

	return source
}

// Name implements interfaces.DataSource
func (s *Source) Name() string { return sourceName }

// Enabled implements interfaces.DataSource
func (s *Source) Enabled() bool { return s.enabled }

// AllowFallback implements interfaces.DataSource
func (s *Source) AllowFallback() bool { return s.allowFallback }

// Fetch retrieves organizations from the search API and enriches each with
// its founders. The search is the step's primary call; a failed founders
// sub-fetch is logged and skipped.
func (s *Source) Fetch(ctx context.Context) (*interfaces.Dataset, error) {
	entities, err := s.search(ctx)
	if err != nil {
		return nil, fmt.Errorf("crunchbase search failed: %w", err)
	}

	dataset := &interfaces.Dataset{
		Organizations: make([]interfaces.Organization, 0, len(entities)),
		People:        []interfaces.Person{},
		Relationships: []interfaces.Relationship{},
	}
	seenOrgs := make(map[string]bool)
	seenPeople := make(map[string]bool)

	for _, entity := range entities {
		if entity.UUID == "" || seenOrgs[orgID(entity.UUID)] {
			continue
		}

		org := mapOrganization(entity, s.heuristics, s.now())
		seenOrgs[org.ID] = true
		dataset.Organizations = append(dataset.Organizations, org)

		for _, investor := range entity.Properties.InvestorIdentifiers {
			if investor.UUID == "" {
				continue
			}
			investorOrg := mapInvestor(investor, s.now())
			if !seenOrgs[investorOrg.ID] {
				seenOrgs[investorOrg.ID] = true
				dataset.Organizations = append(dataset.Organizations, investorOrg)
			}
			dataset.Relationships = append(dataset.Relationships, interfaces.Relationship{
				SourceID: investorOrg.ID,
				TargetID: org.ID,
				Type:     interfaces.RelationInvestsIn,
			})
		}

		founders, err := s.founders(ctx, entity.UUID)
		if err != nil {
			s.logger.Warn(ctx, "Founders fetch failed, skipping organization's people", map[string]interface{}{
				"organization": org.Name,
				"error":        err.Error(),
			})
			continue
		}

		for _, f := range founders {
			if f.Identifier.UUID == "" {
				continue
			}
			person := mapFounder(f, entity.Properties.Categories)
			if !seenPeople[person.ID] {
				seenPeople[person.ID] = true
				dataset.People = append(dataset.People, person)
			}
			dataset.Relationships = append(dataset.Relationships, interfaces.Relationship{
				SourceID:  person.ID,
				TargetID:  org.ID,
				Type:      interfaces.RelationCoFounded,
				SinceYear: org.FoundedYear,
			})
		}
	}

	return dataset, nil
}

func (s *Source) search(ctx context.Context) ([]orgEntity, error) {
	var entities []orgEntity
	err := s.call(ctx, func() error {
		result, err := s.client.searchOrganizations(ctx, s.query, s.maxOrgs)
		if err != nil {
			return err
		}
		entities = result
		return nil
	})
	return entities, err
}

func (s *Source) founders(ctx context.Context, uuid string) ([]founder, error) {
	var result []founder
	err := s.call(ctx, func() error {
		founders, err := s.client.fetchFounders(ctx, uuid)
		if err != nil {
			return err
		}
		result = founders
		return nil
	})
	return result, err
}

// call runs one API operation through the rate limiter and the retry
// executor. The limiter gates every attempt, retries included.
func (s *Source) call(ctx context.Context, op func() error) error {
	return s.executor.Execute(ctx, func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		return op()
	})
}
