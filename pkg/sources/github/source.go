// Package github implements the GitHub-backed data source: startup-like
// organizations discovered through repository search, their contributors as
// people, and inferred founder/affiliation edges between them.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v45/github"
	"golang.org/x/oauth2"

	"github.com/venturegraph/sdk-go/pkg/config"
	"github.com/venturegraph/sdk-go/pkg/interfaces"
	"github.com/venturegraph/sdk-go/pkg/logging"
	"github.com/venturegraph/sdk-go/pkg/ratelimit"
	"github.com/venturegraph/sdk-go/pkg/retry"
)

const sourceName = "github"

// Source implements interfaces.DataSource on top of the GitHub API
type Source struct {
	client        *gh.Client
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

// WithClient overrides the GitHub API client. Useful in tests.
func WithClient(client *gh.Client) Option {
	return func(s *Source) {
		s.client = client
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

// New creates a GitHub source from configuration. Without a token the
// client falls back to anonymous access and the slower anonymous rate tier.
func New(cfg *config.Config, options ...Option) (*Source, error) {
	ctx := context.Background()

	token := cfg.Sources.GitHub.Token
	var client *gh.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = gh.NewClient(oauth2.NewClient(ctx, ts))
	} else {
		client = gh.NewClient(nil)
	}

	if base := cfg.Sources.GitHub.BaseURL; base != "" {
		parsed, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github base url: %w", err)
		}
		client.BaseURL = parsed
	}

	interval := cfg.RateLimit.GitHubInterval
	if token == "" {
		interval = cfg.RateLimit.GitHubAnonInterval
	}

	source := &Source{
		client:  client,
		limiter: ratelimit.New(interval),
		executor: retry.NewExecutor(retry.NewPolicy(
			retry.WithMaximumAttempts(cfg.Retry.MaxAttempts),
			retry.WithDefaultRetryAfter(cfg.Retry.DefaultRetryAfter),
			retry.WithBackoffBase(cfg.Retry.BackoffBase),
		)),
		logger:        logging.New(),
		heuristics:    cfg.Heuristics,
		query:         cfg.Sources.GitHub.SearchQuery,
		maxOrgs:       cfg.Sources.GitHub.MaxOrgs,
		enabled:       cfg.Sources.GitHub.Enabled,
		allowFallback: cfg.Sources.GitHub.AllowFallback,
		now:           time.Now,
	}

	for _, option := range options {
		option(source)
	}

	return source, nil
}

// Name implements interfaces.DataSource
func (s *Source) Name() string { return sourceName }

// Enabled implements interfaces.DataSource
func (s *Source) Enabled() bool { return s.enabled }

// AllowFallback implements interfaces.DataSource
func (s *Source) AllowFallback() bool { return s.allowFallback }

// Fetch retrieves repositories matching the configured search query, groups
// them into organizations by owner, and enriches each organization with its
// profile and top contributors. The search is the step's primary call; a
// failed profile or contributor sub-fetch is logged and skipped so one bad
// record never aborts the batch.
func (s *Source) Fetch(ctx context.Context) (*interfaces.Dataset, error) {
	repos, err := s.searchRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("github search failed: %w", err)
	}

	owners, byOwner := groupByOwner(repos, s.maxOrgs)

	dataset := &interfaces.Dataset{
		Organizations: make([]interfaces.Organization, 0, len(owners)),
		People:        []interfaces.Person{},
		Relationships: []interfaces.Relationship{},
	}
	people := make(map[string]int) // person id -> index into dataset.People

	for _, owner := range owners {
		ownerRepos := byOwner[owner]

		profile, err := s.fetchProfile(ctx, owner)
		if err != nil {
			s.logger.Warn(ctx, "Organization profile fetch failed, using repository data only", map[string]interface{}{
				"owner": owner,
				"error": err.Error(),
			})
		}

		org := mapOrganization(owner, profile, ownerRepos, s.heuristics, s.now())
		dataset.Organizations = append(dataset.Organizations, org)

		topRepo := ownerRepos[0]
		contributors, err := s.fetchContributors(ctx, owner, topRepo.GetName())
		if err != nil {
			s.logger.Warn(ctx, "Contributor fetch failed, skipping organization's people", map[string]interface{}{
				"owner": owner,
				"repo":  topRepo.GetName(),
				"error": err.Error(),
			})
			continue
		}

		orgCreated := topRepo.GetCreatedAt().Time
		if profile != nil && !profile.GetCreatedAt().IsZero() {
			orgCreated = profile.GetCreatedAt()
		}

		for _, contributor := range contributors {
			if contributor.GetLogin() == "" {
				continue
			}
			founder := isFounder(contributor.GetContributions(), topRepo.GetCreatedAt().Time, orgCreated, s.heuristics.Founder)

			pid := personID(contributor.GetLogin())
			if idx, exists := people[pid]; exists {
				if founder {
					dataset.People[idx].Roles = upgradeRole(dataset.People[idx].Roles)
				}
			} else {
				people[pid] = len(dataset.People)
				dataset.People = append(dataset.People, mapContributor(contributor, founder, topRepo.Topics))
			}

			dataset.Relationships = append(dataset.Relationships,
				relationshipFor(pid, org.ID, founder, topRepo.GetCreatedAt().Time.Year()))
		}
	}

	return dataset, nil
}

func (s *Source) searchRepositories(ctx context.Context) ([]*gh.Repository, error) {
	var repos []*gh.Repository
	err := s.call(ctx, func() error {
		result, _, err := s.client.Search.Repositories(ctx, s.query, &gh.SearchOptions{
			Sort:        "stars",
			ListOptions: gh.ListOptions{PerPage: 50},
		})
		if err != nil {
			return classifyError(err, s.now())
		}
		repos = result.Repositories
		return nil
	})
	return repos, err
}

func (s *Source) fetchProfile(ctx context.Context, owner string) (*gh.Organization, error) {
	var profile *gh.Organization
	err := s.call(ctx, func() error {
		result, _, err := s.client.Organizations.Get(ctx, owner)
		if err != nil {
			return classifyError(err, s.now())
		}
		profile = result
		return nil
	})
	return profile, err
}

func (s *Source) fetchContributors(ctx context.Context, owner, repo string) ([]*gh.Contributor, error) {
	var contributors []*gh.Contributor
	err := s.call(ctx, func() error {
		result, _, err := s.client.Repositories.ListContributors(ctx, owner, repo, &gh.ListContributorsOptions{
			ListOptions: gh.ListOptions{PerPage: 10},
		})
		if err != nil {
			return classifyError(err, s.now())
		}
		contributors = result
		return nil
	})
	return contributors, err
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

// groupByOwner buckets repositories by owner login, preserving the search
// result order of first appearance, capped at maxOwners owners
func groupByOwner(repos []*gh.Repository, maxOwners int) ([]string, map[string][]*gh.Repository) {
	var owners []string
	byOwner := make(map[string][]*gh.Repository)

	for _, repo := range repos {
		owner := repo.GetOwner().GetLogin()
		if owner == "" {
			continue
		}
		if _, seen := byOwner[owner]; !seen {
			if maxOwners > 0 && len(owners) >= maxOwners {
				continue
			}
			owners = append(owners, owner)
		}
		byOwner[owner] = append(byOwner[owner], repo)
	}
	return owners, byOwner
}

func upgradeRole(roles []string) []string {
	for _, role := range roles {
		if role == "founder" {
			return roles
		}
	}
	return append([]string{"founder"}, roles...)
}
