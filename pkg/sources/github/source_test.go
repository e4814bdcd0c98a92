package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gh "github.com/google/go-github/v45/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturegraph/sdk-go/pkg/config"
	"github.com/venturegraph/sdk-go/pkg/interfaces"
	"github.com/venturegraph/sdk-go/pkg/logging"
	"github.com/venturegraph/sdk-go/pkg/ratelimit"
	"github.com/venturegraph/sdk-go/pkg/retry"
)

const searchResponse = `{
	"total_count": 2,
	"incomplete_results": false,
	"items": [
		{
			"name": "core",
			"owner": {"login": "lumenai"},
			"stargazers_count": 1500,
			"topics": ["machine-learning", "kubernetes"],
			"language": "Go",
			"created_at": "2019-03-01T00:00:00Z"
		},
		{
			"name": "sdk",
			"owner": {"login": "lumenai"},
			"stargazers_count": 200,
			"topics": ["fintech"],
			"created_at": "2020-06-01T00:00:00Z"
		}
	]
}`

const orgResponse = `{
	"login": "lumenai",
	"name": "Lumen AI",
	"location": "Berlin",
	"description": "Applied ML tooling",
	"public_repos": 25,
	"created_at": "2019-03-01T00:00:00Z"
}`

const contributorsResponse = `[
	{"login": "ada", "contributions": 120},
	{"login": "kai", "contributions": 5}
]`

func newTestSource(t *testing.T, handler http.Handler) *Source {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	cfg := &config.Config{}
	cfg.Sources.GitHub.Enabled = true
	cfg.Sources.GitHub.SearchQuery = "topic:startup stars:>100"
	cfg.Sources.GitHub.MaxOrgs = 10
	cfg.Sources.GitHub.AllowFallback = true
	cfg.Retry.MaxAttempts = 2
	cfg.Heuristics = config.DefaultHeuristics()

	source, err := New(cfg,
		WithClient(client),
		WithLogger(logging.NoOp()),
		WithLimiter(ratelimit.New(0)),
		WithRetryExecutor(retry.NewExecutor(
			retry.NewPolicy(retry.WithMaximumAttempts(2)),
			retry.WithLogger(logging.NoOp()),
			retry.WithSleep(func(context.Context, time.Duration) error { return nil }),
		)),
		WithClock(func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return source
}

func TestFetchBuildsDataset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(searchResponse))
	})
	mux.HandleFunc("/orgs/lumenai", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(orgResponse))
	})
	mux.HandleFunc("/repos/lumenai/core/contributors", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(contributorsResponse))
	})

	source := newTestSource(t, mux)

	dataset, err := source.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, dataset.Organizations, 1)
	org := dataset.Organizations[0]
	assert.Equal(t, "gh-org-lumenai", org.ID)
	assert.Equal(t, "Lumen AI", org.Name)
	assert.Equal(t, "Berlin", org.Location)
	assert.Equal(t, 2019, org.FoundedYear)
	assert.Equal(t, []string{"AI", "Infrastructure", "Fintech"}, org.Domains)

	require.Len(t, dataset.People, 2)
	assert.Equal(t, "gh-user-ada", dataset.People[0].ID)
	assert.Equal(t, []string{"founder"}, dataset.People[0].Roles)
	assert.Equal(t, []string{"contributor"}, dataset.People[1].Roles)

	require.Len(t, dataset.Relationships, 2)
	assert.Equal(t, interfaces.RelationCoFounded, dataset.Relationships[0].Type)
	assert.Equal(t, "gh-user-ada", dataset.Relationships[0].SourceID)
	assert.Equal(t, "gh-org-lumenai", dataset.Relationships[0].TargetID)
	assert.Equal(t, interfaces.RelationWorksAt, dataset.Relationships[1].Type)
}

func TestFetchSearchFailureAborts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	source := newTestSource(t, mux)

	_, err := source.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github search failed")
}

func TestFetchProfileFailureFallsBackToRepoData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(searchResponse))
	})
	mux.HandleFunc("/orgs/lumenai", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/repos/lumenai/core/contributors", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(contributorsResponse))
	})

	source := newTestSource(t, mux)

	dataset, err := source.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, dataset.Organizations, 1)
	// Without a profile the login names the organization and the earliest
	// repository dates it
	assert.Equal(t, "lumenai", dataset.Organizations[0].Name)
	assert.Equal(t, 2019, dataset.Organizations[0].FoundedYear)
	assert.Len(t, dataset.People, 2)
}

func TestFetchContributorFailureSkipsPeople(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(searchResponse))
	})
	mux.HandleFunc("/orgs/lumenai", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(orgResponse))
	})
	mux.HandleFunc("/repos/lumenai/core/contributors", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	source := newTestSource(t, mux)

	dataset, err := source.Fetch(context.Background())
	require.NoError(t, err)

	assert.Len(t, dataset.Organizations, 1)
	assert.Empty(t, dataset.People)
	assert.Empty(t, dataset.Relationships)
}

func TestFetchRetriesTransientSearchFailure(t *testing.T) {
	var searchCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, _ *http.Request) {
		searchCalls++
		if searchCalls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(searchResponse))
	})
	mux.HandleFunc("/orgs/lumenai", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(orgResponse))
	})
	mux.HandleFunc("/repos/lumenai/core/contributors", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(contributorsResponse))
	})

	source := newTestSource(t, mux)

	dataset, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, searchCalls)
	assert.Len(t, dataset.Organizations, 1)
}

func TestGroupByOwner(t *testing.T) {
	repos := []*gh.Repository{
		{Name: gh.String("a"), Owner: &gh.User{Login: gh.String("first")}},
		{Name: gh.String("b"), Owner: &gh.User{Login: gh.String("second")}},
		{Name: gh.String("c"), Owner: &gh.User{Login: gh.String("first")}},
		{Name: gh.String("d"), Owner: &gh.User{Login: gh.String("third")}},
		{Name: gh.String("e")},
	}

	owners, byOwner := groupByOwner(repos, 2)

	assert.Equal(t, []string{"first", "second"}, owners)
	assert.Len(t, byOwner["first"], 2)
	assert.Len(t, byOwner["second"], 1)
	_, capped := byOwner["third"]
	assert.False(t, capped)
}

func TestSourceMetadata(t *testing.T) {
	source := newTestSource(t, http.NewServeMux())

	assert.Equal(t, "github", source.Name())
	assert.True(t, source.Enabled())
	assert.True(t, source.AllowFallback())
}
