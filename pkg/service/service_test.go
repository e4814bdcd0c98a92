package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturegraph/sdk-go/pkg/config"
	"github.com/venturegraph/sdk-go/pkg/graph"
	"github.com/venturegraph/sdk-go/pkg/interfaces"
	"github.com/venturegraph/sdk-go/pkg/logging"
	"github.com/venturegraph/sdk-go/pkg/sources/static"
)

const staticTestData = `{
	"organizations": [
		{"id": "s1", "name": "LumenAI", "domains": ["ai-ml"], "stage": "series-b", "foundedYear": 2019},
		{"id": "s2", "name": "Heliobank", "domains": ["fintech"], "stage": "series-a", "foundedYear": 2021}
	],
	"people": [
		{"id": "p1", "name": "Ada Voss", "roles": ["founder"]}
	],
	"relationships": [
		{"source": "p1", "target": "s1", "type": "co-founded", "sinceYear": 2019},
		{"source": "s2", "target": "s1", "type": "invests-in"}
	]
}`

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.Heuristics = config.DefaultHeuristics()

	svc, err := New(cfg,
		WithLogger(logging.NoOp()),
		WithSources(nil, static.NewWithData([]byte(staticTestData))),
	)
	require.NoError(t, err)
	return svc
}

func TestGetGraph(t *testing.T) {
	svc := newTestService(t)

	model, err := svc.GetGraph(context.Background())
	require.NoError(t, err)

	assert.Len(t, model.Nodes, 3)
	require.Len(t, model.Edges, 2)
	assert.Equal(t, "edge-0", model.Edges[0].ID)
	assert.Equal(t, "co-founded", model.Edges[0].Label)
}

func TestFindNode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	node, err := svc.FindNode(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "LumenAI", node.Name())
	assert.Equal(t, interfaces.KindOrganization, node.Kind)

	_, err = svc.FindNode(ctx, "absent")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestNeighbors(t *testing.T) {
	svc := newTestService(t)

	neighbors, err := svc.Neighbors(context.Background(), "s1")
	require.NoError(t, err)

	ids := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		ids = append(ids, n.ID())
	}
	assert.ElementsMatch(t, []string{"p1", "s2"}, ids)
}

func TestFilter(t *testing.T) {
	svc := newTestService(t)

	model, err := svc.Filter(context.Background(), graph.Criteria{Domains: []string{"fintech"}})
	require.NoError(t, err)

	require.Len(t, model.Nodes, 1)
	assert.Equal(t, "s2", model.Nodes[0].ID())
}

func TestGetStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats.ActiveSource)
	assert.Zero(t, stats.Cache.Size)

	_, err = svc.GetGraph(ctx)
	require.NoError(t, err)

	stats, err = svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "static", stats.ActiveSource)
	assert.Equal(t, 1, stats.Cache.Size)
}

func TestRefreshGraphWithoutNetworkSource(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RefreshGraph(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrNoNetworkSource)
}

func TestNewRejectsUnknownCacheBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Backend = "memcached"

	_, err := New(cfg, WithLogger(logging.NoOp()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache backend")
}

func TestGetGraphCorruptBundle(t *testing.T) {
	cfg := &config.Config{}
	cfg.Heuristics = config.DefaultHeuristics()

	svc, err := New(cfg,
		WithLogger(logging.NoOp()),
		WithSources(nil, static.NewWithData([]byte(`not json`))),
	)
	require.NoError(t, err)

	_, err = svc.GetGraph(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrAllSourcesExhausted))
}
