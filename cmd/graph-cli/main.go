package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/venturegraph/sdk-go/pkg/config"
	"github.com/venturegraph/sdk-go/pkg/graph"
	"github.com/venturegraph/sdk-go/pkg/interfaces"
	"github.com/venturegraph/sdk-go/pkg/logging"
	"github.com/venturegraph/sdk-go/pkg/service"
	"github.com/venturegraph/sdk-go/pkg/tracing"
)

var logger = logging.New()

func main() {
	configPath := flag.String("config", "", "path to a YAML config overlay")
	refresh := flag.Bool("refresh", false, "invalidate the cache before fetching")
	domains := flag.String("domains", "", "comma-separated domain tags to filter by")
	stages := flag.String("stages", "", "comma-separated lifecycle stages to filter by")
	search := flag.String("search", "", "name search term")
	asJSON := flag.Bool("json", false, "print the graph as JSON")
	flag.Parse()

	ctx := context.Background()

	cfg := config.Get()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	shutdown, err := tracing.Init(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logger.Warn(ctx, "Tracer shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	svc, err := service.New(cfg, service.WithLogger(logger))
	if err != nil {
		log.Fatalf("failed to build service: %v", err)
	}

	var model *graph.Model
	if *refresh {
		model, err = svc.RefreshGraph(ctx)
	} else {
		model, err = svc.GetGraph(ctx)
	}
	if err != nil {
		log.Fatalf("failed to fetch graph: %v", err)
	}

	criteria := graph.Criteria{
		Domains: splitList(*domains),
		Search:  *search,
	}
	for _, s := range splitList(*stages) {
		criteria.Stages = append(criteria.Stages, interfaces.Stage(s))
	}
	model = graph.Filter(model, criteria)

	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(model); err != nil {
			log.Fatalf("failed to encode graph: %v", err)
		}
		return
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		log.Fatalf("failed to read stats: %v", err)
	}

	fmt.Printf("source: %s\n", stats.ActiveSource)
	fmt.Printf("cache:  %d entries\n", stats.Cache.Size)
	fmt.Printf("graph:  %d nodes, %d edges\n", len(model.Nodes), len(model.Edges))
	for _, node := range model.Nodes {
		fmt.Printf("  [%s] %s (%s)\n", node.Kind, node.Name(), node.ID())
	}
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
