// Package static provides the terminal fallback source: a bundled dataset
// that is always available and never rate limited. A corrupted bundle is an
// unrecoverable condition.
package static

import (
	"context"
	"encoding/json"
	"fmt"

	_ "embed"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

//go:embed dataset.json
var bundled []byte

const sourceName = "static"

// Source implements interfaces.DataSource over the bundled dataset
type Source struct {
	raw []byte
}

// New creates the static fallback source
func New() *Source {
	return &Source{raw: bundled}
}

// NewWithData creates a static source over caller-supplied JSON. Useful in
// tests.
func NewWithData(raw []byte) *Source {
	return &Source{raw: raw}
}

// Name implements interfaces.DataSource
func (s *Source) Name() string { return sourceName }

// Enabled implements interfaces.DataSource; the bundle is always available
func (s *Source) Enabled() bool { return true }

// AllowFallback implements interfaces.DataSource. The static source is the
// end of the chain; there is nothing to fall back to.
func (s *Source) AllowFallback() bool { return false }

// Fetch decodes the bundled dataset. It goes through the same validation as
// any other source downstream.
func (s *Source) Fetch(_ context.Context) (*interfaces.Dataset, error) {
	var dataset interfaces.Dataset
	if err := json.Unmarshal(s.raw, &dataset); err != nil {
		return nil, fmt.Errorf("bundled dataset is corrupted: %w", err)
	}
	return &dataset, nil
}
