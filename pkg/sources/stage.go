// Package sources holds helpers shared by the concrete data source
// implementations under this directory.
package sources

import (
	"strings"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// NormalizeStage maps a source's free-form funding/lifecycle label into the
// stage enumeration: lower-cased, underscores become hyphens, and anything
// unknown or absent defaults to seed.
func NormalizeStage(raw string) interfaces.Stage {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	if normalized == "" {
		return interfaces.StageSeed
	}

	stage := interfaces.Stage(normalized)
	if stage.Valid() {
		return stage
	}
	return interfaces.StageSeed
}
