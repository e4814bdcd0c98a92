package sources

import (
	"testing"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

func TestNormalizeStage(t *testing.T) {
	tests := []struct {
		raw  string
		want interfaces.Stage
	}{
		{"seed", interfaces.StageSeed},
		{"SERIES_A", interfaces.StageSeriesA},
		{"Series-B", interfaces.StageSeriesB},
		{"series_c", interfaces.StageSeriesC},
		{"  ipo  ", interfaces.StageIPO},
		{"acquired", interfaces.StageAcquired},
		{"", interfaces.StageSeed},
		{"angel", interfaces.StageSeed},
		{"pre_seed_extension", interfaces.StageSeed},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeStage(tt.raw); got != tt.want {
				t.Errorf("NormalizeStage(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
