package calendar

import (
	"bytes"
	"testing"

	"github.com/bobmcallan/pulse/internal/models"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47}

func TestRenderFrequencyChart(t *testing.T) {
	analytics := BuildAnalytics(viewEvents())

	png, err := RenderFrequencyChart(analytics)
	if err != nil {
		t.Fatalf("RenderFrequencyChart failed: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("expected non-empty PNG output")
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output does not look like a PNG")
	}
}

func TestRenderFrequencyChart_Empty(t *testing.T) {
	if _, err := RenderFrequencyChart(models.Analytics{MaxDayCount: 1}); err == nil {
		t.Fatal("expected error for empty analytics")
	}
}
