package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/pulse/internal/models"
)

// RenderFrequencyChart renders a PNG bar chart of companies reporting per
// day. Returns raw PNG bytes.
func RenderFrequencyChart(analytics models.Analytics) ([]byte, error) {
	if len(analytics.Days) == 0 {
		return nil, fmt.Errorf("no reporting days to chart")
	}

	bars := make([]chart.Value, len(analytics.Days))
	for i, day := range analytics.Days {
		label := day.Date
		if t, err := time.Parse(models.DateLayout, day.Date); err == nil {
			label = t.Format("Jan 2")
		}
		bars[i] = chart.Value{
			Label: label,
			Value: float64(day.Count),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("10b981"), // emerald-500
				StrokeColor: drawing.ColorFromHex("10b981"),
			},
		}
	}

	graph := chart.BarChart{
		Title:    "Upcoming Reporting Frequency",
		Width:    900,
		Height:   400,
		BarWidth: 860 / (len(bars) + 1),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: float64(analytics.MaxDayCount),
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
