package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"traceroute-monitor/internal/models"
)

// renderLossChart draws packet loss over time as a PNG. Values outside 0-100
// are dropped. It returns nil when there is nothing left to plot.
func (g *Generator) renderLossChart(name string, points []models.LossPoint) ([]byte, error) {
	var times []time.Time
	var losses []float64
	for _, p := range points {
		if p.PacketLoss < 0 || p.PacketLoss > 100 {
			g.logger.Warn("Ignoring out-of-range packet loss value",
				zap.String("connection", name), zap.Float64("packet_loss", p.PacketLoss), zap.Time("at", p.Time))
			continue
		}
		times = append(times, p.Time)
		losses = append(losses, p.PacketLoss)
	}

	if len(times) == 0 {
		g.logger.Info("No valid data points to plot", zap.String("connection", name))
		return nil, nil
	}

	xAxis := chart.XAxis{
		Name: "Time",
		NameStyle: chart.Style{
			FontSize: 12,
		},
		Style: chart.Style{
			StrokeColor: drawing.ColorBlack,
			FontSize:    10,
		},
		ValueFormatter: chart.TimeMinuteValueFormatter,
	}
	// A single instant has no width; give the axis a minute either side
	if first, last := times[0], times[len(times)-1]; !last.After(first) {
		xAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(first.Add(-time.Minute)),
			Max: chart.TimeToFloat64(last.Add(time.Minute)),
		}
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("Packet Loss Over Time for %s", name),
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    20,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:  1000,
		Height: 500,
		XAxis:  xAxis,
		YAxis: chart.YAxis{
			Name: "Packet Loss (%)",
			NameStyle: chart.Style{
				FontSize: 12,
			},
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
				StrokeWidth: 1.0,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: name,
				Style: chart.Style{
					StrokeColor: chart.GetDefaultColor(0),
					StrokeWidth: 2,
					DotColor:    chart.GetDefaultColor(0),
					DotWidth:    3,
				},
				XValues: times,
				YValues: losses,
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func dataURL(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
