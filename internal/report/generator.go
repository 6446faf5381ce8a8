package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"traceroute-monitor/internal/models"
)

// GraphWindow is how far back the packet loss chart reaches
const GraphWindow = 7 * 24 * time.Hour

// Generator builds the packet loss status page
type Generator struct {
	db     models.Database
	logger *zap.Logger
	now    func() time.Time
}

// NewGenerator creates a new page generator
func NewGenerator(db models.Database, logger *zap.Logger) *Generator {
	return &Generator{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Page is a rendered-ready snapshot of every connection
type Page struct {
	Generated   time.Time
	Connections []Connection
}

// Connection is one section of the page
type Connection struct {
	models.ConnectionSummary
	Graph template.URL // data URL of the PNG chart, empty when there is nothing to plot
}

// Summary computes the window averages for one connection. Windows that
// fail to load are logged and read as 0.
func (g *Generator) Summary(name string) models.ConnectionSummary {
	now := g.now()
	summary := models.ConnectionSummary{ConnectionName: name}

	for _, w := range models.Windows {
		avg, err := g.db.AveragePacketLoss(now.Add(-w.Duration), name)
		if err != nil {
			g.logger.Error("Failed to average packet loss",
				zap.String("connection", name), zap.String("window", w.Label), zap.Error(err))
			avg = 0
		}
		summary.Averages = append(summary.Averages, models.WindowAverage{Window: w.Label, PacketLoss: avg})
	}

	return summary
}

// Generate collects averages and charts for the named connections
func (g *Generator) Generate(ctx context.Context, names []string) (*Page, error) {
	page := &Page{Generated: g.now()}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conn := Connection{ConnectionSummary: g.Summary(name)}

		points, err := g.db.LossSeries(page.Generated.Add(-GraphWindow), name)
		if err != nil {
			g.logger.Error("Failed to load packet loss series", zap.String("connection", name), zap.Error(err))
		} else if png, err := g.renderLossChart(name, points); err != nil {
			g.logger.Error("Failed to generate packet loss graph", zap.String("connection", name), zap.Error(err))
		} else if png != nil {
			conn.Graph = dataURL(png)
		}

		page.Connections = append(page.Connections, conn)
	}

	return page, nil
}

// Render writes the page as HTML
func (p *Page) Render(w io.Writer) error {
	return pageTemplate.Execute(w, p)
}

// WriteFile renders the page to path, replacing any previous version in a
// single rename so readers never see a partial file
func WriteFile(path string, page *Page) error {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".page-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temp page: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write page: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// StaticPage regenerates the page file for a fixed set of connections
type StaticPage struct {
	Generator *Generator
	Names     []string
	Path      string
}

// Refresh regenerates and rewrites the page file
func (s *StaticPage) Refresh(ctx context.Context) error {
	page, err := s.Generator.Generate(ctx, s.Names)
	if err != nil {
		return err
	}
	if err := WriteFile(s.Path, page); err != nil {
		return err
	}
	s.Generator.logger.Debug("Status page written", zap.String("path", s.Path))
	return nil
}
