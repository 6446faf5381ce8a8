package monitor

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"traceroute-monitor/internal/config"
	"traceroute-monitor/internal/models"
)

// Monitor coordinates traceroute monitoring operations
type Monitor struct {
	config  config.MonitorConfig
	db      models.Database
	tracer  models.Tracer
	page    models.PageWriter
	logger  *zap.Logger
	results chan models.Probe
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a new Monitor. page may be nil, in which case no status page
// is written.
func New(cfg config.MonitorConfig, db models.Database, tracer models.Tracer, page models.PageWriter, logger *zap.Logger) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		config:  cfg,
		db:      db,
		tracer:  tracer,
		page:    page,
		logger:  logger,
		results: make(chan models.Probe, 100),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins the monitoring process
func (m *Monitor) Start() error {
	m.logger.Info("Starting traceroute monitoring",
		zap.String("target", m.config.Target),
		zap.Strings("interfaces", m.config.Interfaces),
		zap.Strings("connections", m.config.ConnectionNames),
		zap.Duration("interval", m.config.Interval))

	// Start result processor
	m.wg.Add(1)
	go m.processResults()

	// One worker per interface
	for i, iface := range m.config.Interfaces {
		m.wg.Add(1)
		go m.traceWorker(iface, m.config.ConnectionNames[i])
	}

	if m.page != nil {
		m.wg.Add(1)
		go m.pageWorker()
	}

	return nil
}

// Stop signals every worker to finish
func (m *Monitor) Stop() {
	m.logger.Info("Received signal to stop, exiting safely")
	m.cancel()
}

// Wait blocks until all goroutines finish
func (m *Monitor) Wait() {
	m.wg.Wait()
	m.logger.Info("Monitor stopped")
}
