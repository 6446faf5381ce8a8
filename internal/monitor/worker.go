package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"traceroute-monitor/internal/models"
	"traceroute-monitor/internal/mtr"
)

// traceWorker traces the target through one interface at the configured interval
func (m *Monitor) traceWorker(iface, name string) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	// Immediate first trace
	m.performTrace(iface, name)

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.performTrace(iface, name)
		}
	}
}

// performTrace runs mtr once and sends the probe to the results channel
func (m *Monitor) performTrace(iface, name string) {
	probe, ok := m.trace(iface, name)
	if !ok {
		return
	}

	select {
	case m.results <- probe:
	case <-m.ctx.Done():
	default:
		m.logger.Warn("Result channel full, dropping result", zap.String("connection", name))
	}
}

// trace runs mtr and parses the report. ok is false when mtr itself failed.
func (m *Monitor) trace(iface, name string) (models.Probe, bool) {
	log := m.logger.With(zap.String("interface", iface), zap.String("connection", name))
	log.Debug("Running traceroute", zap.String("target", m.config.Target))

	ctx, cancel := context.WithTimeout(m.ctx, m.config.Timeout)
	defer cancel()

	output, err := m.tracer.Trace(ctx, m.config.Target, iface)
	if err != nil {
		if m.ctx.Err() == nil {
			log.Error("Traceroute failed", zap.Error(err))
		}
		return models.Probe{}, false
	}

	if m.config.Verbose {
		log.Info("Full mtr output", zap.String("output", output))
	}

	report := mtr.ParseReport(output)
	for _, line := range report.Skipped {
		log.Debug("Skipped mtr line", zap.String("line", line))
	}

	probe := models.Probe{
		ConnectionName: name,
		Interface:      iface,
		TargetIP:       m.config.Target,
		Timestamp:      time.Now(),
	}
	probe.PacketLoss, probe.HasLoss = report.AverageLoss()
	if probe.HasLoss {
		log.Debug("Calculated average packet loss after the first hop", zap.Float64("packet_loss", probe.PacketLoss))
	} else {
		log.Warn("No valid packet loss data found")
	}

	return probe, true
}

// processResults saves probes from the results channel
func (m *Monitor) processResults() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			m.drain()
			return
		case probe := <-m.results:
			m.save(probe)
		}
	}
}

// drain saves whatever is still buffered when the monitor stops
func (m *Monitor) drain() {
	for {
		select {
		case probe := <-m.results:
			m.save(probe)
		default:
			return
		}
	}
}

func (m *Monitor) save(probe models.Probe) {
	log := m.logger.With(zap.String("connection", probe.ConnectionName), zap.String("target", probe.TargetIP))

	if !probe.HasLoss {
		log.Warn("No packet loss data to save")
		return
	}

	id, err := m.db.SaveResult(probe.Result())
	if err != nil {
		log.Error("Failed to save result", zap.Error(err))
		return
	}
	log.Info("Saved packet loss data", zap.Int64("id", id), zap.Float64("packet_loss", probe.PacketLoss))
}
