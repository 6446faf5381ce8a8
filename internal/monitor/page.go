package monitor

import (
	"time"

	"go.uber.org/zap"
)

// pageWorker regenerates the status page once per interval
func (m *Monitor) pageWorker() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.refreshPage()
		}
	}
}

func (m *Monitor) refreshPage() {
	if err := m.page.Refresh(m.ctx); err != nil {
		if m.ctx.Err() == nil {
			m.logger.Error("Failed to generate status page", zap.Error(err))
		}
	}
}
