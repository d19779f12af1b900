package printer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Monitor polls for printer arrivals and departures and fires the
// manager's callbacks on changes.
type Monitor struct {
	manager  *Manager
	log      *zap.Logger
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewMonitor creates a monitor that rescans at the given interval.
func NewMonitor(manager *Manager, interval time.Duration, log *zap.Logger) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		manager:  manager,
		log:      log,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins polling in the background.
func (m *Monitor) Start() {
	previous := make(map[string]*Printer)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.checkChanges(previous)
			}
		}
	}()
}

// Stop halts the polling loop.
func (m *Monitor) Stop() {
	m.cancel()
}

func (m *Monitor) checkChanges(previous map[string]*Printer) {
	current, err := m.manager.Detect()
	if err != nil {
		m.log.Warn("printer detection failed", zap.Error(err))
		return
	}

	currentMap := make(map[string]*Printer, len(current))
	for _, p := range current {
		currentMap[p.ID] = p
	}

	for id, p := range currentMap {
		if _, ok := previous[id]; !ok {
			m.log.Info("printer added",
				zap.String("id", id),
				zap.String("description", p.Description))
			if m.manager.onAdded != nil {
				m.manager.onAdded(p)
			}
		}
	}

	for id, p := range previous {
		if _, ok := currentMap[id]; !ok {
			m.log.Info("printer removed",
				zap.String("id", id),
				zap.String("description", p.Description))
			if m.manager.onRemoved != nil {
				m.manager.onRemoved(id)
			}
		}
	}

	for id := range previous {
		delete(previous, id)
	}
	for id, p := range currentMap {
		previous[id] = p
	}
}
