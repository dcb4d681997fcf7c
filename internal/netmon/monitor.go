package netmon

import (
	"context"
	"sync"
	"time"

	"github.com/dalistyle/synckit/internal/config"
	"github.com/dalistyle/synckit/internal/logger"
)

// Monitor samples a Probe on a fixed interval and commits connectivity
// transitions after they survive the grace window.
type Monitor struct {
	probe   Probe
	status  StatusWriter
	trigger TriggerFunc
	logger  *logger.Logger

	probeInterval time.Duration
	graceWindow   time.Duration

	mu           sync.Mutex
	online       bool
	pendingSince time.Time

	runMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor creates a monitor over probe. The initial committed state is
// offline; the first confirmed probe brings it online. trigger may be nil.
func NewMonitor(cfg config.ClientNetmon, probe Probe, status StatusWriter, trigger TriggerFunc, logger *logger.Logger) *Monitor {
	return &Monitor{
		probe:         probe,
		status:        status,
		trigger:       trigger,
		logger:        logger,
		probeInterval: cfg.ProbeInterval,
		graceWindow:   cfg.GraceWindow,
	}
}

// Online returns the committed connectivity state. Samples still inside the
// grace window do not show here.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Start stops any previous run, takes one immediate sample (committed
// without grace so startup state is known at once), then samples every probe
// interval until ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	m.Stop()

	m.runMu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.runMu.Unlock()

	go func() {
		defer m.wg.Done()

		m.commit(m.probe.Check(runCtx))

		t := time.NewTicker(m.probeInterval)
		defer t.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.C:
				m.observe(m.probe.Check(runCtx))
			}
		}
	}()
}

// Stop cancels the sampling goroutine and blocks until it has exited. Safe
// to call when the monitor is not running.
func (m *Monitor) Stop() {
	m.runMu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.runMu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// observe feeds one raw sample into the debounce. A sample agreeing with the
// committed state clears any pending transition; a disagreeing sample starts
// the grace clock and commits once the window has elapsed.
func (m *Monitor) observe(sample bool) {
	m.mu.Lock()

	if sample == m.online {
		m.pendingSince = time.Time{}
		m.mu.Unlock()
		return
	}

	now := time.Now()
	if m.pendingSince.IsZero() {
		m.pendingSince = now
		m.mu.Unlock()
		return
	}
	if now.Sub(m.pendingSince) < m.graceWindow {
		m.mu.Unlock()
		return
	}

	m.mu.Unlock()
	m.commit(sample)
}

func (m *Monitor) commit(sample bool) {
	m.mu.Lock()
	wentOnline := sample && !m.online
	changed := sample != m.online
	m.online = sample
	m.pendingSince = time.Time{}
	m.mu.Unlock()

	if m.status != nil {
		m.status.SetOnline(sample)
	}

	if !changed {
		return
	}

	m.logger.Info().Str("func", "commit").Bool("online", sample).Msg("connectivity changed")

	if wentOnline && m.trigger != nil {
		go m.trigger()
	}
}
