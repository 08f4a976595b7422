package session

import (
	"context"
	"time"
)

type watcher struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches the periodic token check. It runs until Close or until ctx
// is done. Calls after the first, or after Close, have no effect.
func (m *Manager) Start(ctx context.Context) {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	if m.closed || m.watcher != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &watcher{cancel: cancel, done: make(chan struct{})}
	m.watcher = w
	go m.watch(ctx, w.done)
}

// Close stops the periodic check and waits for it to exit. It is safe to
// call more than once and without Start.
func (m *Manager) Close() {
	m.lifeMu.Lock()
	if m.closed {
		m.lifeMu.Unlock()
		return
	}
	m.closed = true
	w := m.watcher
	m.lifeMu.Unlock()

	if w != nil {
		w.cancel()
		<-w.done
	}
}

func (m *Manager) watch(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckExpiry(ctx)
		}
	}
}

// CheckExpiry ends the session if it holds an expired or unreadable token.
// It reports whether a logout happened.
func (m *Manager) CheckExpiry(ctx context.Context) bool {
	if !m.Authenticated() || m.IsTokenValid() {
		return false
	}
	m.logger.Info("token expired, logging out")
	m.Logout(ctx)
	if m.onExpired != nil {
		m.onExpired()
	}
	return true
}
