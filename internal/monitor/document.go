package monitor

import "sync"

// Document reports whether the page is still loading and lets callers run
// code once it is ready.
type Document interface {
	Loading() bool
	OnReady(func())
}

// ReadyGate is a Document whose readiness is signalled explicitly.
type ReadyGate struct {
	mu        sync.Mutex
	ready     bool
	callbacks []func()
}

// NewReadyGate returns a gate in the loading state.
func NewReadyGate() *ReadyGate {
	return &ReadyGate{}
}

// Loading reports whether MarkReady has not been called yet.
func (g *ReadyGate) Loading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.ready
}

// OnReady registers f to run when the gate opens. If it is already open, f
// runs immediately.
func (g *ReadyGate) OnReady(f func()) {
	g.mu.Lock()
	if !g.ready {
		g.callbacks = append(g.callbacks, f)
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()
	f()
}

// MarkReady opens the gate and runs the registered callbacks in
// registration order. Only the first call has any effect; it reports whether
// this call opened the gate.
func (g *ReadyGate) MarkReady() bool {
	g.mu.Lock()
	if g.ready {
		g.mu.Unlock()
		return false
	}
	g.ready = true
	callbacks := g.callbacks
	g.callbacks = nil
	g.mu.Unlock()

	for _, f := range callbacks {
		f()
	}
	return true
}

// Loaded is a Document that is always ready.
type Loaded struct{}

func (Loaded) Loading() bool { return false }
func (Loaded) OnReady(f func()) { f() }
