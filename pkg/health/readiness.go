// Package health tracks component readiness during process start-up:
// connectors (cache stores, consumers) register themselves, mark ready once
// connected, and workers can block until the whole set is ready.
package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ComponentStatus is the readiness state of one registered component.
type ComponentStatus struct {
	Name      string
	Ready     bool
	StartedAt time.Time
	ReadyAt   time.Time
}

// Status is the aggregate readiness state.
type Status struct {
	Ready      bool
	Components []ComponentStatus
}

// ComponentManager registers components and hands back their ready-mark.
type ComponentManager interface {
	// AddComponent registers a component and returns the function that
	// marks it ready. Registering the same name twice returns the same
	// mark.
	AddComponent(name string) func()
}

// Checker reports readiness.
type Checker interface {
	IsReady() bool
	GetStatus() Status
}

// Waiter blocks until every registered component is ready.
type Waiter interface {
	WaitReady(ctx context.Context) error
}

type component struct {
	name      string
	ready     bool
	startedAt time.Time
	readyAt   time.Time
}

// Readiness is the concrete single-process readiness tracker.
type Readiness struct {
	mu         sync.Mutex
	components map[string]*component
	readyChan  chan struct{}
	readyOnce  sync.Once
	logger     *zap.Logger
}

// NewReadiness creates an empty tracker. A tracker with no registered
// components reports not ready until the first component is added and
// marked.
func NewReadiness(logger *zap.Logger) *Readiness {
	return &Readiness{
		components: make(map[string]*component),
		readyChan:  make(chan struct{}),
		logger:     logger,
	}
}

// AddComponent implements ComponentManager.
func (r *Readiness) AddComponent(name string) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[name]; !exists {
		r.components[name] = &component{name: name, startedAt: time.Now()}
	}
	return func() { r.markReady(name) }
}

func (r *Readiness) markReady(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comp, exists := r.components[name]
	if !exists || comp.ready {
		return
	}
	comp.ready = true
	comp.readyAt = time.Now()

	for _, c := range r.components {
		if !c.ready {
			return
		}
	}
	r.readyOnce.Do(func() {
		close(r.readyChan)
		r.logger.Info("all components ready",
			zap.Int("componentCount", len(r.components)),
		)
	})
}

// IsReady implements Checker.
func (r *Readiness) IsReady() bool {
	select {
	case <-r.readyChan:
		return true
	default:
		return false
	}
}

// GetStatus implements Checker.
func (r *Readiness) GetStatus() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := Status{
		Ready:      r.IsReady(),
		Components: make([]ComponentStatus, 0, len(r.components)),
	}
	for _, c := range r.components {
		status.Components = append(status.Components, ComponentStatus{
			Name:      c.name,
			Ready:     c.ready,
			StartedAt: c.startedAt,
			ReadyAt:   c.readyAt,
		})
	}
	return status
}

// WaitReady implements Waiter.
func (r *Readiness) WaitReady(ctx context.Context) error {
	select {
	case <-r.readyChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
