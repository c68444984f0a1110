// Package observer adapts the teacher's module-lifecycle Observer
// pattern (_teacher_ref/observer.go) to the simulator's own event
// vocabulary, so the optional stats output (spec.md §6 "stats") can
// watch the kernel without the kernel importing anything about metrics
// (SPEC_FULL.md §A, "Observability hook").
package observer

import (
	"context"
	"time"
)

// SimEvent is one notable occurrence during a simulation run: a job
// submission, start, termination, under-prediction, or a scheduling
// pass. Type is one of the EventType constants below; Data carries the
// event-specific payload (typically *job.Job, left as interface{} here
// to avoid an import cycle between observer and job).
type SimEvent struct {
	Type      string
	Source    string
	Data      interface{}
	Metadata  map[string]interface{}
	Timestamp time.Time
}

// Event type vocabulary. Kept a closed, small set: the simulator emits
// exactly these, nothing else.
const (
	EventJobSubmitted      = "job.submitted"
	EventJobStarted        = "job.started"
	EventJobTerminated     = "job.terminated"
	EventJobUnderPredicted = "job.under_predicted"
	EventSchedulerRan      = "scheduler.ran"
)

// SimObserver receives notifications from a SimSubject.
type SimObserver interface {
	OnSimEvent(ctx context.Context, event SimEvent) error
	ObserverID() string
}

// SimSubject is implemented by anything that emits SimEvents; the
// simulation kernel is the only subject in this codebase.
type SimSubject interface {
	RegisterObserver(o SimObserver) error
	UnregisterObserver(o SimObserver) error
	NotifySimObservers(ctx context.Context, event SimEvent) error
}

// Registry is a minimal fan-out SimSubject: registered observers are
// notified in registration order, and a failing observer does not stop
// delivery to the rest (an observability hook must never be able to
// abort the simulation it's watching).
type Registry struct {
	observers []SimObserver
	onError   func(observerID string, err error)
}

// NewRegistry builds an empty observer registry. onError, if non-nil,
// is invoked whenever an observer's OnSimEvent call fails; a nil onError
// silently discards observer failures.
func NewRegistry(onError func(observerID string, err error)) *Registry {
	return &Registry{onError: onError}
}

func (r *Registry) RegisterObserver(o SimObserver) error {
	for _, existing := range r.observers {
		if existing.ObserverID() == o.ObserverID() {
			return nil
		}
	}
	r.observers = append(r.observers, o)
	return nil
}

func (r *Registry) UnregisterObserver(o SimObserver) error {
	for i, existing := range r.observers {
		if existing.ObserverID() == o.ObserverID() {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *Registry) NotifySimObservers(ctx context.Context, event SimEvent) error {
	for _, o := range r.observers {
		if err := o.OnSimEvent(ctx, event); err != nil && r.onError != nil {
			r.onError(o.ObserverID(), err)
		}
	}
	return nil
}

type funcObserver struct {
	id      string
	handler func(ctx context.Context, event SimEvent) error
}

// NewFuncObserver builds a SimObserver from a plain function, for tests
// and small ad hoc subscribers.
func NewFuncObserver(id string, handler func(ctx context.Context, event SimEvent) error) SimObserver {
	return &funcObserver{id: id, handler: handler}
}

func (f *funcObserver) OnSimEvent(ctx context.Context, event SimEvent) error {
	return f.handler(ctx, event)
}

func (f *funcObserver) ObserverID() string { return f.id }
