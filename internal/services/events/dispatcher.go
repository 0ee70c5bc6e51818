package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/fgeck/captive-autologin/internal/services/orchestrator"
	"github.com/rs/zerolog"
)

// OutcomeHook observes every finished run. Hooks run off the worker, so a
// slow hook never causes triggers to be dropped.
type OutcomeHook func(ctx context.Context, t Trigger, out *models.Outcome)

// hookTimeout bounds each hook invocation.
const hookTimeout = 15 * time.Second

// Dispatcher serializes triggers onto a single worker. A trigger that arrives
// while a run is active is dropped; a trigger that arrives while another one
// is pending replaces it.
type Dispatcher struct {
	orch   orchestrator.Service
	sink   orchestrator.Sink
	hooks  []OutcomeHook
	logger zerolog.Logger

	mu      sync.Mutex
	busy    bool
	pending *Trigger
	wake    chan struct{}

	hooksWG sync.WaitGroup
}

// NewDispatcher creates a dispatcher around orch. Panics inside a run are
// reported to sink.
func NewDispatcher(logger zerolog.Logger, orch orchestrator.Service, sink orchestrator.Sink, hooks ...OutcomeHook) *Dispatcher {
	return &Dispatcher{
		orch:   orch,
		sink:   sink,
		hooks:  hooks,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Submit queues t unless a run is in progress.
func (d *Dispatcher) Submit(t Trigger) bool {
	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		d.logger.Debug().
			Str("kind", string(t.Kind)).
			Str("network", t.Network.String()).
			Msg("run in progress, dropping trigger")
		return false
	}
	if d.pending != nil {
		d.logger.Debug().
			Str("kind", string(d.pending.Kind)).
			Str("network", d.pending.Network.String()).
			Msg("replacing pending trigger")
	}
	d.pending = &t
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

// Busy reports whether a run is in progress.
func (d *Dispatcher) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// Run executes pending triggers one at a time until ctx is done. Cancelling
// ctx also cancels the run in progress. Run returns once running hooks finish.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.hooksWG.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.wake:
		}

		d.mu.Lock()
		t := d.pending
		d.pending = nil
		if t == nil {
			d.mu.Unlock()
			continue
		}
		d.busy = true
		d.mu.Unlock()

		out := d.execute(ctx, *t)

		d.mu.Lock()
		d.busy = false
		d.mu.Unlock()

		if out != nil {
			d.notify(ctx, *t, out)
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, t Trigger) (out *models.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Str("kind", string(t.Kind)).
				Str("network", t.Network.String()).
				Interface("panic", r).
				Msg("login attempt panicked")
			d.sink.Log(time.Now(), fmt.Sprintf("Error: %v", r))
		}
	}()

	d.logger.Debug().
		Str("kind", string(t.Kind)).
		Str("network", t.Network.String()).
		Msg("starting login attempt")

	return d.orch.Attempt(ctx, t.Network)
}

// notify runs the hooks for out in the background.
func (d *Dispatcher) notify(ctx context.Context, t Trigger, out *models.Outcome) {
	for _, hook := range d.hooks {
		hook := hook
		d.hooksWG.Add(1)
		go func() {
			defer d.hooksWG.Done()
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error().Interface("panic", r).Msg("outcome hook panicked")
				}
			}()

			hookCtx, cancel := context.WithTimeout(ctx, hookTimeout)
			defer cancel()
			hook(hookCtx, t, out)
		}()
	}
}
