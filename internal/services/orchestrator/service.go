// Package orchestrator runs the captive portal login state machine.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/fgeck/captive-autologin/internal/services/credentials"
	"github.com/fgeck/captive-autologin/internal/services/identity"
	"github.com/fgeck/captive-autologin/internal/services/portal"
	"github.com/rs/zerolog"
)

// Service defines the interface for the login orchestrator.
type Service interface {
	Attempt(ctx context.Context, network models.Network) *models.Outcome
}

// Impl implements the orchestrator Service interface.
type Impl struct {
	portalSvc   portal.Service
	identitySvc identity.Service
	credStore   credentials.Store
	sink        Sink
	targetSSID  string
	policy      models.RetryPolicy
	logger      zerolog.Logger
	now         func() time.Time
}

// New creates a new orchestrator with production portal and identity services.
func New(logger zerolog.Logger, cfg models.Config, credStore credentials.Store, sink Sink) *Impl {
	return &Impl{
		portalSvc:   portal.New(logger, cfg.Portal),
		identitySvc: identity.New(logger),
		credStore:   credStore,
		sink:        sink,
		targetSSID:  cfg.TargetSSID,
		policy:      models.DefaultRetryPolicy,
		logger:      logger,
		now:         time.Now,
	}
}

// NewWithServices creates a new orchestrator with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	targetSSID string,
	portalSvc portal.Service,
	identitySvc identity.Service,
	credStore credentials.Store,
	sink Sink,
	policy models.RetryPolicy,
) *Impl {
	return &Impl{
		portalSvc:   portalSvc,
		identitySvc: identitySvc,
		credStore:   credStore,
		sink:        sink,
		targetSSID:  targetSSID,
		policy:      policy,
		logger:      logger,
		now:         time.Now,
	}
}

// Attempt runs one orchestration on network and returns its terminal outcome.
// Every terminal state except cancellation reports exactly one line to the sink.
//
//nolint:gocognit,gocyclo // the state machine has one branch per transition
func (s *Impl) Attempt(ctx context.Context, network models.Network) *models.Outcome {
	out := &models.Outcome{
		Network:   network,
		State:     models.StateIdle,
		StartTime: s.now(),
	}

	// Identifying
	s.enter(out, models.StateIdentifying)
	id, err := s.identitySvc.Resolve(ctx, network)
	if err != nil {
		return s.filter(out, models.ReasonNonTargetMedium,
			fmt.Sprintf("Could not identify network %s (%v), skipping", network, err))
	}
	if !id.TransportIsTargetMedium {
		return s.filter(out, models.ReasonNonTargetMedium,
			fmt.Sprintf("Network %s is not WiFi, skipping", network))
	}
	if id.Name != nil {
		out.NetworkName = *id.Name
		if *id.Name != s.targetSSID {
			return s.filter(out, models.ReasonWrongNetwork,
				fmt.Sprintf("On '%s', not %s, skipping", *id.Name, s.targetSSID))
		}
	}
	if ctx.Err() != nil {
		return s.cancel(out, ctx.Err())
	}

	// CheckingInternet
	s.enter(out, models.StateCheckingInternet)
	if s.portalSvc.IsInternetWorking(ctx, network) {
		return s.finish(out, models.StateAlreadyConnected, "Internet already working on WiFi")
	}
	if ctx.Err() != nil {
		return s.cancel(out, ctx.Err())
	}

	// PollingPortal
	s.enter(out, models.StatePollingPortal)
	reachable, err := s.pollPortal(ctx, network, out)
	if err != nil {
		return s.cancel(out, err)
	}
	if !reachable {
		return s.finish(out, models.StatePortalUnreachable, "Portal not reachable on WiFi")
	}

	// RetrievingCredentials
	s.enter(out, models.StateRetrievingCredentials)
	creds, err := s.credStore.Get(ctx)
	if err != nil {
		return s.finish(out, models.StateNoCredentials, fmt.Sprintf("Could not read credentials: %v", err))
	}
	if !creds.Complete() {
		return s.finish(out, models.StateNoCredentials, "No credentials saved")
	}

	// Submitting
	s.enter(out, models.StateSubmitting)
	s.report(fmt.Sprintf("Logging in as %s on WiFi...", creds.Username))
	result := s.portalSvc.Login(ctx, creds.Username, creds.Password, network)
	out.PortalStatus = result.Status
	if !result.Succeeded && ctx.Err() != nil {
		return s.cancel(out, ctx.Err())
	}

	if result.Succeeded {
		return s.finish(out, models.StateSucceeded, "Logged in successfully!")
	}
	return s.finish(out, models.StateFailed, "Login failed: "+result.Message)
}

// pollPortal probes the portal up to policy.MaxAttempts times, pausing
// policy.Interval between failed probes. The error is non-nil only when ctx ends.
func (s *Impl) pollPortal(ctx context.Context, network models.Network, out *models.Outcome) (bool, error) {
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		out.ProbeAttempts = attempt

		if s.portalSvc.IsPortalReachable(ctx, network) {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		s.report(fmt.Sprintf("Waiting for portal... attempt %d/%d", attempt, s.policy.MaxAttempts))

		if attempt == s.policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(s.policy.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	return false, nil
}

func (s *Impl) enter(out *models.Outcome, state models.State) {
	s.logger.Debug().
		Str("network", out.Network.String()).
		Str("from", string(out.State)).
		Str("to", string(state)).
		Msg("state transition")
	out.State = state
}

func (s *Impl) filter(out *models.Outcome, reason models.FilterReason, msg string) *models.Outcome {
	out.Reason = reason
	return s.finish(out, models.StateFilteredOut, msg)
}

func (s *Impl) finish(out *models.Outcome, state models.State, msg string) *models.Outcome {
	s.enter(out, state)
	out.Message = msg
	out.Duration = s.now().Sub(out.StartTime)

	s.report(msg)

	s.logger.Info().
		Str("network", out.Network.String()).
		Str("ssid", out.NetworkName).
		Str("state", string(out.State)).
		Str("reason", string(out.Reason)).
		Int("probe_attempts", out.ProbeAttempts).
		Dur("duration", out.Duration).
		Msg("login attempt finished")

	return out
}

// cancel ends a run abandoned by shutdown. It is not reported to the sink.
func (s *Impl) cancel(out *models.Outcome, err error) *models.Outcome {
	s.enter(out, models.StateCancelled)
	out.Message = err.Error()
	out.Duration = s.now().Sub(out.StartTime)

	s.logger.Debug().
		Err(err).
		Str("network", out.Network.String()).
		Msg("login attempt abandoned")

	return out
}

func (s *Impl) report(msg string) {
	s.sink.Log(s.now(), msg)
}
