package events

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/rs/zerolog"
)

// SignalSource turns OS signals into user-resumed triggers on the active network.
type SignalSource struct {
	signals []os.Signal
	resolve Resolver
	logger  zerolog.Logger
	notify  func(c chan<- os.Signal, sig ...os.Signal)
	stop    func(c chan<- os.Signal)
}

// NewSignalSource creates a source listening for sigs. With no signals it
// listens for the platform's resume signals.
func NewSignalSource(logger zerolog.Logger, resolve Resolver, sigs ...os.Signal) *SignalSource {
	if len(sigs) == 0 {
		sigs = ResumeSignals
	}
	return &SignalSource{
		signals: sigs,
		resolve: resolve,
		logger:  logger,
		notify:  signal.Notify,
		stop:    signal.Stop,
	}
}

// Name implements Source.
func (s *SignalSource) Name() string { return "signal" }

// Run implements Source.
func (s *SignalSource) Run(ctx context.Context, sub Submitter) error {
	if len(s.signals) == 0 {
		return ErrUnsupported
	}

	ch := make(chan os.Signal, 1)
	s.notify(ch, s.signals...)
	defer s.stop(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-ch:
			s.logger.Debug().Str("signal", sig.String()).Msg("user resumed")
			submitActive(sub, s.resolve, KindUserResumed, s.logger)
		}
	}
}

// TickerSource re-evaluates the active network at a fixed interval.
type TickerSource struct {
	interval time.Duration
	resolve  Resolver
	logger   zerolog.Logger
}

// NewTickerSource creates a source firing every interval.
func NewTickerSource(logger zerolog.Logger, interval time.Duration, resolve Resolver) *TickerSource {
	return &TickerSource{
		interval: interval,
		resolve:  resolve,
		logger:   logger,
	}
}

// Name implements Source.
func (s *TickerSource) Name() string { return "recheck" }

// Run implements Source. A non-positive interval disables the source.
func (s *TickerSource) Run(ctx context.Context, sub Submitter) error {
	if s.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			submitActive(sub, s.resolve, KindRecheck, s.logger)
		}
	}
}

// StartupTrigger submits one startup trigger for the active network.
func StartupTrigger(sub Submitter, resolve Resolver, logger zerolog.Logger) bool {
	return submitActive(sub, resolve, KindStartup, logger)
}

// submitActive resolves the active network and submits a trigger for it. When
// the platform cannot name the active network the default route is used.
func submitActive(sub Submitter, resolve Resolver, kind Kind, logger zerolog.Logger) bool {
	network, err := resolve()
	switch {
	case errors.Is(err, ErrNoActiveNetwork):
		logger.Debug().Str("kind", string(kind)).Msg("no active network, nothing to check")
		return false
	case errors.Is(err, ErrUnsupported):
		network = models.Network{}
	case err != nil:
		logger.Warn().Err(err).Str("kind", string(kind)).Msg("could not resolve active network")
		return false
	}
	return sub.Submit(Trigger{Kind: kind, Network: network})
}
