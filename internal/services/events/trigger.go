// Package events delivers connectivity and user-presence triggers to the
// login orchestrator, one run at a time.
package events

import (
	"context"
	"errors"

	"github.com/fgeck/captive-autologin/internal/models"
)

var (
	// ErrUnsupported is returned by sources that need a kernel interface the platform lacks.
	ErrUnsupported = errors.New("event source not supported on this platform")
	// ErrNoActiveNetwork is returned when no default route exists.
	ErrNoActiveNetwork = errors.New("no active network")
)

// Kind identifies what produced a trigger.
type Kind string

// Trigger kinds.
const (
	KindNetworkAvailable Kind = "network-available"
	KindUserResumed      Kind = "user-resumed"
	KindStartup          Kind = "startup"
	KindRecheck          Kind = "recheck"
)

// Trigger asks for one orchestration run on Network.
type Trigger struct {
	Kind    Kind
	Network models.Network
}

// Submitter accepts triggers. Submit reports whether the trigger was accepted.
type Submitter interface {
	Submit(t Trigger) bool
}

// Source produces triggers until ctx is done.
type Source interface {
	Name() string
	Run(ctx context.Context, sub Submitter) error
}

// Resolver returns the currently active network.
type Resolver func() (models.Network, error)
