package models

import "time"

// State is a state of the login orchestrator.
type State string

// Orchestrator states.
const (
	StateIdle                  State = "idle"
	StateIdentifying           State = "identifying"
	StateFilteredOut           State = "filtered_out"
	StateCheckingInternet      State = "checking_internet"
	StateAlreadyConnected      State = "already_connected"
	StatePollingPortal         State = "polling_portal"
	StatePortalUnreachable     State = "portal_unreachable"
	StateRetrievingCredentials State = "retrieving_credentials"
	StateNoCredentials         State = "no_credentials"
	StateSubmitting            State = "submitting"
	StateSucceeded             State = "succeeded"
	StateFailed                State = "failed"
	StateCancelled             State = "cancelled"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	switch s {
	case StateFilteredOut, StateAlreadyConnected, StatePortalUnreachable,
		StateNoCredentials, StateSucceeded, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// FilterReason explains a FilteredOut outcome.
type FilterReason string

// Filter reasons.
const (
	ReasonNonTargetMedium FilterReason = "non-target-medium"
	ReasonWrongNetwork    FilterReason = "wrong-network"
)

// Outcome is the result of one orchestration run.
type Outcome struct {
	Network       Network
	State         State
	Reason        FilterReason // set for StateFilteredOut
	NetworkName   string       // empty when unknown
	Message       string       // the line reported to the sink
	PortalStatus  string       // portal status of the login submission, if any
	ProbeAttempts int
	StartTime     time.Time
	Duration      time.Duration
}

// LoginSubmitted reports whether the run reached the submission step.
func (o *Outcome) LoginSubmitted() bool {
	return o.State == StateSucceeded || o.State == StateFailed
}
