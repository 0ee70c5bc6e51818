// Package models contains the data structures used throughout captive-autologin.
package models

import "time"

// Config holds the complete configuration for the auto-login daemon.
type Config struct {
	TargetSSID  string
	Portal      PortalConfig
	Credentials CredentialsConfig
	Events      EventsConfig
	Telegram    *TelegramConfig // nil if not configured
}

// PortalConfig holds captive portal endpoints and per-operation timeouts.
type PortalConfig struct {
	BaseURL             string
	InternetProbeURL    string
	LoginTimeout        time.Duration // connect and read timeout for login/logout
	InternetTimeout     time.Duration // connect and read timeout for the internet probe
	ReachabilityTimeout time.Duration // connect and read timeout for the portal probe
}

// CredentialsConfig describes where credentials come from.
type CredentialsConfig struct {
	Username string // optional, inline
	Password string // optional, inline
	StoreDir string // directory of the encrypted credential store
}

// EventsConfig controls which connectivity events trigger a login attempt.
type EventsConfig struct {
	Interfaces      []string      // empty means every wireless interface
	RecheckInterval time.Duration // 0 disables periodic re-checks
}

// RetryPolicy bounds the portal reachability polling loop.
type RetryPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultRetryPolicy is the fixed portal polling policy.
var DefaultRetryPolicy = RetryPolicy{
	Interval:    3000 * time.Millisecond,
	MaxAttempts: 5,
}
