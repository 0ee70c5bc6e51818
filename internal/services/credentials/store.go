// Package credentials provides the stores the login orchestrator reads portal credentials from.
package credentials

import (
	"context"
	"errors"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/rs/zerolog"
)

// ErrCorrupt is returned when a stored credential file cannot be opened.
var ErrCorrupt = errors.New("credential store is corrupt")

// Store defines the interface for credential retrieval.
// Get returns nil credentials when none are configured.
type Store interface {
	Get(ctx context.Context) (*models.Credentials, error)
}

// StaticStore serves credentials taken from the configuration file.
type StaticStore struct {
	creds models.Credentials
}

// NewStaticStore creates a store over fixed credentials.
func NewStaticStore(creds models.Credentials) *StaticStore {
	return &StaticStore{creds: creds}
}

// Get returns a copy of the configured credentials, or nil when both fields are empty.
func (s *StaticStore) Get(_ context.Context) (*models.Credentials, error) {
	if s.creds.Username == "" && s.creds.Password == "" {
		return nil, nil
	}
	c := s.creds
	return &c, nil
}

// Chain asks each store in order and returns the first complete credentials.
type Chain struct {
	stores []Store
	logger zerolog.Logger
}

// NewChain creates a chained store.
func NewChain(logger zerolog.Logger, stores ...Store) *Chain {
	return &Chain{stores: stores, logger: logger}
}

// Get returns the first complete credentials. An error is reported only when
// no store produced credentials and at least one store failed.
func (c *Chain) Get(ctx context.Context) (*models.Credentials, error) {
	var firstErr error

	for _, store := range c.stores {
		creds, err := store.Get(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("credential store failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if creds.Complete() {
			return creds, nil
		}
	}

	return nil, firstErr
}
