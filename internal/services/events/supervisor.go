package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Serve runs the dispatcher and all sources until ctx is done or a source
// fails. Sources that are unsupported on this platform are skipped.
func Serve(ctx context.Context, logger zerolog.Logger, d *Dispatcher, sources ...Source) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.Run(ctx)
	})

	for _, src := range sources {
		src := src
		g.Go(func() error {
			logger.Debug().Str("source", src.Name()).Msg("starting event source")
			err := src.Run(ctx, d)
			if errors.Is(err, ErrUnsupported) {
				logger.Warn().Str("source", src.Name()).Msg("event source not supported on this platform, skipping")
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s source: %w", src.Name(), err)
			}
			return nil
		})
	}

	return g.Wait()
}
