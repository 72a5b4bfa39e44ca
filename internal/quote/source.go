package quote

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoSource is returned when every configured source failed. Callers must
// treat it as "no quote available" and skip any price-gated messaging.
var ErrNoSource = errors.New("no quote source available")

// Source fetches the current price for the configured instrument.
// One attempt per call; resilience lives in the Chain, not the source.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (float64, error)
}

// Chain tries each source in order and returns the first price obtained.
type Chain struct {
	sources []Source
	logger  *zap.Logger
}

func NewChain(logger *zap.Logger, sources ...Source) *Chain {
	return &Chain{
		sources: sources,
		logger:  logger,
	}
}

func (c *Chain) Fetch(ctx context.Context) (float64, error) {
	for _, src := range c.sources {
		price, err := src.Fetch(ctx)
		if err != nil {
			c.logger.Warn("Quote source failed, trying next",
				zap.String("source", src.Name()),
				zap.Error(err))
			continue
		}

		c.logger.Info("Quote fetched",
			zap.String("source", src.Name()),
			zap.Float64("price", price))
		return price, nil
	}

	return 0, ErrNoSource
}
