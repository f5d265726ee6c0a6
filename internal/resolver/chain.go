// Package resolver looks up extracted citation metadata in external
// scholarly APIs and scores the candidates.
package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/matsen/refenrich/internal/reference"
)

// DefaultThreshold is the confidence at which a result ends the chain.
const DefaultThreshold = 0.5

// Strategy is one external metadata source.
type Strategy interface {
	Name() string
	// Search returns the scored top candidate, or nil when the source has none.
	Search(ctx context.Context, q Query) (*reference.APIResult, error)
}

// Chain tries strategies in priority order.
type Chain struct {
	strategies []Strategy
	threshold  float64
	logger     *zap.Logger
}

// NewChain creates a chain over strategies. A result whose confidence
// reaches threshold stops the search.
func NewChain(threshold float64, logger *zap.Logger, strategies ...Strategy) *Chain {
	return &Chain{
		strategies: strategies,
		threshold:  threshold,
		logger:     logger,
	}
}

// Sources returns the strategy names in query order.
func (c *Chain) Sources() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Resolve searches for meta. Metadata with the Unknown author is never
// sent out. The first result reaching the threshold is returned; otherwise
// the result of the last strategy tried, which may be nil. Source errors
// are logged and count as no result.
func (c *Chain) Resolve(ctx context.Context, meta reference.ExtractedMetadata) *reference.APIResult {
	if meta.IsUnknown() {
		return nil
	}

	q := QueryFromMetadata(meta)
	var last *reference.APIResult
	for _, s := range c.strategies {
		res, err := s.Search(ctx, q)
		if err != nil {
			c.logger.Warn("metadata lookup failed",
				zap.String("source", s.Name()),
				zap.String("query", q.Text()),
				zap.Bool("rate_limited", IsRateLimited(err)),
				zap.Error(err))
			res = nil
		}
		last = res

		if res == nil {
			c.logger.Debug("no candidate", zap.String("source", s.Name()))
			continue
		}
		c.logger.Debug("candidate scored",
			zap.String("source", s.Name()),
			zap.String("title", res.Title),
			zap.Float64("confidence", res.Confidence))
		if res.Confidence >= c.threshold {
			return res
		}
	}
	return last
}
