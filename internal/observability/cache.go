package observability

import (
	"context"

	"go-courses-api/internal/core/ports"
)

// InstrumentedCache is a decorator to intercept cache calls and record metrics.
type InstrumentedCache struct {
	inner ports.Cache
}

var _ ports.Cache = (*InstrumentedCache)(nil)

// NewInstrumentedCache creates a new instrumented cache wrapper.
func NewInstrumentedCache(inner ports.Cache) *InstrumentedCache {
	return &InstrumentedCache{inner: inner}
}

func (c *InstrumentedCache) Set(ctx context.Context, id string, data []byte) error {
	err := c.inner.Set(ctx, id, data)
	if err != nil {
		cacheErrors.WithLabelValues("set").Inc()
	}
	return err
}

func (c *InstrumentedCache) Remove(ctx context.Context, id string) error {
	err := c.inner.Remove(ctx, id)
	if err != nil {
		cacheErrors.WithLabelValues("remove").Inc()
	}
	return err
}

func (c *InstrumentedCache) GetBatch(ctx context.Context, ids []string) (map[string][]byte, error) {
	res, err := c.inner.GetBatch(ctx, ids)
	if err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		return res, err
	}
	cacheHits.Add(float64(len(res)))
	cacheMisses.Add(float64(len(ids) - len(res)))
	return res, nil
}
