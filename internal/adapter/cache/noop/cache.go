// Package noop provides a cache that stores nothing. It stands in for
// redis when no address is configured.
package noop

import (
	"context"

	"go-courses-api/internal/core/ports"
)

type Cache struct{}

var _ ports.Cache = Cache{}

func (Cache) Set(context.Context, string, []byte) error { return nil }

func (Cache) GetBatch(context.Context, []string) (map[string][]byte, error) { return nil, nil }

func (Cache) Remove(context.Context, string) error { return nil }
