// Package ident issues numeric identifiers for merchant-owned records.
//
// Identifiers are millisecond timestamps bumped past the previous value when
// two calls land in the same millisecond, so they stay unique in-process and
// roughly ordered by creation time while remaining plain JSON numbers.
package ident

import (
	"sync"
	"time"
)

type Generator struct {
	mu   sync.Mutex
	last int64
}

func New() *Generator {
	return &Generator{}
}

// Next returns the next identifier. Never returns the same value twice.
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now().UnixMilli()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now
	return now
}
