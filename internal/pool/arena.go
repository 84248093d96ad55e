// Package pool provides the arena-chunked byte allocator backing the
// default Allocator in the parent package.
//
// Adapted from github.com/uniyakcom/beat's internal/support/pool
// EventPool: that package pooled *core.Event objects plus an Arena of
// 64KiB chunks for their Data slices, switching to a fresh chunk when
// the current one is exhausted. Here the pooled object is a scratch
// byte chunk rather than a domain event — the tree library has no
// analog of Event, but the bump-pointer arena + sync.Pool-recycled
// chunk design is exactly what a parser/printer wants for the many
// short-lived string and number-scratch buffers it allocates.
package pool

import "sync"

const chunkSize = 64 * 1024

type chunk struct {
	buf    []byte
	offset int
}

func newChunk() *chunk {
	return &chunk{buf: make([]byte, chunkSize)}
}

func (c *chunk) alloc(n int) []byte {
	aligned := (n + 7) &^ 7
	if c.offset+aligned > len(c.buf) {
		return nil
	}
	s := c.buf[c.offset : c.offset+n : c.offset+aligned]
	c.offset += aligned
	return s
}

// Arena hands out scratch byte slices from bump-pointer chunks recycled
// through a sync.Pool. It is safe for use by a single Parser/Printer at
// a time (per spec, the core is single-threaded per tree); a fresh
// Arena is cheap to construct, so each Parser/Printer owns one rather
// than sharing across goroutines.
type Arena struct {
	chunkPool *sync.Pool
	current   *chunk
}

// NewArena creates an Arena backed by the given chunk pool. Several
// Arenas may share one *sync.Pool. A chunk goes back to the pool with
// its bump offset unchanged, so an Arena that takes a recycled chunk can
// only use the part of it that was never handed out.
func NewArena(chunkPool *sync.Pool) *Arena {
	a := &Arena{chunkPool: chunkPool}
	a.current = a.chunkPool.Get().(*chunk)
	return a
}

// NewChunkPool builds a *sync.Pool suitable for NewArena.
func NewChunkPool() *sync.Pool {
	return &sync.Pool{New: func() any { return newChunk() }}
}

// Alloc returns an n-byte slice carved from the arena. Requests larger
// than a chunk fall back to a plain make, since the arena only exists to
// avoid GC pressure from the common case of small scratch buffers.
func (a *Arena) Alloc(n int) []byte {
	if n > chunkSize {
		return make([]byte, n)
	}
	if b := a.current.alloc(n); b != nil {
		return b
	}
	a.chunkPool.Put(a.current)
	a.current = a.chunkPool.Get().(*chunk)
	b := a.current.alloc(n)
	if b == nil {
		// the chunk from the pool was a recycled one without enough
		// room left; fall back rather than fail.
		return make([]byte, n)
	}
	return b
}

// Release returns the arena's current chunk to the pool. The parent
// package does not call it (ReleaseParser and ReleasePrinter do not), so
// an Arena's current chunk is left to the garbage collector.
func (a *Arena) Release() {
	if a.current != nil {
		a.chunkPool.Put(a.current)
		a.current = nil
	}
}
