package jsontree

import (
	"sync"

	"github.com/sinley53/jsontree/internal/pool"
)

// Allocator is the pluggable allocate/free/reallocate triple described
// in spec.md §4.1. Every parser and printer instance captures the
// active Allocator at construction time, so replacing the process-wide
// default via SetDefaultAllocator never affects an in-flight parse or
// print: Go values are captured by reference at construction, not
// looked up from a mutable global on every call.
type Allocator interface {
	// Allocate returns a slice of length n. Implementations may return
	// a slice with extra capacity; callers only rely on len.
	Allocate(n int) []byte
	// Free releases a slice previously returned by Allocate or
	// Reallocate. Implementations that don't need explicit release
	// (e.g. relying on the Go garbage collector) may no-op.
	Free(buf []byte)
	// Reallocate grows or shrinks buf to n bytes, preserving the
	// original content up to min(len(buf), n). May return buf itself
	// when reallocation would be a no-op.
	Reallocate(buf []byte, n int) []byte
}

// arenaAllocator is the default Allocator: a bump-pointer arena over
// sync.Pool-recycled 64KiB chunks, falling back to plain make/append for
// anything the arena can't satisfy or grow in place. pool.Arena is
// documented as safe for use by a single owner at a time, not for
// concurrent callers sharing one offset — so each arenaAllocator holds
// one *pool.Arena for its own whole lifetime, and a fresh arenaAllocator
// (backed by the same recycled chunk pool) is minted per Parser/Printer
// rather than one shared process-wide instance. The chunk pool itself is
// a *sync.Pool, which is safe for concurrent Get/Put; a chunk put back
// keeps its bump offset, so another arena can only use its unused
// remainder.
type arenaAllocator struct {
	arena *pool.Arena
}

func newArenaAllocator() *arenaAllocator {
	return &arenaAllocator{arena: pool.NewArena(sharedChunkPool)}
}

func (a *arenaAllocator) Allocate(n int) []byte {
	return a.arena.Alloc(n)
}

func (a *arenaAllocator) Free([]byte) {
	// Individual slices are not tracked for retail free, and the arena
	// is never released, so its chunks are left to the garbage collector.
}

func (a *arenaAllocator) Reallocate(buf []byte, n int) []byte {
	if n <= cap(buf) {
		return buf[:n]
	}
	next := a.Allocate(n)
	copy(next, buf)
	return next
}

// sharedChunkPool backs every built-in arenaAllocator minted by
// currentDefaultAllocator. It is shared process-wide on purpose — unlike
// an Arena, a *sync.Pool is designed for concurrent Get/Put — while each
// individual *pool.Arena drawn from it stays owned by exactly one
// Parser/Printer.
var sharedChunkPool = pool.NewChunkPool()

// defaultAllocatorOverride, when non-nil, is the process-wide Allocator
// used when a Parse/Print call supplies no WithAllocator option. Absent
// an override, currentDefaultAllocator mints a fresh arenaAllocator per
// call instead of handing out one shared instance, since pool.Arena is
// not safe for concurrent callers — this is what lets concurrent.go's
// ParseMany/PrintMany dispatch across goroutines without racing on a
// shared bump offset. A caller that installs their own override via
// SetDefaultAllocator is responsible for that Allocator's own
// concurrency safety if it is shared across goroutines. The printer
// grows its buffer with Allocate plus copy for every Allocator; it does
// not call Reallocate, and the outgrown buffer is not passed to Free.
var (
	defaultAllocatorMu       sync.RWMutex
	defaultAllocatorOverride Allocator
)

// SetDefaultAllocator replaces the process-wide default Allocator, or
// clears any previous override (reverting to a fresh built-in
// arenaAllocator per call) when passed nil. It affects only Parse/Print
// calls made after it returns; per-call WithAllocator options always
// take precedence. Concurrent callers of SetDefaultAllocator and
// Parse/Print must externally serialize, per spec.md §5 (the default
// allocator slot is mutable shared state).
func SetDefaultAllocator(a Allocator) {
	defaultAllocatorMu.Lock()
	defer defaultAllocatorMu.Unlock()
	defaultAllocatorOverride = a
}

func currentDefaultAllocator() Allocator {
	defaultAllocatorMu.RLock()
	override := defaultAllocatorOverride
	defaultAllocatorMu.RUnlock()
	if override != nil {
		return override
	}
	return newArenaAllocator()
}
