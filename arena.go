package sapling

import (
	"unsafe"

	"fortio.org/safecast"
)

// DefaultArenaSize is the byte budget of a scene arena (1 MiB).
const DefaultArenaSize = 1 << 20

// DefaultParseArenaSize is the byte budget of the transient value-tree arena.
const DefaultParseArenaSize = 1 << 20

// maxSlabLen caps how many records of one type are reserved per slab.
const maxSlabLen = 256

// Defaulter is implemented by records that need non-zero defaults when the
// arena constructs them.
type Defaulter interface {
	SetDefaults()
}

// Disposer is implemented by records that own resources. The arena calls
// Dispose on every such record when it is released, newest first.
type Disposer interface {
	Dispose()
}

// slab is a typed chunk of records. Records live in Go-typed memory so the
// garbage collector keeps seeing the pointers they hold.
type slab[T any] struct {
	items []T
}

// Arena is a fixed-capacity bump allocator that owns every record it hands
// out. Capacity is accounted in bytes (the size of each record); no record is
// ever freed individually. Not goroutine-safe.
type Arena struct {
	capacity  int
	used      int
	count     int
	slabs     map[any]any // key: (*T)(nil), value: *slab[T]
	disposers []Disposer
	released  bool
}

// NewArena creates an arena with the given byte capacity.
// If capacity <= 0, DefaultArenaSize is used.
func NewArena(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultArenaSize
	}
	return &Arena{
		capacity: capacity,
		slabs:    make(map[any]any),
	}
}

// Alloc reserves room for a T in the arena and returns it default-constructed.
// Returns nil, without constructing anything, when the remaining capacity is
// smaller than the record or the arena has been released.
func Alloc[T any](a *Arena) *T {
	if a == nil || a.released {
		return nil
	}
	size := recordSize[T]()
	if size > a.capacity-a.used {
		return nil
	}

	key := any((*T)(nil))
	s, _ := a.slabs[key].(*slab[T])
	if s == nil {
		s = &slab[T]{}
		a.slabs[key] = s
	}
	if len(s.items) == cap(s.items) {
		// Earlier slabs stay reachable through the records handed out from them.
		n := (a.capacity - a.used) / size
		n = max(1, min(n, maxSlabLen))
		s.items = make([]T, 0, n)
	}
	var zero T
	s.items = append(s.items, zero)
	p := &s.items[len(s.items)-1]

	a.used += size
	a.count++

	if d, ok := any(p).(Defaulter); ok {
		d.SetDefaults()
	}
	if d, ok := any(p).(Disposer); ok {
		a.disposers = append(a.disposers, d)
	}
	return p
}

// recordSize returns the number of bytes a T is charged against capacity.
// Zero-sized types are charged one byte so that exhaustion stays reachable.
func recordSize[T any]() int {
	var zero T
	size, err := safecast.Conv[int](unsafe.Sizeof(zero))
	if err != nil {
		panic("sapling: record size overflows int")
	}
	if size == 0 {
		return 1
	}
	return size
}

// Release runs every registered Dispose in reverse allocation order and then
// drops all slabs. Subsequent Alloc calls return nil. Calling Release more
// than once is a no-op.
func (a *Arena) Release() {
	if a == nil || a.released {
		return
	}
	for i := len(a.disposers) - 1; i >= 0; i-- {
		a.disposers[i].Dispose()
		a.disposers[i] = nil
	}
	a.disposers = nil
	a.slabs = nil
	a.released = true
}

// Released reports whether Release has been called. A nil arena counts as
// released.
func (a *Arena) Released() bool {
	return a == nil || a.released
}

// --- Metrics ---

// SizeInUse returns the number of bytes charged so far.
func (a *Arena) SizeInUse() int {
	return a.used
}

// Capacity returns the byte budget of the arena.
func (a *Arena) Capacity() int {
	return a.capacity
}

// Remaining returns the number of bytes still available.
func (a *Arena) Remaining() int {
	return a.capacity - a.used
}

// Allocations returns the number of records handed out.
func (a *Arena) Allocations() int {
	return a.count
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
func (a *Arena) Utilization() float64 {
	if a.capacity == 0 {
		return 0
	}
	return float64(a.used) / float64(a.capacity)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   a.used,
		Capacity:    a.capacity,
		Allocations: a.count,
		Disposers:   len(a.disposers),
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Bytes currently charged
	Capacity    int     // Byte budget
	Allocations int     // Records handed out
	Disposers   int     // Records waiting for Dispose on Release
	Utilization float64 // Ratio of used to capacity (0.0-1.0)
}
