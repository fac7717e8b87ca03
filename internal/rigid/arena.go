package rigid

// Arena is a fixed-capacity, generation-checked store of T records. Active
// records occupy the contiguous prefix backing[:count]; freeing a record
// swaps the last active record into the vacated physical slot and patches
// the indirection table so every other live Handle keeps resolving to the
// correct record, even though its physical position just moved.
type Arena[T any] struct {
	id uint8

	backing []T
	// handleSlot[physIdx] is the stable slot id currently occupying
	// physical position physIdx.
	handleSlot []uint32
	// indirection[slot] is the physical index the stable slot currently
	// occupies, or -1 if the slot is not allocated.
	indirection []int
	generation  []uint32
	freeSlots   []uint32
	count       int
}

// NewArena builds an arena with fixed capacity and an arena id used to
// reject handles minted by a different arena.
func NewArena[T any](id uint8, capacity int) *Arena[T] {
	a := &Arena[T]{
		id:          id,
		backing:     make([]T, capacity),
		handleSlot:  make([]uint32, capacity),
		indirection: make([]int, capacity),
		generation:  make([]uint32, capacity),
		freeSlots:   make([]uint32, capacity),
	}
	for i := range a.indirection {
		a.indirection[i] = -1
		a.freeSlots[i] = uint32(capacity - 1 - i)
	}
	return a
}

// Capacity returns the arena's fixed capacity.
func (a *Arena[T]) Capacity() int { return len(a.backing) }

// Count returns the number of currently active records.
func (a *Arena[T]) Count() int { return a.count }

// Alloc reserves a zero-initialized slot and returns its handle.
func (a *Arena[T]) Alloc() (Handle, error) {
	if len(a.freeSlots) == 0 {
		return Handle{}, ErrCapacityExceeded
	}
	last := len(a.freeSlots) - 1
	slot := a.freeSlots[last]
	a.freeSlots = a.freeSlots[:last]

	physIdx := a.count
	var zero T
	a.backing[physIdx] = zero
	a.handleSlot[physIdx] = slot
	a.indirection[slot] = physIdx
	a.count++

	return Handle{ArenaID: a.id, Slot: slot, Generation: a.generation[slot]}, nil
}

// resolve validates h against this arena and returns its current physical
// index.
func (a *Arena[T]) resolve(h Handle) (int, error) {
	if h.ArenaID != a.id || int(h.Slot) >= len(a.backing) {
		return 0, ErrStaleHandle
	}
	physIdx := a.indirection[h.Slot]
	if physIdx < 0 || a.generation[h.Slot] != h.Generation {
		return 0, ErrStaleHandle
	}
	return physIdx, nil
}

// Get returns a mutable reference to the record h names.
func (a *Arena[T]) Get(h Handle) (*T, error) {
	physIdx, err := a.resolve(h)
	if err != nil {
		return nil, err
	}
	return &a.backing[physIdx], nil
}

// Free releases h's slot, swapping the last active record into the
// vacated physical position and bumping the freed slot's generation so
// any remaining copy of h is detected as stale.
func (a *Arena[T]) Free(h Handle) error {
	physIdx, err := a.resolve(h)
	if err != nil {
		return err
	}

	lastIdx := a.count - 1
	lastSlot := a.handleSlot[lastIdx]
	a.backing[physIdx] = a.backing[lastIdx]
	a.handleSlot[physIdx] = lastSlot
	a.indirection[lastSlot] = physIdx

	var zero T
	a.backing[lastIdx] = zero
	a.count--

	a.indirection[h.Slot] = -1
	a.generation[h.Slot]++
	a.freeSlots = append(a.freeSlots, h.Slot)
	return nil
}

// IterActive returns the contiguous slice of the first Count active
// records. The slice aliases the arena's backing storage: mutations
// through it are visible to subsequent Get calls, and the order may
// change across any call that frees a record.
func (a *Arena[T]) IterActive() []T {
	return a.backing[:a.count]
}

// HandleAt returns the stable handle for the record currently at active
// index i (0 <= i < Count), e.g. for pairing an iterated record back with
// a handle to pass to other APIs.
func (a *Arena[T]) HandleAt(i int) Handle {
	slot := a.handleSlot[i]
	return Handle{ArenaID: a.id, Slot: slot, Generation: a.generation[slot]}
}
