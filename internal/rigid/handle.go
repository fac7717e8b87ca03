package rigid

// Handle addresses a single record inside an [Arena]. It stays valid
// across removals of *other* records (the arena repacks storage on
// removal but patches every surviving handle's target transparently
// through an indirection table); it becomes stale the instant the record
// it names is freed, even if another record is later allocated into the
// same slot.
type Handle struct {
	ArenaID    uint8
	Slot       uint32
	Generation uint32
}

// IsZero reports whether h is the zero Handle. The first record allocated
// from an arena with id 0 also has the zero Handle.
func (h Handle) IsZero() bool {
	return h == Handle{}
}
