package rigid

import "errors"

// Sentinel errors surfaced at the arena and body API boundary. The solver's
// step loop never recovers from these at runtime; they indicate a caller
// contract violation.
var (
	// ErrCapacityExceeded is returned by Alloc when an arena is full.
	ErrCapacityExceeded = errors.New("rigid: arena at capacity")

	// ErrStaleHandle is returned by Get/Free when a handle's generation no
	// longer matches the slot it names, or the slot is not currently
	// allocated from the arena the handle claims to belong to.
	ErrStaleHandle = errors.New("rigid: stale or foreign handle")

	// ErrInvalidArgument is returned (wrapped) by step.World.Step for
	// dt <= 0 or substep_count < 1. The constraint row constructors
	// (NewHinge, NewPointOnPlane, NewSpring) do not validate their inputs
	// and never return it: non-finite values are accepted as given, and
	// axes are normalized rather than checked.
	ErrInvalidArgument = errors.New("rigid: invalid argument")
)
