package constraint

import "github.com/san-kum/rbsolve/internal/rigid"

// Row is the two-method contract every constraint row satisfies: Prepare
// runs once per step to warm-start and rebuild the Jacobian/effective
// mass, Iterate runs once per solver pass to project relative velocity
// and apply a clamped delta impulse. bodies resolves each row's stored
// handles against the world's body arena.
type Row interface {
	Prepare(bodies *rigid.Arena[rigid.Body], invDt float64) error
	Iterate(bodies *rigid.Arena[rigid.Body], invDt float64) error
	Bodies() (rigid.Handle, rigid.Handle)
}

// Header is the handle pair every row embeds, the two body handles
// following the row's function-pointer pair.
type Header struct {
	Body1, Body2 rigid.Handle
}

// Bodies returns the row's two body handles.
func (h Header) Bodies() (rigid.Handle, rigid.Handle) {
	return h.Body1, h.Body2
}

// clamp codes shared by the hinge limit row and the point-on-plane row.
const (
	clampFree = 0
	clampMax  = 1
	clampMin  = 2
)

// clampLimit classifies e against (min, max), returning the clamp code
// and the (possibly shifted) error used to build the row's bias.
func clampLimit(e, min, max float64) (code int, shifted float64) {
	switch {
	case e > max:
		return clampMax, e - max
	case e < min:
		return clampMin, e - min
	default:
		return clampFree, e
	}
}
