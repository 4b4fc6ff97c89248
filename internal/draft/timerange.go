package draft

// Microseconds is the fixed time base for every duration and offset in a
// draft. Integer arithmetic keeps segment cursors exact when summed across
// many segments; floating point seconds only appear at the API boundary.
type Microseconds = int64

// Second is one second in the draft time base.
const Second Microseconds = 1_000_000

// SecondsToMicro converts a boundary value in seconds to the internal time
// base, truncating toward zero so a converted cap never overshoots.
func SecondsToMicro(seconds float64) Microseconds {
	return Microseconds(seconds * float64(Second))
}

// Timerange is a half-open interval [Start, Start+Duration) in the draft
// time base. A Segment carries one for its position inside the material
// (source) and one for its position on the track timeline (target).
type Timerange struct {
	Start    Microseconds `json:"start"`
	Duration Microseconds `json:"duration"`
}

// End returns the exclusive end of the range.
func (t Timerange) End() Microseconds {
	return t.Start + t.Duration
}
