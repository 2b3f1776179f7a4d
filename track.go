package trackfix

import "github.com/paulmach/orb"

// Extreme is an observed value and the sample it came from. A nil Sample
// means nothing has been observed yet.
type Extreme struct {
	Value  float64
	Sample *Sample
}

// Span collects the minimum, maximum and running sum of one metric.
type Span struct {
	Min Extreme
	Max Extreme
	Sum float64
	N   int
}

// Avg returns Sum/N, or 0 when nothing was summed.
func (s Span) Avg() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Track owns the ordered sample sequence and the activity-level state that
// the processing passes accumulate.
//
// Samples live in an arena of slots linked in both directions. Removing a
// sample tombstones its slot and relinks its neighbours, so a walk holding a
// lagging previous sample stays valid across removals.
type Track struct {
	Activity  ActivityType
	InputMask Metric

	StartTime  float64
	EndTime    float64
	BaseTime   float64
	TimeOffset float64

	Duplicates        int
	Trimmed           int
	Discarded         int
	ElevationAdjusted int

	Distance      float64 // m
	Time          float64 // s
	MovingTime    float64
	StoppedTime   float64
	ElevationGain float64
	ElevationLoss float64

	Elevation   Span
	Speed       Span
	Grade       Span
	Cadence     Span
	HeartRate   Span
	Power       Span
	Temperature Span

	MaxDeltaD Extreme
	MaxDeltaT Extreme
	MaxDeltaG Extreme

	kinematics bool // derived fields are populated
	shifted    bool

	slots   []*Sample
	next    []int
	prev    []int
	head    int
	tail    int
	live    int
	created int
}

// NewTrack returns an empty track.
func NewTrack() *Track {
	return &Track{head: -1, tail: -1}
}

// NextIndex hands out the next sequential sample index.
func (t *Track) NextIndex() int {
	i := t.created
	t.created++
	return i
}

// Append adds s at the end of the sequence.
func (t *Track) Append(s *Sample) {
	slot := len(t.slots)
	s.slot = slot
	s.removed = false
	t.slots = append(t.slots, s)
	t.next = append(t.next, -1)
	t.prev = append(t.prev, t.tail)
	if t.tail >= 0 {
		t.next[t.tail] = slot
	} else {
		t.head = slot
	}
	t.tail = slot
	t.live++
}

// Len returns the number of live samples.
func (t *Track) Len() int {
	return t.live
}

// First returns the first live sample or nil.
func (t *Track) First() *Sample {
	if t.head < 0 {
		return nil
	}
	return t.slots[t.head]
}

// Last returns the last live sample or nil.
func (t *Track) Last() *Sample {
	if t.tail < 0 {
		return nil
	}
	return t.slots[t.tail]
}

// Next returns the live successor of s or nil.
func (t *Track) Next(s *Sample) *Sample {
	if !t.owns(s) {
		return nil
	}
	n := t.next[s.slot]
	if n < 0 {
		return nil
	}
	return t.slots[n]
}

// Prev returns the live predecessor of s or nil.
func (t *Track) Prev(s *Sample) *Sample {
	if !t.owns(s) {
		return nil
	}
	p := t.prev[s.slot]
	if p < 0 {
		return nil
	}
	return t.slots[p]
}

// Remove unlinks s and returns its successor. The successor is fetched
// before the slot is released. Removing a sample twice is a no-op.
func (t *Track) Remove(s *Sample) *Sample {
	if !t.owns(s) {
		return nil
	}
	next := t.Next(s)
	slot := s.slot
	p, n := t.prev[slot], t.next[slot]
	if p >= 0 {
		t.next[p] = n
	} else {
		t.head = n
	}
	if n >= 0 {
		t.prev[n] = p
	} else {
		t.tail = p
	}
	t.slots[slot] = nil
	t.next[slot], t.prev[slot] = -1, -1
	s.removed = true
	t.live--
	return next
}

// Advance moves the lagging pointer onto cur and returns cur's successor.
func (t *Track) Advance(prev **Sample, cur *Sample) *Sample {
	*prev = cur
	return t.Next(cur)
}

// Samples returns the live samples in order.
func (t *Track) Samples() []*Sample {
	out := make([]*Sample, 0, t.live)
	for s := t.First(); s != nil; s = t.Next(s) {
		out = append(out, s)
	}
	return out
}

// Compact rebuilds the arena without tombstoned slots.
func (t *Track) Compact() {
	live := t.Samples()
	t.slots = t.slots[:0]
	t.next = t.next[:0]
	t.prev = t.prev[:0]
	t.head, t.tail, t.live = -1, -1, 0
	for _, s := range live {
		t.Append(s)
	}
}

// Bound returns the bounding box of the live samples.
func (t *Track) Bound() orb.Bound {
	mp := make(orb.MultiPoint, 0, t.live)
	for s := t.First(); s != nil; s = t.Next(s) {
		mp = append(mp, orb.Point{s.Lon, s.Lat})
	}
	return mp.Bound()
}

func (t *Track) owns(s *Sample) bool {
	return s != nil && !s.removed && s.slot >= 0 && s.slot < len(t.slots) && t.slots[s.slot] == s
}

// Cursor walks consecutive pairs. Prev only moves when Curr is retained.
type Cursor struct {
	t    *Track
	Prev *Sample
	Curr *Sample
}

// Pairs starts a walk at the first two samples.
func (t *Track) Pairs() *Cursor {
	first := t.First()
	return &Cursor{t: t, Prev: first, Curr: t.Next(first)}
}

// Valid reports whether the cursor still points at a pair.
func (c *Cursor) Valid() bool {
	return c.Curr != nil
}

// Advance retains Curr and steps forward.
func (c *Cursor) Advance() {
	c.Curr = c.t.Advance(&c.Prev, c.Curr)
}

// Remove drops Curr and steps forward without moving Prev.
func (c *Cursor) Remove() {
	c.Curr = c.t.Remove(c.Curr)
}
