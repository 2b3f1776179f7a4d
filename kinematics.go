package trackfix

import "math"

// Kinematics derives run, rise, dist, deltaT, speed, grade and bearing for
// every consecutive pair and accumulates the activity totals. Samples that
// did not move are removed, or in verbatim mode inherit their
// predecessor's values.
func (p *Processor) Kinematics(t *Track) {
	first := t.First()
	if first == nil {
		return
	}
	if !first.Distance.Valid {
		first.Distance.Set(0)
	}
	if !first.Grade.Valid {
		first.Grade.Set(0)
	}
	first.Grade.Value = clampGrade(first.Grade.Value)
	t.Distance, t.Time = 0, 0
	t.MaxDeltaD, t.MaxDeltaT = Extreme{}, Extreme{}
	t.EndTime = first.Timestamp.Or(0)
	t.kinematics = true

	c := t.Pairs()
	for c.Valid() {
		p1, p2 := c.Prev, c.Curr

		p2.Rise = p2.Elevation.Value - p1.Elevation.Value
		absRise := math.Abs(p2.Rise)

		if p2.Distance.Valid {
			p2.Dist = p2.Distance.Value - p1.Distance.Or(0)
			if p2.Dist == 0 {
				p.stopped(t, c, "null distance")
				continue
			}
			if p2.Dist > absRise {
				p2.Run = math.Sqrt(p2.Dist*p2.Dist - absRise*absRise)
			} else {
				p.warn("inconsistent dist and rise", p2, "dist", p2.Dist, "rise", absRise)
				p2.Run = p2.Dist
			}
		} else {
			p2.Run = Distance(p1, p2)
			if p2.Run == 0 {
				p.stopped(t, c, "null run")
				continue
			}
			if absRise == 0 {
				p2.Dist = p2.Run
			} else {
				p2.Dist = math.Sqrt(p2.Run*p2.Run + absRise*absRise)
			}
			p2.Distance.Set(p1.Distance.Or(0) + p2.Dist)
		}

		if p2.Distance.Value <= p1.Distance.Or(0) {
			p.inconsistent("non-increasing distance", p2, "dist", p2.Dist, "run", p2.Run, "rise", absRise)
		}
		t.MaxDeltaD.above(p2.Dist, p2)

		if !p2.Timestamp.Valid {
			p2.Timestamp.Set(p1.Timestamp.Value + p2.Dist/p.cfg.SetSpeed)
		}
		p2.DeltaT = p2.Timestamp.Value - p1.Timestamp.Value
		if p2.DeltaT <= 0 {
			p.inconsistent("non-increasing timestamp", p2, "dist", p2.Dist, "deltaT", p2.DeltaT)
		}
		t.MaxDeltaT.above(p2.DeltaT, p2)

		if !p2.Speed.Valid {
			if p2.DeltaT > 0 {
				p2.Speed.Set(p2.Dist / p2.DeltaT)
			} else {
				p2.Speed.Set(0)
			}
		}

		t.Distance += p2.Dist
		t.Time += p2.DeltaT

		if !p2.Grade.Valid {
			if p2.Run != 0 {
				p2.Grade.Set(p2.Rise * 100 / p2.Run)
			} else {
				p2.Grade.Set(p1.Grade.Value)
			}
		}
		p2.Grade.Value = clampGrade(p2.Grade.Value)

		p2.Bearing = Bearing(p1, p2)
		p2.DeltaGrade = math.Abs(p2.Grade.Value - p1.Grade.Value)
		t.EndTime = p2.Timestamp.Value

		c.Advance()
	}
}

// stopped handles a pair with no displacement.
func (p *Processor) stopped(t *Track, c *Cursor, msg string) {
	p1, p2 := c.Prev, c.Curr
	if !p.cfg.Verbatim {
		p.warn(msg, p2)
		t.Discarded++
		c.Remove()
		return
	}
	p2.Bearing = p1.Bearing
	p2.Distance = p1.Distance
	p2.Grade = p1.Grade
	p2.Speed = p1.Speed
	// a route point that did not move takes no time at the set speed
	if !p2.Timestamp.Valid {
		p2.Timestamp = p1.Timestamp
	}
	p2.DeltaT = p2.Timestamp.Value - p1.Timestamp.Value
	if p2.DeltaT > 0 {
		t.Time += p2.DeltaT
		t.MaxDeltaT.above(p2.DeltaT, p2)
		t.EndTime = p2.Timestamp.Value
	}
	c.Advance()
}

// above records v when it exceeds the current value, keeping the earliest
// sample on ties.
func (e *Extreme) above(v float64, s *Sample) {
	if e.Sample == nil || v > e.Value {
		e.Value = v
		e.Sample = s
	}
}

// below records v when it is under the current value.
func (e *Extreme) below(v float64, s *Sample) {
	if e.Sample == nil || v < e.Value {
		e.Value = v
		e.Sample = s
	}
}
