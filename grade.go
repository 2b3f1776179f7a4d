package trackfix

import "math"

// LimitGrades clamps grades to the configured bounds and caps the change
// between consecutive grades. Checks run in order: max, min, change limit.
// It returns the number of samples it adjusted.
func (p *Processor) LimitGrades(t *Track) int {
	maxG, minG, maxChange := p.cfg.MaxGrade, p.cfg.MinGrade, p.cfg.MaxGradeChange
	if !maxG.Valid && !minG.Valid && !maxChange.Valid {
		return 0
	}

	count := 0
	for c := t.Pairs(); c.Valid(); c.Advance() {
		p1, p2 := c.Prev, c.Curr
		if !p.cfg.Range.Contains(p2.Index) {
			continue
		}
		adjusted := false
		g := p2.Grade.Value
		if maxG.Valid && g > maxG.Value {
			p.warn("grade above max", p2, "grade", g, "max", maxG.Value)
			g = maxG.Value
			adjusted = true
		}
		if minG.Valid && g < minG.Value {
			p.warn("grade below min", p2, "grade", g, "min", minG.Value)
			g = minG.Value
			adjusted = true
		}
		p2.DeltaGrade = math.Abs(g - p1.Grade.Value)
		if maxChange.Valid && p2.DeltaGrade > maxChange.Value {
			if g > p1.Grade.Value {
				g = p1.Grade.Value + maxChange.Value
			} else {
				g = p1.Grade.Value - maxChange.Value
			}
			p2.DeltaGrade = maxChange.Value
			adjusted = true
		}
		if adjusted {
			p2.Grade.Set(g)
			p2.GradeAdjusted = true
			count++
		}
	}
	return count
}

// AdjustElevations bends the elevation of every grade-adjusted sample so
// that rise/run matches its grade again. Run is kept as measured.
func (p *Processor) AdjustElevations(t *Track) {
	if p.cfg.NoElevationAdjust {
		return
	}
	for c := t.Pairs(); c.Valid(); c.Advance() {
		p1, p2 := c.Prev, c.Curr
		if !p2.GradeAdjusted {
			continue
		}
		p2.Rise = p2.Run * p2.Grade.Value / 100
		p2.Dist = math.Sqrt(p2.Run*p2.Run + p2.Rise*p2.Rise)
		elev := p1.Elevation.Value + p2.Rise
		if elev != p2.Elevation.Value {
			p2.Elevation.Set(elev)
			t.ElevationAdjusted++
		}
	}
}

// ShiftStart moves the activity to the configured start time by stamping
// each sample's adjusted timestamp.
func (p *Processor) ShiftStart(t *Track) {
	if t.TimeOffset == 0 || t.shifted {
		return
	}
	for s := t.First(); s != nil; s = t.Next(s) {
		if s.Timestamp.Valid {
			s.AdjustedTime.Set(s.Timestamp.Value + t.TimeOffset)
		}
	}
	t.StartTime += t.TimeOffset
	t.EndTime += t.TimeOffset
	t.BaseTime += t.TimeOffset
	t.shifted = true
}
