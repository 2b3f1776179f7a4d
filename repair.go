package trackfix

import "fmt"

// Repair validates every sample and removes duplicates, samples whose time
// or distance does not advance, and the configured trim range.
func (p *Processor) Repair(t *Track) error {
	first := t.First()
	if first == nil {
		return ErrNoSamples
	}
	if err := p.prepareStart(t, first); err != nil {
		return err
	}

	trim := p.cfg.Trim && p.cfg.Range.IsSet()
	var (
		p0          *Sample // last sample before the trimmed range
		trimming    bool
		trimmed     bool
		trimmedTime float64
		trimmedDist float64
	)

	c := t.Pairs()
	for c.Valid() {
		p1, p2 := c.Prev, c.Curr

		if !p2.Elevation.Valid {
			return sampleError(p2, ErrMissingElevation)
		}
		if !p2.Timestamp.Valid && p.cfg.SetSpeed == 0 {
			return sampleError(p2, fmt.Errorf("%w: use an average speed to synthesize it", ErrMissingTimestamp))
		}

		if trim && !trimmed {
			if p2.Index == p.cfg.Range.From {
				trimming = true
				p0 = p1
			}
			if trimming {
				if p2.Index == p.cfg.Range.To {
					trimmedTime = p2.Timestamp.Or(0) - p0.Timestamp.Or(0)
					trimmedDist = p2.Distance.Or(0) - p0.Distance.Or(0)
					trimming = false
					trimmed = true
				}
				t.Trimmed++
				c.Remove()
				continue
			}
		}

		// close the gap left by the trimmed range
		if trimmed {
			if p2.Timestamp.Valid {
				p2.Timestamp.Value -= trimmedTime
			}
			if p2.Distance.Valid {
				p2.Distance.Value -= trimmedDist
			}
		}

		if !p.cfg.Verbatim {
			switch {
			case p2.Lat == p1.Lat && p2.Lon == p1.Lon && p2.Elevation.Value == p1.Elevation.Value:
				p.warn("duplicate track point", p2, "prev", p1.Index)
				t.Duplicates++
				c.Remove()
				continue
			case p2.Timestamp.Valid && p2.Timestamp.Value <= p1.Timestamp.Or(0):
				p.warn("non-increasing timestamp", p2, "prev", p1.Index,
					"time", p2.Timestamp.Value, "prevTime", p1.Timestamp.Or(0))
				t.Discarded++
				c.Remove()
				continue
			case p2.Distance.Valid && p2.Distance.Value <= p1.Distance.Or(0):
				p.warn("non-increasing distance", p2, "prev", p1.Index,
					"distance", p2.Distance.Value, "prevDistance", p1.Distance.Or(0))
				t.Discarded++
				c.Remove()
				continue
			}
		}

		c.Advance()
	}

	if trimming {
		p.warn("trim range runs past the last track point", t.Last(), "to", p.cfg.Range.To)
	}
	return nil
}

// prepareStart checks the first sample and resolves the start time override.
func (p *Processor) prepareStart(t *Track, first *Sample) error {
	if !first.Elevation.Valid {
		return sampleError(first, ErrMissingElevation)
	}
	start := p.cfg.StartTime
	switch {
	case !first.Timestamp.Valid:
		if !start.Valid || p.cfg.SetSpeed == 0 {
			return sampleError(first, fmt.Errorf("%w: both a start time and an average speed are required", ErrMissingTimestamp))
		}
		first.Timestamp = start
	case start.Valid:
		t.TimeOffset = start.Value - first.Timestamp.Value
	}
	t.StartTime = first.Timestamp.Value
	t.BaseTime = t.StartTime
	t.EndTime = t.StartTime
	return nil
}

// CloseGap removes the time gap in front of the sample with the given
// index, leaving one second between it and its predecessor. Every later
// sample shifts by the same amount.
func (p *Processor) CloseGap(t *Track, index int) {
	var (
		gap   float64
		found bool
	)
	for c := t.Pairs(); c.Valid(); c.Advance() {
		p1, p2 := c.Prev, c.Curr
		if !found && p2.Index == index {
			found = true
			gap = p2.Timestamp.Or(0) - p1.Timestamp.Or(0) - 1
			if gap <= 0 {
				return
			}
		}
		if found && p2.Timestamp.Valid {
			p2.Timestamp.Value -= gap
		}
	}
	if !found {
		p.log.Warn("close-gap track point not found", "trkpt", index)
	}
}
