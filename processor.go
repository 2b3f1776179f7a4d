package trackfix

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

// Sentinel errors returned by Process, wrapped with the offending sample
// where there is one.
var (
	ErrMissingElevation = errors.New("missing elevation")
	ErrMissingTimestamp = errors.New("missing timestamp")
	ErrNoSamples        = errors.New("no track points")
)

// MaxGradeMagnitude bounds every computed grade, in percent.
const MaxGradeMagnitude = 99.9

// IndexRange selects samples by their ingestion index, inclusive. The zero
// value selects every sample.
type IndexRange struct {
	From int
	To   int
}

// IsSet reports whether a range was given.
func (r IndexRange) IsSet() bool {
	return r.From != 0 || r.To != 0
}

// Contains reports whether index i falls in the range. An unset range
// contains everything.
func (r IndexRange) Contains(i int) bool {
	if !r.IsSet() {
		return true
	}
	return i >= r.From && i <= r.To
}

// Validate checks 1 <= From < To.
func (r IndexRange) Validate() error {
	if !r.IsSet() {
		return nil
	}
	if r.From < 1 || r.From >= r.To {
		return fmt.Errorf("invalid range %d,%d: want 1 <= from < to", r.From, r.To)
	}
	return nil
}

// SmoothMethod selects the moving-average weighting.
type SmoothMethod int

const (
	SmoothSimple SmoothMethod = iota
	SmoothWeighted
)

// ParseSmoothMethod accepts "simple" and "weighted" (or "weighed").
func ParseSmoothMethod(v string) (SmoothMethod, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "simple", "sma":
		return SmoothSimple, nil
	case "weighted", "weighed", "wma":
		return SmoothWeighted, nil
	}
	return SmoothSimple, fmt.Errorf("unsupported moving average method %q (expected simple|weighted)", v)
}

// String returns the option name of m.
func (m SmoothMethod) String() string {
	if m == SmoothWeighted {
		return "weighted"
	}
	return "simple"
}

// SmoothMetric selects the sample field the moving average rewrites.
type SmoothMetric int

const (
	SmoothElevation SmoothMetric = iota
	SmoothGrade
	SmoothPower
	SmoothSpeed
)

// ParseSmoothMetric accepts elevation, grade, power or speed.
func ParseSmoothMetric(v string) (SmoothMetric, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "elevation", "ele":
		return SmoothElevation, nil
	case "grade":
		return SmoothGrade, nil
	case "power":
		return SmoothPower, nil
	case "speed":
		return SmoothSpeed, nil
	}
	return SmoothElevation, fmt.Errorf("unsupported moving average metric %q (expected elevation|grade|power|speed)", v)
}

// String returns the option name of m.
func (m SmoothMetric) String() string {
	switch m {
	case SmoothGrade:
		return "grade"
	case SmoothPower:
		return "power"
	case SmoothSpeed:
		return "speed"
	}
	return "elevation"
}

// Smoothing configures the moving-average pass. A zero Window disables it.
type Smoothing struct {
	Method SmoothMethod
	Metric SmoothMetric
	Window int
}

// Enabled reports whether a window was configured.
func (s Smoothing) Enabled() bool {
	return s.Window > 1
}

// Config holds the processing options.
type Config struct {
	Verbatim bool
	Quiet    bool

	Trim     bool
	Range    IndexRange
	CloseGap int // index of the sample whose preceding time gap is closed

	SetSpeed  float64 // m/s, used to synthesize missing timestamps
	StartTime Float   // seconds since epoch

	MaxGrade       Float
	MinGrade       Float
	MaxGradeChange Float

	Smoothing         Smoothing
	NoElevationAdjust bool

	Logger *slog.Logger
}

// Validate rejects inconsistent options.
func (c Config) Validate() error {
	if err := c.Range.Validate(); err != nil {
		return err
	}
	if c.Trim && !c.Range.IsSet() {
		return errors.New("trim requires a range")
	}
	if c.CloseGap < 0 {
		return fmt.Errorf("invalid close-gap index %d", c.CloseGap)
	}
	if c.SetSpeed < 0 {
		return fmt.Errorf("invalid average speed %g", c.SetSpeed)
	}
	if c.MaxGrade.Valid && c.MinGrade.Valid && c.MinGrade.Value >= c.MaxGrade.Value {
		return fmt.Errorf("min grade %g must be below max grade %g", c.MinGrade.Value, c.MaxGrade.Value)
	}
	if c.MaxGradeChange.Valid && c.MaxGradeChange.Value <= 0 {
		return fmt.Errorf("invalid max grade change %g", c.MaxGradeChange.Value)
	}
	if w := c.Smoothing.Window; w != 0 && (w < 3 || w%2 == 0) {
		return fmt.Errorf("invalid moving average window %d: must be odd and at least 3", w)
	}
	return nil
}

// Processor runs the repair, kinematics, smoothing, grade limiting and
// aggregation passes over a track.
type Processor struct {
	cfg Config
	log *slog.Logger
}

// NewProcessor validates cfg and returns a processor. A nil logger discards
// diagnostics.
func NewProcessor(cfg Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Processor{cfg: cfg, log: log}, nil
}

// Process runs every pass in order. The track is compacted on return.
func (p *Processor) Process(t *Track) error {
	if t.Len() == 0 {
		return ErrNoSamples
	}
	if err := p.Repair(t); err != nil {
		return err
	}
	if p.cfg.CloseGap > 0 {
		p.CloseGap(t, p.cfg.CloseGap)
	}
	sm := p.cfg.Smoothing
	if sm.Enabled() && sm.Metric == SmoothElevation {
		p.Smooth(t, SmoothElevation)
	}
	p.Kinematics(t)
	p.LimitGrades(t)
	if sm.Enabled() && sm.Metric != SmoothElevation {
		p.Smooth(t, sm.Metric)
	}
	p.AdjustElevations(t)
	p.ShiftStart(t)
	p.Aggregate(t)
	t.Compact()
	return nil
}

// warn reports a recoverable anomaly; quiet mode drops it.
func (p *Processor) warn(msg string, s *Sample, args ...any) {
	if p.cfg.Quiet {
		return
	}
	p.log.Warn(msg, append([]any{"trkpt", s.Index, "src", s.Loc()}, args...)...)
}

// inconsistent reports data that survived repair but is still out of
// order. It is always logged.
func (p *Processor) inconsistent(msg string, s *Sample, args ...any) {
	p.log.Error(msg, append([]any{"trkpt", s.Index, "src", s.Loc()}, args...)...)
}

func clampGrade(g float64) float64 {
	return math.Max(-MaxGradeMagnitude, math.Min(MaxGradeMagnitude, g))
}

func sampleError(s *Sample, err error) error {
	return fmt.Errorf("trkpt #%d (%s): %w", s.Index, s.Loc(), err)
}
