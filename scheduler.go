package regexgenerator

import "math"

// CoolingSchedule is one of the four temperature curves from spec.md §4.5.
type CoolingSchedule string

const (
	ScheduleLinear      CoolingSchedule = "linear"
	ScheduleExponential CoolingSchedule = "exponential"
	ScheduleLogarithmic CoolingSchedule = "logarithmic"
	ScheduleAdaptive    CoolingSchedule = "adaptive"
)

const (
	DefaultInitialTemperature = 10.0
	DefaultFinalTemperature   = 0.01
	DefaultMaxIterations      = 1000
)

// CoolingScheduler computes the driver's current temperature at a given
// iteration, per the formula table in spec.md §4.5.
type CoolingScheduler struct {
	InitialT   float64
	FinalT     float64
	MaxIter    int
	Schedule   CoolingSchedule
	Stagnation int
}

// NewCoolingScheduler fills in the spec's defaults for any zero field, and
// derives Stagnation = max(50, max_iter/20) when unset.
func NewCoolingScheduler(initialT, finalT float64, maxIter int, schedule CoolingSchedule) *CoolingScheduler {
	if initialT == 0 {
		initialT = DefaultInitialTemperature
	}
	if finalT == 0 {
		finalT = DefaultFinalTemperature
	}
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}
	if schedule == "" {
		schedule = ScheduleAdaptive
	}
	stagnation := maxIter / 20
	if stagnation < 50 {
		stagnation = 50
	}
	return &CoolingScheduler{
		InitialT:   initialT,
		FinalT:     finalT,
		MaxIter:    maxIter,
		Schedule:   schedule,
		Stagnation: stagnation,
	}
}

// Temperature returns the temperature at iter, given the iteration of the
// most recent improvement (used only by the adaptive schedule).
func (c *CoolingScheduler) Temperature(iter, lastImprovementIter int) float64 {
	switch c.Schedule {
	case ScheduleLinear:
		return c.InitialT * (1 - float64(iter)/float64(c.MaxIter))
	case ScheduleLogarithmic:
		if iter == 0 {
			return c.InitialT
		}
		return c.InitialT / math.Log(float64(iter)+1)
	case ScheduleAdaptive:
		t := c.exponential(iter)
		gap := iter - lastImprovementIter
		if gap > c.Stagnation {
			t *= 1.5 + float64(gap-c.Stagnation)/100.0
		}
		if t < c.FinalT {
			t = c.FinalT
		}
		return t
	default: // exponential
		return c.exponential(iter)
	}
}

func (c *CoolingScheduler) exponential(iter int) float64 {
	return c.InitialT * math.Pow(c.FinalT/c.InitialT, float64(iter)/float64(c.MaxIter))
}
