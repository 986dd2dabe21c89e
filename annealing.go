package regexgenerator

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/Paulchenkiller/regexgenerator/internal/cache"
	"github.com/google/uuid"
	"github.com/projectdiscovery/fasttemplate"
	"github.com/projectdiscovery/gologger"
)

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }

// ConvergenceReason names why an optimize run stopped, per spec.md §6.
type ConvergenceReason string

const (
	ReasonTimeout              ConvergenceReason = "timeout"
	ReasonNoImprovement        ConvergenceReason = "no_improvement"
	ReasonPerfectSolution      ConvergenceReason = "perfect_solution"
	ReasonTemperatureConverged ConvergenceReason = "temperature_converged"
	ReasonMaxIterations        ConvergenceReason = "max_iterations"
)

// OptimizeConfig is the recognized option set from spec.md §6's optimize
// entry point.
type OptimizeConfig struct {
	InitialTemperature float64
	FinalTemperature   float64
	MaxIterations      int
	MaxNoImprovement   int
	CoolingSchedule    CoolingSchedule
	MutationRate       float64
	MaxComplexity      int
	RandomSeed         *int64
	TimeoutSeconds     *float64
}

// WithDefaults fills in every zero field with the spec.md §6 default.
func (c OptimizeConfig) WithDefaults() OptimizeConfig {
	if c.InitialTemperature == 0 {
		c.InitialTemperature = DefaultInitialTemperature
	}
	if c.FinalTemperature == 0 {
		c.FinalTemperature = DefaultFinalTemperature
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.MaxNoImprovement == 0 {
		c.MaxNoImprovement = 150
	}
	if c.CoolingSchedule == "" {
		c.CoolingSchedule = ScheduleAdaptive
	}
	if c.MutationRate == 0 {
		c.MutationRate = DefaultMutationRate
	}
	if c.MaxComplexity == 0 {
		c.MaxComplexity = 50
	}
	return c
}

// diagnosticTemplate renders a one-line human-readable summary of a Result,
// in the `{{tag}}` placeholder syntax fasttemplate expects.
const diagnosticTemplate = `run {{run_id}}: {{regex}} scored {{score}} (complexity {{complexity}}) ` +
	`matched {{pos_matched}} positives / rejected {{neg_rejected}} negatives in {{iterations}} iterations, ` +
	`stopped on {{reason}}`

// Result is the driver's return value, per spec.md §6's Result record.
type Result struct {
	RunID             uuid.UUID
	Regex             string
	Score             float64
	Complexity        int
	Iterations        int
	TimeSeconds       float64
	PosMatched        int
	NegRejected       int
	ConvergenceReason ConvergenceReason
	AcceptanceRate    float64
	FinalTemperature  float64

	accepted           int
	rejected           int
	temperatureHistory []float64
	fitnessHistory     []float64
}

// Stats restores the original implementation's get_optimization_stats:
// acceptance/rejection ratios alongside the raw counters.
func (r Result) Stats() map[string]float64 {
	total := r.accepted + r.rejected
	stats := map[string]float64{
		"accepted":        float64(r.accepted),
		"rejected":        float64(r.rejected),
		"acceptance_rate": r.AcceptanceRate,
	}
	if total > 0 {
		stats["rejection_rate"] = float64(r.rejected) / float64(total)
	}
	return stats
}

// TemperatureHistory and FitnessHistory expose the per-iteration traces
// appended during optimize (spec.md §5's ordering guarantee).
func (r Result) TemperatureHistory() []float64 { return append([]float64{}, r.temperatureHistory...) }
func (r Result) FitnessHistory() []float64     { return append([]float64{}, r.fitnessHistory...) }

// DiagnosticReport renders a one-line human-readable summary of the run,
// suitable for a log line or a saved report header. It uses the same
// fasttemplate.ExecuteStringStd placeholder-substitution idiom as the
// teacher's own Replace helper.
func (r Result) DiagnosticReport() string {
	values := map[string]interface{}{
		"run_id":       r.RunID.String(),
		"regex":        r.Regex,
		"score":        formatFloat(r.Score),
		"complexity":   itoa(r.Complexity),
		"pos_matched":  itoa(r.PosMatched),
		"neg_rejected": itoa(r.NegRejected),
		"iterations":   itoa(r.Iterations),
		"reason":       string(r.ConvergenceReason),
	}
	return fasttemplate.ExecuteStringStd(diagnosticTemplate, "{{", "}}", values)
}

// Driver runs simulated annealing search over the Pattern IR, the
// component described in spec.md §4.6.
type Driver struct {
	config  OptimizeConfig
	scorer  *MultiCriteriaScorer
	mutator *Mutator
	sched   *CoolingScheduler
	rng     *rand.Rand
	cache   *cache.Cache[FitnessResult]
}

// NewDriver wires a scorer, mutator, and scheduler from one OptimizeConfig,
// seeding the RNG from RandomSeed when provided (spec.md §5's determinism
// guarantee: identical seed implies byte-identical results).
func NewDriver(config OptimizeConfig, scorer *MultiCriteriaScorer) *Driver {
	config = config.WithDefaults()
	seed := time.Now().UnixNano()
	if config.RandomSeed != nil {
		seed = *config.RandomSeed
	}
	mutator := NewMutator(seed, config.MaxComplexity)
	mutator.MutationRate = config.MutationRate
	return &Driver{
		config:  config,
		scorer:  scorer,
		mutator: mutator,
		sched:   NewCoolingScheduler(config.InitialTemperature, config.FinalTemperature, config.MaxIterations, config.CoolingSchedule),
		rng:     rand.New(rand.NewSource(seed)),
		cache:   cache.New[FitnessResult](),
	}
}

// score evaluates neighbor, memoizing by its serialized form: simulated
// annealing routinely revisits the same candidate (a quantifier-bounds
// perturbation, say, that lands back on an earlier shape), and a repeat
// candidate's fitness never changes within one run since positives/
// negatives are fixed for its lifetime.
func (d *Driver) score(ir Node, positives, negatives []string) FitnessResult {
	key := ir.Serialize()
	if cached, ok := d.cache.Get(key); ok {
		return cached
	}
	result := d.scorer.Score(ir, positives, negatives)
	d.cache.Put(key, result)
	return result
}

// Optimize runs the per-iteration loop from spec.md §4.6 and always
// returns a Result — best IR is the starting IR if nothing was ever
// accepted, per spec.md §7's propagation policy.
func (d *Driver) Optimize(positives, negatives []string, initial Node) (*Result, error) {
	if err := d.preconditions(positives); err != nil {
		return nil, err
	}

	current := initial
	if current == nil {
		current = d.mutator.RandomPattern(d.config.MaxComplexity/2, positives)
	}
	currentFitness := d.score(current, positives, negatives)
	best := current
	bestFitness := currentFitness

	start := time.Now()
	accepted, rejected := 0, 0
	lastImprovementIter := 0
	noImprovementCount := 0
	var temperatureHistory, fitnessHistory []float64
	reason := ReasonMaxIterations
	iter := 0

	for ; iter < d.config.MaxIterations; iter++ {
		if d.config.TimeoutSeconds != nil && time.Since(start).Seconds() > *d.config.TimeoutSeconds {
			reason = ReasonTimeout
			break
		}

		T := d.sched.Temperature(iter, lastImprovementIter)
		temperatureHistory = append(temperatureHistory, T)

		neighbor, ok := d.mutator.Mutate(current)
		if !ok || neighbor.Complexity() > d.config.MaxComplexity {
			rejected++
			fitnessHistory = append(fitnessHistory, currentFitness.Total)
			continue
		}

		nf := d.score(neighbor, positives, negatives)

		accept := nf.Total > currentFitness.Total
		if !accept && T > 0 {
			accept = d.rng.Float64() < math.Exp((nf.Total-currentFitness.Total)/T)
		}

		if accept {
			accepted++
			current, currentFitness = neighbor, nf
			if nf.Total > bestFitness.Total {
				best, bestFitness = neighbor, nf
				lastImprovementIter = iter
				noImprovementCount = 0
			} else {
				noImprovementCount++
			}
		} else {
			rejected++
			noImprovementCount++
		}
		fitnessHistory = append(fitnessHistory, currentFitness.Total)

		if noImprovementCount >= d.config.MaxNoImprovement {
			reason = ReasonNoImprovement
			break
		}
		if bestFitness.Total >= 0.999 && bestFitness.PosMatched == len(positives) && bestFitness.NegRejected == len(negatives) {
			reason = ReasonPerfectSolution
			break
		}
		if T < d.config.FinalTemperature {
			reason = ReasonTemperatureConverged
			break
		}
		if iter+1 == d.config.MaxIterations {
			reason = ReasonMaxIterations
			break
		}
	}

	total := accepted + rejected
	acceptanceRate := 0.0
	if total > 0 {
		acceptanceRate = float64(accepted) / float64(total)
	}
	finalT := d.sched.Temperature(iter, lastImprovementIter)

	gologger.Debug().Msgf("driver: stopped after %d iterations, reason=%s, best=%.4f", total, reason, bestFitness.Total)

	return &Result{
		RunID:              uuid.New(),
		Regex:              best.Serialize(),
		Score:              bestFitness.Total,
		Complexity:         best.Complexity(),
		Iterations:         total,
		TimeSeconds:        time.Since(start).Seconds(),
		PosMatched:         bestFitness.PosMatched,
		NegRejected:        bestFitness.NegRejected,
		ConvergenceReason:  reason,
		AcceptanceRate:     acceptanceRate,
		FinalTemperature:   finalT,
		accepted:           accepted,
		rejected:           rejected,
		temperatureHistory: temperatureHistory,
		fitnessHistory:     fitnessHistory,
	}, nil
}

func (d *Driver) preconditions(positives []string) error {
	if len(positives) == 0 {
		return ErrNoPositives
	}
	if d.config.FinalTemperature >= d.config.InitialTemperature {
		return ErrBadTemperatures
	}
	return nil
}

// OptimizeWithRestarts runs Optimize k times with seeds seed+0, seed+1, …
// and returns the run with the highest best.Score, its ConvergenceReason
// suffixed with the winning restart index (spec.md §4.6).
func OptimizeWithRestarts(config OptimizeConfig, scorer *MultiCriteriaScorer, positives, negatives []string, initial Node, k int) (*Result, error) {
	if k <= 0 {
		k = 1
	}
	baseSeed := time.Now().UnixNano()
	if config.RandomSeed != nil {
		baseSeed = *config.RandomSeed
	}

	var best *Result
	bestRestart := 0
	for i := 0; i < k; i++ {
		seed := baseSeed + int64(i)
		runConfig := config
		runConfig.RandomSeed = &seed
		driver := NewDriver(runConfig, scorer)
		result, err := driver.Optimize(positives, negatives, initial)
		if err != nil {
			return nil, err
		}
		if best == nil || result.Score > best.Score {
			best = result
			bestRestart = i
		}
	}
	best.ConvergenceReason = ConvergenceReason(string(best.ConvergenceReason) + "_restart" + itoa(bestRestart))
	return best, nil
}
