package regexgenerator

import (
	"math"
	"strings"
	"time"
)

// ScoringMode selects one of the three fixed weight presets from
// spec.md §4.4 step 6.
type ScoringMode string

const (
	ScoringMinimal  ScoringMode = "minimal"
	ScoringReadable ScoringMode = "readable"
	ScoringBalanced ScoringMode = "balanced"
)

// Weights is the four-way split applied to the sub-scores; it is
// normalized to sum to 1 before use.
type Weights struct {
	Correctness float64
	Complexity  float64
	Readability float64
	Performance float64
}

var presetWeights = map[ScoringMode]Weights{
	ScoringMinimal:  {Correctness: 0.6, Complexity: 0.3, Readability: 0.05, Performance: 0.05},
	ScoringReadable: {Correctness: 0.5, Complexity: 0.1, Readability: 0.3, Performance: 0.1},
	ScoringBalanced: {Correctness: 0.5, Complexity: 0.2, Readability: 0.2, Performance: 0.1},
}

func (w Weights) normalized() Weights {
	sum := w.Correctness + w.Complexity + w.Readability + w.Performance
	if sum == 0 {
		return w
	}
	return Weights{
		Correctness: w.Correctness / sum,
		Complexity:  w.Complexity / sum,
		Readability: w.Readability / sum,
		Performance: w.Performance / sum,
	}
}

// FitnessResult is the four-sub-score breakdown plus weighted Total, per
// spec.md §3/§4.4.
type FitnessResult struct {
	Correctness float64
	Complexity  float64
	Readability float64
	Performance float64
	Total       float64
	PosMatched  int
	NegRejected int
	Timeout     bool
	CompileErr  error
}

// MultiCriteriaScorer evaluates IR candidates against a positive/negative
// example set, the "score(ir, positives, negatives)" entry point from
// spec.md §4.4 and §6.
type MultiCriteriaScorer struct {
	Weights     Weights
	PerfTimeout time.Duration
}

// NewMultiCriteriaScorer builds a scorer from a named preset, optionally
// overridden by explicit weights (nil keeps the preset).
func NewMultiCriteriaScorer(mode ScoringMode, weights *Weights, perfTimeout time.Duration) *MultiCriteriaScorer {
	w := presetWeights[ScoringBalanced]
	if preset, ok := presetWeights[mode]; ok {
		w = preset
	}
	if weights != nil {
		w = *weights
	}
	if perfTimeout <= 0 {
		perfTimeout = time.Second
	}
	return &MultiCriteriaScorer{Weights: w.normalized(), PerfTimeout: perfTimeout}
}

// Score implements the six-step algorithm in spec.md §4.4.
func (s *MultiCriteriaScorer) Score(ir Node, positives, negatives []string) FitnessResult {
	source := ir.Serialize()
	compiled, err := Compile(source)
	if err != nil {
		return FitnessResult{CompileErr: err}
	}

	correctness, posMatched, negRejected := s.scoreCorrectness(compiled, positives, negatives)
	complexity := 1.0 / (1.0 + float64(ir.Complexity())/100.0)
	readability := scoreReadability(ir, source)
	performance, timedOut := s.scorePerformance(compiled, positives, negatives)

	total := s.Weights.Correctness*correctness +
		s.Weights.Complexity*complexity +
		s.Weights.Readability*readability +
		s.Weights.Performance*performance

	return FitnessResult{
		Correctness: correctness,
		Complexity:  complexity,
		Readability: readability,
		Performance: performance,
		Total:       total,
		PosMatched:  posMatched,
		NegRejected: negRejected,
		Timeout:     timedOut,
	}
}

func (s *MultiCriteriaScorer) scoreCorrectness(compiled *CompiledPattern, positives, negatives []string) (score float64, posMatched, negRejected int) {
	for _, ex := range positives {
		if matched, _ := compiled.FullMatch(ex, s.PerfTimeout); matched {
			posMatched++
		}
	}
	for _, ex := range negatives {
		if matched, _ := compiled.FullMatch(ex, s.PerfTimeout); !matched {
			negRejected++
		}
	}

	switch {
	case len(positives) == 0 && len(negatives) == 0:
		return 1, posMatched, negRejected
	case len(positives) == 0:
		return float64(negRejected) / float64(len(negatives)), posMatched, negRejected
	case len(negatives) == 0:
		return float64(posMatched) / float64(len(positives)), posMatched, negRejected
	default:
		p := float64(posMatched) / float64(len(positives))
		n := float64(negRejected) / float64(len(negatives))
		score = 0.8*p + 0.2*n
		if posMatched == 0 {
			score *= 0.1
		}
		return score, posMatched, negRejected
	}
}

func scoreReadability(ir Node, serialized string) float64 {
	score := 1.0

	depth := nestingDepth(ir)
	if depth > 3 {
		score *= math.Pow(0.8, float64(depth-3))
	}
	if l := len([]rune(serialized)); l > 50 {
		score *= math.Pow(0.9, float64(l-50)/10.0)
	}
	if braces := strings.Count(serialized, "{"); braces > 2 {
		score *= math.Pow(0.95, float64(braces-2))
	}
	if pipes := strings.Count(serialized, "|"); pipes > 3 {
		score *= math.Pow(0.9, float64(pipes-3))
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// nestingDepth ports _calculate_nesting_depth: Group and Quantifier add one
// level of depth each, Alternation takes the max over its alternatives,
// Sequence takes the max over its children (it adds no depth of its own,
// matching how it adds no complexity of its own in ir.go).
func nestingDepth(n Node) int {
	switch v := n.(type) {
	case *Group:
		return 1 + nestingDepth(v.Child)
	case *Quantifier:
		return 1 + nestingDepth(v.Child)
	case *Alternation:
		max := 0
		for _, alt := range v.Alts {
			if d := nestingDepth(alt); d > max {
				max = d
			}
		}
		return max
	case *Sequence:
		max := 0
		for _, child := range v.Children {
			if d := nestingDepth(child); d > max {
				max = d
			}
		}
		return max
	default:
		return 0
	}
}

// scorePerformance runs fullmatch and search against up to 100 examples
// under PerfTimeout (spec.md §4.4 step 5). Budget exhaustion anywhere in
// the sweep is reported as a single timeout covering the whole step.
func (s *MultiCriteriaScorer) scorePerformance(compiled *CompiledPattern, positives, negatives []string) (score float64, timedOut bool) {
	examples := append(append([]string{}, positives...), negatives...)
	if len(examples) > 100 {
		examples = examples[:100]
	}

	start := time.Now()
	deadline := start.Add(s.PerfTimeout)
	for _, ex := range examples {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, true
		}
		if _, timedOut := compiled.FullMatch(ex, remaining); timedOut {
			return 0, true
		}
		remaining = time.Until(deadline)
		if remaining <= 0 {
			return 0, true
		}
		if _, timedOut := compiled.Search(ex, remaining); timedOut {
			return 0, true
		}
	}

	elapsed := time.Since(start)
	if elapsed >= s.PerfTimeout {
		return 0, true
	}
	half := float64(s.PerfTimeout) / 2.0
	return 1.0 / (1.0 + float64(elapsed)/half), false
}
