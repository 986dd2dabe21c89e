package regexgenerator

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RiskLevel buckets a pattern's static backtracking risk score, per
// spec.md §4.7's safety_analysis risk levels.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ValidationRecord is the result of Validator.Validate, per spec.md §4.7.
type ValidationRecord struct {
	RunID               uuid.UUID
	IsValid             bool
	Regex               string
	CompileErr          error
	PositiveMatches     []string
	PositiveFailures    []string
	NegativeMatches     []string
	NegativeFailures    []string
	ExecutionTime       time.Duration
	PatternLength       int
	PatternComplexity   int
	TimeoutOccurred     bool
	PerformanceWarnings []string
}

// SafetyReport is the output of Validator.SafetyAnalysis.
type SafetyReport struct {
	RiskLevel           RiskLevel
	RiskScore           int
	Warnings            []string
	PatternLength       int
	PatternComplexity   int
	NestedQuantifiers   []string
	AlternationCount    int
	QuantifierCount     int
	CharacterClassCount int
}

// BenchmarkReport is the output of Validator.Benchmark.
type BenchmarkReport struct {
	Error          string
	SuccessfulRuns int
	TotalRuns      int
	SuccessRate    float64
	MeanTimeMs     float64
	MedianTimeMs   float64
	MinTimeMs      float64
	MaxTimeMs      float64
}

// nestedQuantifierPatterns are the two conservative, string-based heuristics
// the original implementation uses to flag catastrophic-backtracking
// shapes. Per spec.md §9's note that this heuristic intentionally
// overmatches, these are carried unchanged rather than "corrected" into a
// tighter but unproven rule.
var nestedQuantifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\([^)]*[*+][^)]*\)[*+]`),
	regexp.MustCompile(`[*+][^)]*\)`),
}

// Validator performs the full validate/safety_analysis/benchmark surface
// from spec.md §4.7. Validate runs each match under a cancellable
// wall-clock guard rather than the original's thread-join timeout;
// Benchmark's matches are unbounded, and SafetyAnalysis runs no match.
type Validator struct {
	TimeoutSeconds float64
}

// NewValidator returns a Validator with the spec.md §4.7 default 2s guard.
func NewValidator() *Validator {
	return &Validator{TimeoutSeconds: 2.0}
}

// Validate runs the per-example match sweep and the 100ms-per-example
// performance check described in spec.md §4.7.
func (v *Validator) Validate(ir Node, positives, negatives []string) ValidationRecord {
	start := time.Now()
	source := ir.Serialize()
	runID := uuid.New()

	compiled, err := Compile(source)
	if err != nil {
		return ValidationRecord{
			RunID:             runID,
			Regex:             source,
			CompileErr:        err,
			PositiveFailures:  append([]string{}, positives...),
			PatternLength:     len([]rune(source)),
			PatternComplexity: ir.Complexity(),
		}
	}

	guard := time.Duration(v.TimeoutSeconds * float64(time.Second))
	rec := ValidationRecord{
		RunID:             runID,
		Regex:             source,
		PatternLength:     len([]rune(source)),
		PatternComplexity: ir.Complexity(),
	}

	deadline := time.Now().Add(guard)
	for _, ex := range positives {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			rec.TimeoutOccurred = true
			break
		}
		exStart := time.Now()
		matched, timedOut := compiled.FullMatch(ex, remaining)
		if timedOut {
			rec.TimeoutOccurred = true
			break
		}
		if matched {
			rec.PositiveMatches = append(rec.PositiveMatches, ex)
		} else {
			rec.PositiveFailures = append(rec.PositiveFailures, ex)
		}
		if elapsed := time.Since(exStart); elapsed > 100*time.Millisecond {
			rec.PerformanceWarnings = append(rec.PerformanceWarnings,
				"slow execution on positive example '"+ex+"': "+elapsed.String())
		}
	}

	if rec.TimeoutOccurred {
		rec.PositiveFailures = append([]string{}, positives...)
		rec.NegativeMatches = append([]string{}, negatives...)
		rec.PerformanceWarnings = append(rec.PerformanceWarnings,
			"pattern execution timed out - possible catastrophic backtracking")
		rec.ExecutionTime = time.Since(start)
		rec.IsValid = false
		return rec
	}

	for _, ex := range negatives {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			rec.TimeoutOccurred = true
			break
		}
		exStart := time.Now()
		matched, timedOut := compiled.FullMatch(ex, remaining)
		if timedOut {
			rec.TimeoutOccurred = true
			break
		}
		if matched {
			rec.NegativeMatches = append(rec.NegativeMatches, ex)
		} else {
			rec.NegativeFailures = append(rec.NegativeFailures, ex)
		}
		if elapsed := time.Since(exStart); elapsed > 100*time.Millisecond {
			rec.PerformanceWarnings = append(rec.PerformanceWarnings,
				"slow execution on negative example '"+ex+"': "+elapsed.String())
		}
	}

	if rec.TimeoutOccurred {
		rec.NegativeMatches = append([]string{}, negatives...)
		rec.PerformanceWarnings = append(rec.PerformanceWarnings,
			"pattern execution timed out - possible catastrophic backtracking")
	}

	rec.ExecutionTime = time.Since(start)
	rec.IsValid = !rec.TimeoutOccurred &&
		len(rec.PositiveFailures) == 0 &&
		len(rec.NegativeMatches) == 0 &&
		len(rec.PerformanceWarnings) == 0
	return rec
}

// QuickValidate is a compile-only check, distinct from the full Validate
// pass, restored from the original's quick_validate.
func (v *Validator) QuickValidate(ir Node) bool {
	_, err := Compile(ir.Serialize())
	return err == nil
}

// SafetyAnalysis implements the static risk heuristics from spec.md §4.7.
// It never fails: a compile error still produces a record over the raw
// serialized text.
func (v *Validator) SafetyAnalysis(ir Node) SafetyReport {
	source := ir.Serialize()

	var warnings []string
	riskScore := 0

	nested := findNestedQuantifiers(source)
	if len(nested) > 0 {
		warnings = append(warnings, "nested quantifiers detected - high risk of catastrophic backtracking")
		riskScore += 5
	}

	alternationCount := strings.Count(source, "|")
	if alternationCount > 0 {
		warnings = append(warnings, "alternation detected - potential for backtracking")
		riskScore++
	}

	classCount := strings.Count(source, "[")
	if classCount > 3 {
		warnings = append(warnings, "many character classes - may impact performance")
		riskScore++
	}

	quantifierCount := strings.Count(source, "*") + strings.Count(source, "+")
	if quantifierCount > 2 {
		warnings = append(warnings, "multiple unbounded quantifiers - potential performance issue")
		riskScore += 2
	}

	length := len([]rune(source))
	if length > 100 {
		warnings = append(warnings, "very long pattern - may be hard to understand")
		riskScore++
	}

	var level RiskLevel
	switch {
	case riskScore == 0:
		level = RiskLow
	case riskScore <= 2:
		level = RiskMedium
	case riskScore <= 5:
		level = RiskHigh
	default:
		level = RiskCritical
	}

	return SafetyReport{
		RiskLevel:           level,
		RiskScore:           riskScore,
		Warnings:            warnings,
		PatternLength:       length,
		PatternComplexity:   ir.Complexity(),
		NestedQuantifiers:   nested,
		AlternationCount:    alternationCount,
		QuantifierCount:     quantifierCount,
		CharacterClassCount: classCount,
	}
}

func findNestedQuantifiers(source string) []string {
	var found []string
	for _, re := range nestedQuantifierPatterns {
		found = append(found, re.FindAllString(source, -1)...)
	}
	return found
}

// Benchmark runs iters complete passes over strings and reports timing
// statistics, per spec.md §4.7's benchmark(ir, strings, iters).
func (v *Validator) Benchmark(ir Node, testStrings []string, iters int) BenchmarkReport {
	compiled, err := Compile(ir.Serialize())
	if err != nil {
		return BenchmarkReport{Error: "pattern compilation failed"}
	}
	if len(testStrings) == 0 {
		return BenchmarkReport{Error: "no test strings provided"}
	}
	if iters <= 0 {
		iters = 100
	}

	var times []time.Duration
	successfulRuns := 0
	for i := 0; i < iters; i++ {
		start := time.Now()
		for _, s := range testStrings {
			compiled.FullMatch(s, 0)
		}
		times = append(times, time.Since(start))
		successfulRuns++
	}

	if len(times) == 0 {
		return BenchmarkReport{Error: "all benchmark runs failed"}
	}

	sorted := append([]time.Duration{}, times...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	min, max := sorted[0], sorted[len(sorted)-1]
	for _, t := range times {
		sum += t
	}
	mean := sum / time.Duration(len(times))
	median := sorted[len(sorted)/2]

	return BenchmarkReport{
		SuccessfulRuns: successfulRuns,
		TotalRuns:      iters,
		SuccessRate:    float64(successfulRuns) / float64(iters),
		MeanTimeMs:     float64(mean.Microseconds()) / 1000.0,
		MedianTimeMs:   float64(median.Microseconds()) / 1000.0,
		MinTimeMs:      float64(min.Microseconds()) / 1000.0,
		MaxTimeMs:      float64(max.Microseconds()) / 1000.0,
	}
}
