package regexgenerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func digitSeq(min, max int) Node {
	return &Quantifier{Child: NewCharClass("", false, [2]rune{'0', '9'}), Min: min, Max: max}
}

func TestOptimizeReturnsErrorWithoutPositives(t *testing.T) {
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)
	driver := NewDriver(OptimizeConfig{}, scorer)
	_, err := driver.Optimize(nil, nil, nil)
	require.ErrorIs(t, err, ErrNoPositives)
}

func TestOptimizeReturnsErrorOnBadTemperatures(t *testing.T) {
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)
	config := OptimizeConfig{InitialTemperature: 1, FinalTemperature: 5}
	driver := NewDriver(config, scorer)
	_, err := driver.Optimize([]string{"a"}, nil, nil)
	require.ErrorIs(t, err, ErrBadTemperatures)
}

func TestOptimizeFindsPerfectMatchWhenSeededFromTheAnswer(t *testing.T) {
	seed := int64(42)
	config := OptimizeConfig{
		MaxIterations: 500,
		RandomSeed:    &seed,
		MaxComplexity: 30,
	}
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)
	driver := NewDriver(config, scorer)

	result, err := driver.Optimize([]string{"123", "456", "789"}, []string{"abc"}, digitSeq(3, 3))
	require.NoError(t, err)
	require.Equal(t, 3, result.PosMatched)
	require.Equal(t, 1, result.NegRejected)
	require.Greater(t, result.Score, 0.9)
}

func TestOptimizeIsDeterministicForSameSeed(t *testing.T) {
	seed := int64(7)
	config := OptimizeConfig{MaxIterations: 200, RandomSeed: &seed, MaxComplexity: 30}
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)

	r1, err1 := NewDriver(config, scorer).Optimize([]string{"abc", "def"}, []string{"123"}, nil)
	r2, err2 := NewDriver(config, scorer).Optimize([]string{"abc", "def"}, []string{"123"}, nil)
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, r1.Regex, r2.Regex)
	require.Equal(t, r1.Score, r2.Score)
	require.Equal(t, r1.Iterations, r2.Iterations)
}

func TestOptimizeResultStatsReportAcceptanceRejectionCounters(t *testing.T) {
	seed := int64(5)
	config := OptimizeConfig{MaxIterations: 100, RandomSeed: &seed, MaxComplexity: 30}
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)
	driver := NewDriver(config, scorer)

	result, err := driver.Optimize([]string{"abc"}, nil, nil)
	require.NoError(t, err)
	stats := result.Stats()
	require.Equal(t, stats["accepted"]+stats["rejected"], float64(result.Iterations))
}

func TestOptimizeHistoriesGrowOnePerIteration(t *testing.T) {
	seed := int64(21)
	config := OptimizeConfig{MaxIterations: 50, RandomSeed: &seed, MaxComplexity: 30}
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)
	driver := NewDriver(config, scorer)

	result, err := driver.Optimize([]string{"abc"}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, result.Iterations, len(result.TemperatureHistory()))
	require.Equal(t, result.Iterations, len(result.FitnessHistory()))
}

func TestOptimizeStopsOnTimeout(t *testing.T) {
	seed := int64(3)
	timeout := 0.001
	config := OptimizeConfig{MaxIterations: 1_000_000, RandomSeed: &seed, MaxComplexity: 30, TimeoutSeconds: &timeout}
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)
	driver := NewDriver(config, scorer)

	result, err := driver.Optimize([]string{"abc"}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, ReasonTimeout, result.ConvergenceReason)
}

func TestOptimizeWithRestartsSuffixesWinningReason(t *testing.T) {
	seed := int64(42)
	config := OptimizeConfig{MaxIterations: 200, RandomSeed: &seed, MaxComplexity: 30}
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)

	result, err := OptimizeWithRestarts(config, scorer, []string{"123", "456"}, []string{"abc"}, digitSeq(3, 3), 3)
	require.NoError(t, err)
	require.Contains(t, string(result.ConvergenceReason), "_restart")
}

func TestResultDiagnosticReportContainsRunIDAndRegex(t *testing.T) {
	seed := int64(2)
	config := OptimizeConfig{MaxIterations: 50, RandomSeed: &seed, MaxComplexity: 30}
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)
	driver := NewDriver(config, scorer)

	result, err := driver.Optimize([]string{"abc"}, nil, nil)
	require.NoError(t, err)
	report := result.DiagnosticReport()
	require.Contains(t, report, result.RunID.String())
	require.Contains(t, report, result.Regex)
}

func TestDriverScoreCacheReturnsConsistentResultForRepeatedCandidate(t *testing.T) {
	scorer := NewMultiCriteriaScorer(ScoringBalanced, nil, time.Second)
	driver := NewDriver(OptimizeConfig{}.WithDefaults(), scorer)

	ir := digitSeq(3, 3)
	first := driver.score(ir, []string{"123"}, []string{"abc"})
	require.Equal(t, 1, driver.cache.Len())
	second := driver.score(ir, []string{"123"}, []string{"abc"})
	require.Equal(t, first, second)
	require.Equal(t, 1, driver.cache.Len())
	hits, _ := driver.cache.Stats()
	require.Equal(t, 1, hits)
}
