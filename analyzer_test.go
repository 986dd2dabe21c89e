package regexgenerator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmptyInputReturnsZeroRecord(t *testing.T) {
	rec := NewAnalyzer().Analyze(nil)
	require.Nil(t, rec.CommonLength)
	require.Equal(t, 0, rec.LengthMin)
}

func TestAnalyzeDetectsCommonLengthAndPrefixSuffix(t *testing.T) {
	rec := NewAnalyzer().Analyze([]string{"ID001", "ID002", "ID003"})
	require.NotNil(t, rec.CommonLength)
	require.Equal(t, 5, *rec.CommonLength)
	require.Equal(t, "ID00", rec.CommonPrefix)
	require.Equal(t, "", rec.CommonSuffix)
}

func TestAnalyzeVariableLengthHasNoCommonLength(t *testing.T) {
	rec := NewAnalyzer().Analyze([]string{"a", "ab", "abc"})
	require.Nil(t, rec.CommonLength)
	require.Equal(t, 1, rec.LengthMin)
	require.Equal(t, 3, rec.LengthMax)
}

func TestDetectDomainClassEmail(t *testing.T) {
	rec := NewAnalyzer().Analyze([]string{"alice@example.com", "bob@test.org"})
	require.Equal(t, DomainEmail, rec.DomainClass)
}

func TestDetectDomainClassIPv4(t *testing.T) {
	rec := NewAnalyzer().Analyze([]string{"192.168.1.1", "10.0.0.255"})
	require.Equal(t, DomainIPv4, rec.DomainClass)
}

func TestDetectDomainClassFallsBackToCoarseClass(t *testing.T) {
	rec := NewAnalyzer().Analyze([]string{"abc123", "xyz789"})
	require.Equal(t, DomainAlphanumeric, rec.DomainClass)
}

func TestDetectDomainClassMixedWhenNothingFits(t *testing.T) {
	rec := NewAnalyzer().Analyze([]string{"a b!", "c,d?"})
	require.Equal(t, DomainMixed, rec.DomainClass)
}

func TestSeedUsesDomainSeedBuilderForEmail(t *testing.T) {
	a := NewAnalyzer()
	rec := a.Analyze([]string{"alice@example.com"})
	seed := a.Seed(rec)
	compiled, err := Compile(seed.Serialize())
	require.NoError(t, err)
	matched, _ := compiled.FullMatch("alice@example.com", 0)
	require.True(t, matched)
}

func TestSeedFallsBackToStructuralSeedForIdentifierDomain(t *testing.T) {
	a := NewAnalyzer()
	rec := a.Analyze([]string{"foo.bar_baz", "qux.quux_zzz"})
	require.Equal(t, DomainIdentifier, rec.DomainClass)
	_, hasBuilder := seedForDomain(rec.DomainClass)
	require.False(t, hasBuilder)
	seed := a.Seed(rec)
	require.NotNil(t, seed)
}

func TestStructuralSeedFixedLengthProducesBoundedQuantifier(t *testing.T) {
	a := NewAnalyzer()
	rec := a.Analyze([]string{"abc", "def", "ghi"})
	seed := a.structuralSeed(rec)
	q, ok := seed.(*Quantifier)
	require.True(t, ok)
	require.Equal(t, 3, q.Min)
	require.Equal(t, 3, q.Max)
}

func TestStructuralSeedSingleCharCollapsesToCharClass(t *testing.T) {
	a := NewAnalyzer()
	rec := a.Analyze([]string{"a", "b", "c"})
	seed := a.structuralSeed(rec)
	_, isQuantifier := seed.(*Quantifier)
	require.False(t, isQuantifier)
}

func TestSuggestImprovementsCapsAtThree(t *testing.T) {
	a := NewAnalyzer()
	rec := a.Analyze([]string{"alice@example.com", "a@b.com", "longname@example.org"})
	suggestions := a.SuggestImprovements(&Literal{Text: "x"}, rec)
	require.LessOrEqual(t, len(suggestions), 3)
}

func TestMajorityTypeTieBreaksByPriority(t *testing.T) {
	counts := map[CharType]int{TypeDigit: 1, TypeLower: 1}
	require.Equal(t, TypeDigit, majorityType(counts))
}
