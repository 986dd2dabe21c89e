package regexgenerator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteralSerializeEscapesMetachars(t *testing.T) {
	l := &Literal{Text: "a.b*c"}
	require.Equal(t, `a\.b\*c`, l.Serialize())
	require.Equal(t, 5, l.Complexity())
}

func TestCharClassSerialize(t *testing.T) {
	cc := NewCharClass("ab", false, [2]rune{'0', '9'})
	require.Equal(t, "[ab0-9]", cc.Serialize())
}

func TestCharClassEscapesSpecialRunes(t *testing.T) {
	cc := NewCharClass("]-^\\", false)
	serialized := cc.Serialize()
	require.Contains(t, serialized, `\]`)
	require.Contains(t, serialized, `\\`)
}

func TestCharClassIsEmpty(t *testing.T) {
	empty := &CharClass{Chars: map[rune]struct{}{}}
	require.True(t, empty.IsEmpty())
	nonEmpty := NewCharClass("a", false)
	require.False(t, nonEmpty.IsEmpty())
}

func TestQuantifierSuffixes(t *testing.T) {
	cases := []struct {
		min, max int
		lazy     bool
		want     string
	}{
		{0, 1, false, "?"},
		{0, Infinite, false, "*"},
		{1, Infinite, false, "+"},
		{2, 4, false, "{2,4}"},
		{3, 3, false, "{3}"},
		{1, 1, false, ""},
		{1, Infinite, true, "+?"},
	}
	for _, c := range cases {
		q := &Quantifier{Child: &Literal{Text: "a"}, Min: c.min, Max: c.max, Lazy: c.lazy}
		require.Equal(t, "a"+c.want, q.Serialize())
	}
}

func TestQuantifierWrapsMultiRuneLiteral(t *testing.T) {
	q := &Quantifier{Child: &Literal{Text: "ab"}, Min: 1, Max: Infinite}
	require.Equal(t, `(?:ab)+`, q.Serialize())
}

func TestQuantifierWrapsAlternationAndNestedQuantifier(t *testing.T) {
	alt := &Quantifier{Child: &Alternation{Alts: []Node{&Literal{Text: "a"}, &Literal{Text: "b"}}}, Min: 0, Max: 1}
	require.Equal(t, `(?:a|b)?`, alt.Serialize())

	nested := &Quantifier{Child: &Quantifier{Child: &Wildcard{}, Min: 0, Max: Infinite}, Min: 1, Max: Infinite}
	require.Equal(t, `(?:.*)+`, nested.Serialize())
}

func TestGroupVariants(t *testing.T) {
	child := &Literal{Text: "x"}
	require.Equal(t, "(?:x)", (&Group{Child: child, Capturing: false}).Serialize())
	require.Equal(t, "(x)", (&Group{Child: child, Capturing: true}).Serialize())
	require.Equal(t, "(?P<name>x)", (&Group{Child: child, Capturing: true, Name: "name"}).Serialize())
}

func TestAlternationSerializeAndComplexity(t *testing.T) {
	alt := &Alternation{Alts: []Node{&Literal{Text: "a"}, &Literal{Text: "bb"}}}
	require.Equal(t, `a|bb`, alt.Serialize())
	require.Equal(t, 1+1+2, alt.Complexity())
}

func TestSequenceSerializeWrapsAlternationChild(t *testing.T) {
	seq := &Sequence{Children: []Node{
		&Literal{Text: "a"},
		&Alternation{Alts: []Node{&Literal{Text: "b"}, &Literal{Text: "c"}}},
		&Literal{Text: "d"},
	}}
	require.Equal(t, `a(?:b|c)d`, seq.Serialize())
	require.Equal(t, 1+(1+1+1)+1, seq.Complexity())
}

func TestCloneRoundTrip(t *testing.T) {
	original := &Quantifier{
		Child: &Group{Child: &Sequence{Children: []Node{
			&Literal{Text: "ab"},
			NewCharClass("xyz", true, [2]rune{'0', '9'}),
		}}, Capturing: true},
		Min: 1, Max: 3,
	}
	clone := original.Clone()
	require.Equal(t, original.Serialize(), clone.Serialize())
	require.Equal(t, original.Complexity(), clone.Complexity())

	// mutating the clone's nested CharClass must not affect the original
	clonedSeq := clone.(*Quantifier).Child.(*Group).Child.(*Sequence)
	clonedClass := clonedSeq.Children[1].(*CharClass)
	clonedClass.Chars['q'] = struct{}{}
	require.NotEqual(t, original.Serialize(), clone.Serialize())
}

func TestCollectNodesPreOrderIncludesSequenceAndAlternation(t *testing.T) {
	root := &Sequence{Children: []Node{
		&Literal{Text: "a"},
		&Alternation{Alts: []Node{&Wildcard{}, &Anchor{Kind: AnchorStart}}},
	}}
	nodes := CollectNodes(root)
	require.Len(t, nodes, 5)
	require.IsType(t, &Sequence{}, nodes[0])
	require.IsType(t, &Literal{}, nodes[1])
	require.IsType(t, &Alternation{}, nodes[2])
	require.IsType(t, &Wildcard{}, nodes[3])
	require.IsType(t, &Anchor{}, nodes[4])
}

func TestRawPatternNode(t *testing.T) {
	raw := RawPattern(`\d{3}-\d{4}`)
	require.Equal(t, `\d{3}-\d{4}`, raw.Serialize())
	clone := raw.Clone()
	require.Equal(t, raw.Serialize(), clone.Serialize())
}
