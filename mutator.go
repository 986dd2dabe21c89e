package regexgenerator

import (
	"math/rand"

	errorutil "github.com/projectdiscovery/utils/errors"
)

// DefaultMutationRate is the per-node mutation probability used by mutate
// when the caller doesn't override it, per spec.md §4.3.
const DefaultMutationRate = 0.15

// mutationOperator is one of the seven node-replacement rules from
// spec.md §4.3. canApply guards whether apply may run on a given node.
type mutationOperator struct {
	name     string
	canApply func(n Node) bool
	apply    func(rng *rand.Rand, n Node) Node
}

// Mutator applies the operator set to cloned IR trees. It carries no state
// beyond its RNG; MutationRate is the per-node selection probability and
// MaxComplexity bounds which candidates Mutate accepts.
type Mutator struct {
	rng           *rand.Rand
	MutationRate  float64
	MaxComplexity int
	operators     []mutationOperator
}

// NewMutator returns a Mutator seeded deterministically from seed, so runs
// are reproducible given the same seed (spec.md §8's seed-42 scenarios).
func NewMutator(seed int64, maxComplexity int) *Mutator {
	m := &Mutator{
		rng:           rand.New(rand.NewSource(seed)),
		MutationRate:  DefaultMutationRate,
		MaxComplexity: maxComplexity,
	}
	m.operators = []mutationOperator{
		m.literalToCharClass(),
		m.charClassToRange(),
		m.addQuantifier(),
		m.modifyQuantifier(),
		m.grouping(),
		m.alternation(),
		m.wildcard(),
	}
	return m
}

func (m *Mutator) literalToCharClass() mutationOperator {
	return mutationOperator{
		name: "literal_to_char_class",
		canApply: func(n Node) bool {
			l, ok := n.(*Literal)
			return ok && len([]rune(l.Text)) == 1 && isAlphaNumRune([]rune(l.Text)[0])
		},
		apply: func(rng *rand.Rand, n Node) Node {
			r := []rune(n.(*Literal).Text)[0]
			switch {
			case r >= 'a' && r <= 'z':
				return NewCharClass("", false, [2]rune{'a', 'z'})
			case r >= 'A' && r <= 'Z':
				return NewCharClass("", false, [2]rune{'A', 'Z'})
			default:
				return NewCharClass("", false, [2]rune{'0', '9'})
			}
		},
	}
}

func isAlphaNumRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (m *Mutator) charClassToRange() mutationOperator {
	return mutationOperator{
		name: "char_class_to_range",
		canApply: func(n Node) bool {
			c, ok := n.(*CharClass)
			return ok && len(c.Chars) >= 3
		},
		apply: func(rng *rand.Rand, n Node) Node {
			c := n.(*CharClass)
			chars := c.sortedChars()
			remaining := map[rune]struct{}{}
			for r := range c.Chars {
				remaining[r] = struct{}{}
			}
			ranges := append([][2]rune{}, c.Ranges...)

			i := 0
			for i < len(chars) {
				j := i + 1
				for j < len(chars) && chars[j] == chars[j-1]+1 {
					j++
				}
				if j-i >= 3 {
					ranges = append(ranges, [2]rune{chars[i], chars[j-1]})
					for k := i; k < j; k++ {
						delete(remaining, chars[k])
					}
				}
				if j > i+1 {
					i = j
				} else {
					i++
				}
			}
			return &CharClass{Chars: remaining, Ranges: ranges, Negated: c.Negated}
		},
	}
}

var quantifierChoices = [][2]int{{0, 1}, {0, Infinite}, {1, Infinite}, {2, 4}, {1, 3}}

func (m *Mutator) addQuantifier() mutationOperator {
	return mutationOperator{
		name: "add_quantifier",
		canApply: func(n Node) bool {
			switch n.(type) {
			case *Quantifier, *Anchor:
				return false
			default:
				return true
			}
		},
		apply: func(rng *rand.Rand, n Node) Node {
			choice := quantifierChoices[rng.Intn(len(quantifierChoices))]
			return &Quantifier{Child: n.Clone(), Min: choice[0], Max: choice[1]}
		},
	}
}

func (m *Mutator) modifyQuantifier() mutationOperator {
	return mutationOperator{
		name: "modify_quantifier",
		canApply: func(n Node) bool {
			_, ok := n.(*Quantifier)
			return ok
		},
		apply: func(rng *rand.Rand, n Node) Node {
			q := n.(*Quantifier)
			if rng.Intn(2) == 0 {
				delta := []int{-1, 0, 1}[rng.Intn(3)]
				newMin := q.Min + delta
				if newMin < 0 {
					newMin = 0
				}
				var newMax int
				if q.Max == Infinite {
					if rng.Float64() < 0.7 {
						newMax = Infinite
					} else {
						newMax = newMin + 1 + rng.Intn(5)
					}
				} else {
					maxDelta := []int{-1, 0, 1}[rng.Intn(3)]
					newMax = q.Max + maxDelta
					if newMax < newMin {
						newMax = newMin
					}
					if newMax == newMin && rng.Float64() < 0.3 {
						newMax = Infinite
					}
				}
				return &Quantifier{Child: q.Child.Clone(), Min: newMin, Max: newMax, Lazy: q.Lazy}
			}
			return &Quantifier{Child: q.Child.Clone(), Min: q.Min, Max: q.Max, Lazy: !q.Lazy}
		},
	}
}

func (m *Mutator) grouping() mutationOperator {
	return mutationOperator{
		name:     "grouping",
		canApply: func(n Node) bool { return true },
		apply: func(rng *rand.Rand, n Node) Node {
			if g, ok := n.(*Group); ok {
				return g.Child.Clone()
			}
			return &Group{Child: n.Clone(), Capturing: rng.Intn(2) == 0}
		},
	}
}

func (m *Mutator) alternation() mutationOperator {
	return mutationOperator{
		name:     "alternation",
		canApply: func(n Node) bool { return true },
		apply: func(rng *rand.Rand, n Node) Node {
			if alt, ok := n.(*Alternation); ok {
				if len(alt.Alts) > 1 && rng.Float64() < 0.3 {
					drop := rng.Intn(len(alt.Alts))
					kept := make([]Node, 0, len(alt.Alts)-1)
					for i, a := range alt.Alts {
						if i != drop {
							kept = append(kept, a.Clone())
						}
					}
					return &Alternation{Alts: kept}
				}
				newAlts := make([]Node, len(alt.Alts))
				for i, a := range alt.Alts {
					newAlts[i] = a.Clone()
				}
				newAlts = append(newAlts, similarNode(rng, alt.Alts[0]))
				return &Alternation{Alts: newAlts}
			}
			return &Alternation{Alts: []Node{n.Clone(), similarNode(rng, n)}}
		},
	}
}

// similarNode ports PatternMutator._generate_similar_pattern: a node that
// resembles n closely enough to be a plausible alternative.
func similarNode(rng *rand.Rand, n Node) Node {
	switch v := n.(type) {
	case *Literal:
		r := []rune(v.Text)
		if len(r) == 0 {
			return &Literal{Text: ""}
		}
		switch {
		case isAlphaRune(r[0]):
			return &Literal{Text: string(randomAsciiLetter(rng))}
		case r[0] >= '0' && r[0] <= '9':
			return &Literal{Text: string(rune('0' + rng.Intn(10)))}
		default:
			return &Literal{Text: string(randomPrintable(rng))}
		}
	case *CharClass:
		chars := v.sortedChars()
		n := len(chars)
		if n > 3 {
			n = 3
		}
		kept := map[rune]struct{}{}
		for _, i := range rng.Perm(len(chars))[:n] {
			kept[chars[i]] = struct{}{}
		}
		kept[randomAsciiLetter(rng)] = struct{}{}
		return &CharClass{Chars: kept}
	default:
		return &Literal{Text: string(randomAsciiLetter(rng))}
	}
}

func isAlphaRune(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

func randomAsciiLetter(rng *rand.Rand) rune {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return rune(letters[rng.Intn(len(letters))])
}

func randomPrintable(rng *rand.Rand) rune {
	const printable = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	return rune(printable[rng.Intn(len(printable))])
}

func (m *Mutator) wildcard() mutationOperator {
	return mutationOperator{
		name: "wildcard",
		canApply: func(n Node) bool {
			switch n.(type) {
			case *Wildcard, *CharClass, *Literal:
				return true
			default:
				return false
			}
		},
		apply: func(rng *rand.Rand, n Node) Node {
			switch v := n.(type) {
			case *Wildcard:
				presets := []func() Node{
					func() Node { return NewCharClass("", false, [2]rune{'a', 'z'}) },
					func() Node { return NewCharClass("", false, [2]rune{'A', 'Z'}) },
					func() Node { return NewCharClass("", false, [2]rune{'0', '9'}) },
					func() Node { return NewCharClass("", false, [2]rune{'a', 'z'}, [2]rune{'A', 'Z'}) },
					func() Node { return NewCharClass("", false, [2]rune{'a', 'z'}, [2]rune{'A', 'Z'}, [2]rune{'0', '9'}) },
				}
				return presets[rng.Intn(len(presets))]()
			case *CharClass:
				if rng.Float64() < 0.2 {
					return &Wildcard{}
				}
				return v.Clone()
			default:
				return &Wildcard{}
			}
		},
	}
}

// mutate rebuilds root bottom-up (post-order), independently selecting each
// node for mutation at MutationRate, and splices each selected node's
// replacement into a cloned copy of the tree (spec.md §4.3). Post-order
// reconstruction means a node's replacement operator sees its
// already-mutated children.
func (m *Mutator) mutate(root Node) Node {
	return m.rebuild(root)
}

func (m *Mutator) rebuild(n Node) Node {
	var rebuilt Node
	switch v := n.(type) {
	case *Quantifier:
		rebuilt = &Quantifier{Child: m.rebuild(v.Child), Min: v.Min, Max: v.Max, Lazy: v.Lazy}
	case *Group:
		rebuilt = &Group{Child: m.rebuild(v.Child), Capturing: v.Capturing, Name: v.Name}
	case *Alternation:
		alts := make([]Node, len(v.Alts))
		for i, a := range v.Alts {
			alts[i] = m.rebuild(a)
		}
		rebuilt = &Alternation{Alts: alts}
	case *Sequence:
		children := make([]Node, len(v.Children))
		for i, c := range v.Children {
			children[i] = m.rebuild(c)
		}
		rebuilt = &Sequence{Children: children}
	default:
		rebuilt = n.Clone()
	}

	if m.rng.Float64() >= m.MutationRate {
		return rebuilt
	}

	var applicable []mutationOperator
	for _, op := range m.operators {
		if op.canApply(rebuilt) {
			applicable = append(applicable, op)
		}
	}
	if len(applicable) == 0 {
		return rebuilt
	}
	chosen := applicable[m.rng.Intn(len(applicable))]
	return chosen.apply(m.rng, rebuilt)
}

// Mutate returns a mutated clone of root. If the result violates the §3
// invariants or exceeds MaxComplexity, it returns the original root and ok
// is false — the driver treats this as a rejected candidate, never scored.
func (m *Mutator) Mutate(root Node) (mutated Node, ok bool) {
	candidate := m.mutate(root)
	if err := validateInvariants(candidate); err != nil {
		return root, false
	}
	if m.MaxComplexity > 0 && candidate.Complexity() > m.MaxComplexity {
		return root, false
	}
	return candidate, true
}

// validateInvariants enforces the structural invariants from spec.md §3:
// no empty CharClass, no Quantifier with Max < Min (unless Max is
// Infinite), no empty Alternation/Sequence.
func validateInvariants(n Node) error {
	for _, node := range CollectNodes(n) {
		switch v := node.(type) {
		case *CharClass:
			if v.IsEmpty() {
				return errorutil.NewWithTag("regexgenerator", "empty character class is not a valid pattern")
			}
		case *Quantifier:
			if v.Max != Infinite && v.Max < v.Min {
				return errorutil.NewWithTag("regexgenerator", "quantifier max below min")
			}
		case *Alternation:
			if len(v.Alts) == 0 {
				return errorutil.NewWithTag("regexgenerator", "alternation with no alternatives")
			}
		case *Sequence:
			if len(v.Children) == 0 {
				return errorutil.NewWithTag("regexgenerator", "sequence with no children")
			}
		}
	}
	return nil
}

// RandomPattern generates a pattern from scratch within a complexity
// budget, optionally blended with an Analyzer seed derived from examples
// (spec.md §4.3's random_pattern).
func (m *Mutator) RandomPattern(budget int, examples []string) Node {
	if len(examples) > 0 {
		seed := NewAnalyzer().Seed(NewAnalyzer().Analyze(examples))
		node := seed
		perturbations := 1 + m.rng.Intn(3)
		for i := 0; i < perturbations; i++ {
			if mutated, ok := m.Mutate(node); ok {
				node = mutated
			}
		}
		return node
	}
	return m.randomNode(budget)
}

func (m *Mutator) randomNode(budget int) Node {
	if budget <= 1 {
		switch m.rng.Intn(3) {
		case 0:
			return &Literal{Text: string(randomAsciiOrDigit(m.rng))}
		case 1:
			chars := randomLowerSubset(m.rng)
			return &CharClass{Chars: chars}
		default:
			return &Wildcard{}
		}
	}

	switch m.rng.Intn(4) {
	case 0:
		child := m.randomNode(budget - 2)
		min := m.rng.Intn(4)
		max := Infinite
		if m.rng.Float64() >= 0.3 {
			max = min + m.rng.Intn(6)
			if max < min {
				max = min
			}
		}
		return &Quantifier{Child: child, Min: min, Max: max}
	case 1:
		child := m.randomNode(budget - 2)
		return &Group{Child: child, Capturing: m.rng.Intn(2) == 0}
	case 2:
		maxAlts := budget / 2
		if maxAlts < 2 {
			maxAlts = 2
		}
		if maxAlts > 4 {
			maxAlts = 4
		}
		numAlts := 2
		if maxAlts > 2 {
			numAlts = 2 + m.rng.Intn(maxAlts-1)
		}
		altBudget := (budget - 1) / numAlts
		if altBudget < 1 {
			altBudget = 1
		}
		alts := make([]Node, numAlts)
		for i := range alts {
			alts[i] = m.randomNode(altBudget)
		}
		return &Alternation{Alts: alts}
	default:
		return m.randomNode(1)
	}
}

func randomAsciiOrDigit(rng *rand.Rand) rune {
	const pool = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	return rune(pool[rng.Intn(len(pool))])
}

func randomLowerSubset(rng *rand.Rand) map[rune]struct{} {
	const lower = "abcdefghijklmnopqrstuvwxyz"
	n := 2 + rng.Intn(4)
	out := map[rune]struct{}{}
	for len(out) < n {
		out[rune(lower[rng.Intn(len(lower))])] = struct{}{}
	}
	return out
}

