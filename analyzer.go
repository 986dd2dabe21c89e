package regexgenerator

import (
	"regexp"
	"unicode"

	"github.com/projectdiscovery/gologger"
	sliceutil "github.com/projectdiscovery/utils/slice"
)

// DomainClass is one label from the fixed domain registry in spec.md §3/§4.2.
type DomainClass string

const (
	DomainEmail        DomainClass = "email"
	DomainURL          DomainClass = "url"
	DomainPhone        DomainClass = "phone"
	DomainDateISO      DomainClass = "date_iso"
	DomainDateUS       DomainClass = "date_us"
	DomainTime         DomainClass = "time"
	DomainIPv4         DomainClass = "ipv4"
	DomainHexColor     DomainClass = "hex_color"
	DomainUUID         DomainClass = "uuid"
	DomainDigits       DomainClass = "digits"
	DomainLetters      DomainClass = "letters"
	DomainAlphanumeric DomainClass = "alphanumeric"
	DomainIdentifier   DomainClass = "identifier"
	DomainMixed        DomainClass = "mixed"
)

// domainEntry pairs a registry name with the fixed, trusted regex used to
// recognize it. These are compiled once with the standard library: unlike
// IR-derived patterns (which run through the cancellable regexp2 engine in
// engine.go), these are fixed internal constants with no catastrophic
// backtracking risk, so there's nothing for the timeout wrapper to guard.
type domainEntry struct {
	class DomainClass
	re    *regexp.Regexp
}

// domainRegistry is tried in order; the first entry every positive example
// matches wins, per spec.md §4.2 step 5.
var domainRegistry = []domainEntry{
	{DomainEmail, regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)},
	{DomainURL, regexp.MustCompile(`^https?://[a-zA-Z0-9.-]+(?:\.[a-zA-Z]{2,})?(?:/.*)?$`)},
	{DomainPhone, regexp.MustCompile(`^\+?[\d\s\-()]{7,}$`)},
	{DomainDateISO, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)},
	{DomainDateUS, regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)},
	{DomainTime, regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?(?:\s?[AaPp][Mm])?$`)},
	{DomainIPv4, regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)},
	{DomainHexColor, regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)},
	{DomainUUID, regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)},
}

// domainTemplates holds the human-readable regex text for each recognized
// domain class as reference text; nothing in the package reads it and it is
// never parsed back into IR.
// The IR itself is built directly by domainSeedBuilders below, since the
// Pattern IR has no regex-string parser — see DESIGN.md's "Sequence node"
// entry for why, and why that is deliberate rather than an oversight.
var domainTemplates = map[DomainClass]string{
	DomainEmail:        `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	DomainURL:          `https?://[A-Za-z0-9.-]+(?:\.[A-Za-z]{2,})?(?:/.*)?`,
	DomainPhone:        `\+?[0-9\s().-]{7,}`,
	DomainDateISO:      `\d{4}-\d{2}-\d{2}`,
	DomainDateUS:       `\d{1,2}/\d{1,2}/\d{4}`,
	DomainTime:         `\d{1,2}:\d{2}(?::\d{2})?(?:\s?[AaPp][Mm])?`,
	DomainIPv4:         `\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`,
	DomainHexColor:     `#[0-9a-fA-F]{6}`,
	DomainUUID:         `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	DomainDigits:       `\d+`,
	DomainLetters:      `[A-Za-z]+`,
	DomainAlphanumeric: `[A-Za-z0-9]+`,
}

// digits/lower/upper/alphaNum return the bracket-expression building blocks
// shared by several domain builders below.
func digits() Node  { return NewCharClass("", false, [2]rune{'0', '9'}) }
func lower() Node   { return NewCharClass("", false, [2]rune{'a', 'z'}) }
func upper() Node   { return NewCharClass("", false, [2]rune{'A', 'Z'}) }
func hexDig() Node  { return NewCharClass("", false, [2]rune{'0', '9'}, [2]rune{'a', 'f'}, [2]rune{'A', 'F'}) }
func alphaNum() Node {
	return NewCharClass("", false, [2]rune{'a', 'z'}, [2]rune{'A', 'Z'}, [2]rune{'0', '9'})
}

func rep(child Node, min, max int) Node { return &Quantifier{Child: child, Min: min, Max: max} }
func opt(child Node) Node               { return &Quantifier{Child: child, Min: 0, Max: 1} }
func lit(s string) Node                 { return &Literal{Text: s} }
func seq(nodes ...Node) Node            { return &Sequence{Children: nodes} }

// domainSeedBuilders constructs the canned seed IR for each recognized
// domain class directly, node by node, rather than parsing the regex text
// in domainTemplates. This mirrors the shape of those templates while
// staying inside spec.md's IR contract (every node produced here is one of
// the eight variants in ir.go, nothing is a raw string smuggled through).
var domainSeedBuilders = map[DomainClass]func() Node{
	DomainEmail: func() Node {
		localChars := NewCharClass("._%+-", false, [2]rune{'a', 'z'}, [2]rune{'A', 'Z'}, [2]rune{'0', '9'})
		hostChars := NewCharClass(".-", false, [2]rune{'a', 'z'}, [2]rune{'A', 'Z'}, [2]rune{'0', '9'})
		return seq(
			rep(localChars, 1, Infinite),
			lit("@"),
			rep(hostChars, 1, Infinite),
			lit("."),
			rep(NewCharClass("", false, [2]rune{'A', 'Z'}, [2]rune{'a', 'z'}), 2, Infinite),
		)
	},
	DomainURL: func() Node {
		hostChars := NewCharClass(".-", false, [2]rune{'a', 'z'}, [2]rune{'A', 'Z'}, [2]rune{'0', '9'})
		return seq(
			lit("http"),
			opt(lit("s")),
			lit("://"),
			rep(hostChars, 1, Infinite),
			opt(&Group{Capturing: false, Child: rep(&Wildcard{}, 0, Infinite)}),
		)
	},
	DomainPhone: func() Node {
		phoneChars := NewCharClass(" ().-", false, [2]rune{'0', '9'})
		return seq(opt(lit("+")), rep(phoneChars, 7, Infinite))
	},
	DomainDateISO: func() Node {
		return seq(rep(digits(), 4, 4), lit("-"), rep(digits(), 2, 2), lit("-"), rep(digits(), 2, 2))
	},
	DomainDateUS: func() Node {
		return seq(rep(digits(), 1, 2), lit("/"), rep(digits(), 1, 2), lit("/"), rep(digits(), 4, 4))
	},
	DomainTime: func() Node {
		ampm := NewCharClass("AaPp", false)
		return seq(
			rep(digits(), 1, 2), lit(":"), rep(digits(), 2, 2),
			opt(seq(lit(":"), rep(digits(), 2, 2))),
			opt(seq(opt(lit(" ")), ampm, NewCharClass("Mm", false))),
		)
	},
	DomainIPv4: func() Node {
		octet := rep(digits(), 1, 3)
		return seq(octet, lit("."), rep(digits(), 1, 3), lit("."), rep(digits(), 1, 3), lit("."), rep(digits(), 1, 3))
	},
	DomainHexColor: func() Node {
		return seq(lit("#"), rep(hexDig(), 6, 6))
	},
	DomainUUID: func() Node {
		return seq(
			rep(hexDig(), 8, 8), lit("-"), rep(hexDig(), 4, 4), lit("-"), rep(hexDig(), 4, 4),
			lit("-"), rep(hexDig(), 4, 4), lit("-"), rep(hexDig(), 12, 12),
		)
	},
	DomainDigits:       func() Node { return rep(digits(), 1, Infinite) },
	DomainLetters:      func() Node { return rep(NewCharClass("", false, [2]rune{'a', 'z'}, [2]rune{'A', 'Z'}), 1, Infinite) },
	DomainAlphanumeric: func() Node { return rep(alphaNum(), 1, Infinite) },
}

func seedForDomain(class DomainClass) (Node, bool) {
	if build, ok := domainSeedBuilders[class]; ok {
		return build(), true
	}
	return nil, false
}

// CharType is one of the per-position character classifications used by
// the Analyzer's majority vote (spec.md §4.2 step 4).
type CharType string

const (
	TypeDigit CharType = "digit"
	TypeLower CharType = "lower"
	TypeUpper CharType = "upper"
	TypeAlpha CharType = "alpha"
	TypePunct CharType = "punct"
	TypeSpace CharType = "space"
	TypeOther CharType = "other"
)

// charTypePriority gives the tie-break order from spec.md §3:
// digit, lower, upper, alpha, punct, space, other.
var charTypePriority = []CharType{TypeDigit, TypeLower, TypeUpper, TypeAlpha, TypePunct, TypeSpace, TypeOther}

func classifyChar(r rune) CharType {
	switch {
	case unicode.IsDigit(r):
		return TypeDigit
	case unicode.IsLower(r):
		return TypeLower
	case unicode.IsUpper(r):
		return TypeUpper
	case unicode.IsLetter(r):
		return TypeAlpha
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return TypePunct
	case unicode.IsSpace(r):
		return TypeSpace
	default:
		return TypeOther
	}
}

// AnalysisRecord is the output of analyzing a set of positive examples,
// per spec.md §3.
type AnalysisRecord struct {
	CommonLength       *int
	LengthMin          int
	LengthMax          int
	PerPositionCharset map[int]map[rune]struct{}
	CommonPrefix       string
	CommonSuffix       string
	DomainClass        DomainClass
	PerPositionType    []CharType
}

// Analyzer extracts shape/domain information from positive examples, the
// leaf-most component in the synthesis flow (spec.md §2).
type Analyzer struct{}

// NewAnalyzer returns a ready-to-use Analyzer. It carries no state of its
// own; the domain registry and templates above are package-level constants.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze runs the five-step algorithm from spec.md §4.2 over positives.
func (a *Analyzer) Analyze(positives []string) *AnalysisRecord {
	rec := &AnalysisRecord{PerPositionCharset: map[int]map[rune]struct{}{}}
	if len(positives) == 0 {
		return rec
	}

	positives = sliceutil.Dedupe(positives)

	lengths := make([]int, len(positives))
	for i, s := range positives {
		lengths[i] = len([]rune(s))
	}
	minLen, maxLen := lengths[0], lengths[0]
	allEqual := true
	for _, l := range lengths {
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
		if l != lengths[0] {
			allEqual = false
		}
	}
	rec.LengthMin, rec.LengthMax = minLen, maxLen
	if allEqual {
		common := lengths[0]
		rec.CommonLength = &common
	}

	for _, s := range positives {
		runes := []rune(s)
		for i, r := range runes {
			if rec.PerPositionCharset[i] == nil {
				rec.PerPositionCharset[i] = map[rune]struct{}{}
			}
			rec.PerPositionCharset[i][r] = struct{}{}
		}
	}

	rec.CommonPrefix = commonPrefix(positives)
	rec.CommonSuffix = commonSuffix(positives)

	rec.DomainClass = detectDomainClass(positives)
	rec.PerPositionType = perPositionType(positives, maxLen)

	gologger.Debug().Msgf("analyzer: %d examples, domain=%v, common_length=%v, length_range=(%d,%d)",
		len(positives), rec.DomainClass, rec.CommonLength, rec.LengthMin, rec.LengthMax)

	return rec
}

func commonPrefix(examples []string) string {
	if len(examples) == 0 {
		return ""
	}
	prefix := []rune(examples[0])
	for _, ex := range examples[1:] {
		r := []rune(ex)
		i := 0
		for i < len(prefix) && i < len(r) && prefix[i] == r[i] {
			i++
		}
		prefix = prefix[:i]
		if len(prefix) == 0 {
			break
		}
	}
	return string(prefix)
}

func commonSuffix(examples []string) string {
	if len(examples) == 0 {
		return ""
	}
	suffix := reverseRunes([]rune(examples[0]))
	for _, ex := range examples[1:] {
		r := reverseRunes([]rune(ex))
		i := 0
		for i < len(suffix) && i < len(r) && suffix[i] == r[i] {
			i++
		}
		suffix = suffix[:i]
		if len(suffix) == 0 {
			break
		}
	}
	return string(reverseRunes(suffix))
}

func reverseRunes(r []rune) []rune {
	out := make([]rune, len(r))
	for i, c := range r {
		out[len(r)-1-i] = c
	}
	return out
}

func detectDomainClass(positives []string) DomainClass {
	for _, entry := range domainRegistry {
		all := true
		for _, ex := range positives {
			if !entry.re.MatchString(ex) {
				all = false
				break
			}
		}
		if all {
			return entry.class
		}
	}
	return coarseClass(positives)
}

func coarseClass(positives []string) DomainClass {
	allDigit, allAlpha, allAlnum, allIdentifier := true, true, true, true
	for _, ex := range positives {
		for _, r := range ex {
			if !unicode.IsDigit(r) {
				allDigit = false
			}
			if !unicode.IsLetter(r) {
				allAlpha = false
			}
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				allAlnum = false
			}
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
				allIdentifier = false
			}
		}
	}
	switch {
	case allDigit:
		return DomainDigits
	case allAlpha:
		return DomainLetters
	case allAlnum:
		return DomainAlphanumeric
	case allIdentifier:
		return DomainIdentifier
	default:
		return DomainMixed
	}
}

func perPositionType(positives []string, maxLen int) []CharType {
	out := make([]CharType, 0, maxLen)
	for pos := 0; pos < maxLen; pos++ {
		counts := map[CharType]int{}
		for _, ex := range positives {
			runes := []rune(ex)
			if pos < len(runes) {
				counts[classifyChar(runes[pos])]++
			}
		}
		out = append(out, majorityType(counts))
	}
	return out
}

func majorityType(counts map[CharType]int) CharType {
	best := charTypePriority[len(charTypePriority)-1]
	bestCount := -1
	for _, t := range charTypePriority {
		if counts[t] > bestCount {
			bestCount = counts[t]
			best = t
		}
	}
	return best
}

// Seed builds the initial candidate IR from an AnalysisRecord, per
// spec.md §4.2's seed-generation algorithm.
func (a *Analyzer) Seed(rec *AnalysisRecord) Node {
	if seed, ok := seedForDomain(rec.DomainClass); ok {
		return seed
	}
	return a.structuralSeed(rec)
}

func (a *Analyzer) structuralSeed(rec *AnalysisRecord) Node {
	if len(rec.PerPositionType) == 0 {
		return &Literal{Text: ""}
	}

	homogeneous := true
	for _, t := range rec.PerPositionType[1:] {
		if t != rec.PerPositionType[0] {
			homogeneous = false
			break
		}
	}

	chosenType := rec.PerPositionType[0]
	if !homogeneous {
		counts := map[CharType]int{}
		for _, t := range rec.PerPositionType {
			counts[t]++
		}
		chosenType = majorityType(counts)
	}

	class := charClassForType(chosenType)

	switch {
	case rec.CommonLength != nil && *rec.CommonLength == 1:
		return class
	case rec.CommonLength != nil:
		return &Quantifier{Child: class, Min: *rec.CommonLength, Max: *rec.CommonLength}
	case homogeneous:
		return &Quantifier{Child: class, Min: rec.LengthMin, Max: rec.LengthMax}
	default:
		return &Quantifier{Child: class, Min: 1, Max: Infinite}
	}
}

func charClassForType(t CharType) Node {
	switch t {
	case TypeDigit:
		return NewCharClass("", false, [2]rune{'0', '9'})
	case TypeLower:
		return NewCharClass("", false, [2]rune{'a', 'z'})
	case TypeUpper:
		return NewCharClass("", false, [2]rune{'A', 'Z'})
	case TypeAlpha:
		return NewCharClass("", false, [2]rune{'a', 'z'}, [2]rune{'A', 'Z'})
	default:
		return &Wildcard{}
	}
}

// SuggestImprovements ports PatternAnalyzer.suggest_improvements from the
// Python original: when the example lengths vary, it proposes a
// length-quantified variant of the current pattern alongside the domain
// template, capped at three suggestions.
func (a *Analyzer) SuggestImprovements(current Node, rec *AnalysisRecord) []Node {
	var suggestions []Node
	if seed, ok := seedForDomain(rec.DomainClass); ok {
		suggestions = append(suggestions, seed)
	}
	if rec.LengthMin != rec.LengthMax && rec.LengthMin > 0 {
		suggestions = append(suggestions, &Quantifier{
			Child: current.Clone(),
			Min:   rec.LengthMin,
			Max:   rec.LengthMax,
		})
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}
