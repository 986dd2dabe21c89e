package regexgenerator

import (
	"errors"
	"math"
	"time"

	"github.com/dlclark/regexp2"
)

// CompiledPattern is the compiled form of a serialized IR, used by the
// fitness evaluator and validator to run cancellable matches against
// example strings. It is the "platform-provided library with a
// timeout-capable wrapper" boundary from spec.md §6: regexp2 is a
// backtracking engine (unlike Go's stdlib RE2-based regexp) so it can
// genuinely exhibit the catastrophic-backtracking behavior the validator's
// safety analysis and the driver's timeout handling are built to survive.
type CompiledPattern struct {
	source string
	full   *regexp2.Regexp // ^(?:pattern)$ — used for full-anchored matching
	search *regexp2.Regexp // pattern as-is — used for unanchored search probes
}

// CompileError wraps a regexp2 compile failure with the offending source,
// matching the FitnessResult.compile_error / ValidationRecord contract in
// spec.md §3/§4.4 (compile failure is never fatal to the caller).
type CompileError struct {
	Source string
	Err    error
}

func (e *CompileError) Error() string { return e.Err.Error() }
func (e *CompileError) Unwrap() error { return e.Err }

// Compile compiles a serialized regex for both full-anchored and
// unanchored use. Per spec.md §3 invariant 4, a pattern that fails to
// compile here is treated by callers as minimum fitness, not a fatal error.
func Compile(source string) (*CompiledPattern, error) {
	full, err := regexp2.Compile("^(?:"+source+")$", regexp2.None)
	if err != nil {
		return nil, &CompileError{Source: source, Err: err}
	}
	search, err := regexp2.Compile(source, regexp2.None)
	if err != nil {
		return nil, &CompileError{Source: source, Err: err}
	}
	return &CompiledPattern{source: source, full: full, search: search}, nil
}

// ErrMatchTimeout is returned (wrapped) by FullMatch/Search when the
// underlying engine aborts a match after its cancellable deadline, the
// "no further CPU spent on that attempt" contract from spec.md §5.
var ErrMatchTimeout = errors.New("regexgenerator: match exceeded deadline")

// FullMatch reports whether s matches the pattern in its entirety within
// timeout. A zero or negative timeout is treated as unbounded.
func (c *CompiledPattern) FullMatch(s string, timeout time.Duration) (matched bool, timedOut bool) {
	return runWithDeadline(c.full, s, timeout)
}

// Search reports whether the pattern matches anywhere within s within
// timeout (used only for the performance probe in spec.md §4.4 step 5,
// never for correctness).
func (c *CompiledPattern) Search(s string, timeout time.Duration) (matched bool, timedOut bool) {
	return runWithDeadline(c.search, s, timeout)
}

func runWithDeadline(re *regexp2.Regexp, s string, timeout time.Duration) (matched bool, timedOut bool) {
	if timeout > 0 {
		re.MatchTimeout = timeout
	} else {
		re.MatchTimeout = time.Duration(math.MaxInt64)
	}
	m, err := re.MatchString(s)
	if err != nil {
		if errors.Is(err, regexp2.ErrTimeout) {
			return false, true
		}
		return false, false
	}
	return m, false
}
