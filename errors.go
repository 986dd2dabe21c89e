package regexgenerator

import errorutil "github.com/projectdiscovery/utils/errors"

// Precondition failures are the only errors the library surfaces to the
// caller (spec.md §7); everything else is recovered internally and folded
// into FitnessResult/ValidationRecord fields instead.
var (
	ErrNoPositives     = errorutil.NewWithTag("regexgenerator", "at least one positive example is required")
	ErrBadTemperatures = errorutil.NewWithTag("regexgenerator", "final_temperature must be less than initial_temperature")
)
