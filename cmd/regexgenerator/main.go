package main

import (
	"fmt"
	"time"

	regexgenerator "github.com/Paulchenkiller/regexgenerator"
	"github.com/Paulchenkiller/regexgenerator/internal/runner"
	"github.com/projectdiscovery/gologger"
)

func main() {
	cliOpts := runner.ParseFlags()
	cfg := runner.LoadConfig(cliOpts)

	perfTimeout := time.Duration(cfg.PerfTimeoutSeconds * float64(time.Second))
	scorer := regexgenerator.NewMultiCriteriaScorer(cfg.ScoringMode, nil, perfTimeout)

	result, err := regexgenerator.OptimizeWithRestarts(
		cfg.OptimizeConfig(), scorer, cliOpts.Positives, cliOpts.Negatives, nil, cliOpts.Restarts,
	)
	if err != nil {
		gologger.Fatal().Msgf("regexgenerator: %v", err)
	}

	output := runner.GetOutputWriter(cliOpts.Output)
	defer runner.CloseOutput(output, cliOpts.Output)

	if cliOpts.Validate {
		validator := regexgenerator.NewValidator()
		record := validator.Validate(mustCompileIR(result.Regex), cliOpts.Positives, cliOpts.Negatives)
		if !record.IsValid {
			gologger.Warning().Msgf("synthesized pattern failed full validation (timeout=%v, warnings=%v)",
				record.TimeoutOccurred, record.PerformanceWarnings)
		}
	}

	fmt.Fprintf(output, "%s\n", result.Regex)
	gologger.Info().Msg(result.DiagnosticReport())

	if cliOpts.SaveResult != "" {
		if err := regexgenerator.SaveReport(cliOpts.SaveResult, regexgenerator.ReportOf(result)); err != nil {
			gologger.Error().Msgf("failed to save result to %v got %v", cliOpts.SaveResult, err)
		}
	}
}

// mustCompileIR wraps a final regex string back into a Node for
// re-validation purposes: the driver already proved it compiles, so the
// validator only needs something whose Serialize() reproduces it verbatim.
func mustCompileIR(regex string) regexgenerator.Node {
	return regexgenerator.RawPattern(regex)
}
