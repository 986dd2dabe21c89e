package runner

import (
	"io"
	"os"
	"strings"

	regexgenerator "github.com/Paulchenkiller/regexgenerator"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	fileutil "github.com/projectdiscovery/utils/file"
	updateutils "github.com/projectdiscovery/utils/update"
)

// Options is the CLI's recognized flag set, the out-of-scope collaborator
// from spec.md §1/§6 that reads positives/negatives, loads a Config, and
// calls into the library's Optimize/OptimizeWithRestarts/Validate surface.
type Options struct {
	Positives          goflags.StringSlice
	Negatives          goflags.StringSlice
	Output             string
	SaveResult         string
	Config             string
	Restarts           int
	Validate           bool
	DisableUpdateCheck bool
	Verbose            bool
	Silent             bool
}

// ParseFlags parses os.Args into Options, the same goflags-grouped shape
// the teacher's runner.go uses.
func ParseFlags() *Options {
	opts := &Options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`Synthesizes a regex pattern from positive/negative examples using simulated annealing.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringSliceVarP(&opts.Positives, "pos", "p", nil, "positive example strings the pattern must match (comma-separated, file)", goflags.FileCommaSeparatedStringSliceOptions),
		flagSet.StringSliceVarP(&opts.Negatives, "neg", "n", nil, "negative example strings the pattern must reject (comma-separated, file)", goflags.FileCommaSeparatedStringSliceOptions),
	)

	flagSet.CreateGroup("search", "Search",
		flagSet.IntVarP(&opts.Restarts, "restarts", "k", 1, "number of independent restarts (highest-scoring run wins)"),
		flagSet.BoolVarP(&opts.Validate, "validate", "vl", false, "run the full validator against the result before printing"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.Output, "output", "o", "", "output file to write the synthesized regex"),
		flagSet.StringVar(&opts.SaveResult, "save-result", "", "persist the full Result record as YAML to this path"),
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display verbose output"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "display the regex only"),
		flagSet.CallbackVar(printVersion, "version", "display regexgenerator version"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&opts.Config, "config", "", `run config file (default '$HOME/.config/regexgenerator/config.yaml')`),
	)

	flagSet.CreateGroup("update", "Update",
		flagSet.CallbackVarP(GetUpdateCallback(), "update", "up", "update regexgenerator to latest version"),
		flagSet.BoolVarP(&opts.DisableUpdateCheck, "disable-update-check", "duc", false, "disable automatic update check"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not read flags: %s\n", err)
	}

	if opts.Config != "" {
		if err := flagSet.MergeConfigFile(opts.Config); err != nil {
			gologger.Error().Msgf("failed to read config file got %v", err)
		}
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if !opts.Silent {
		showBanner()
	}

	if !opts.DisableUpdateCheck {
		latestVersion, err := updateutils.GetVersionCheckCallback("regexgenerator")()
		if err != nil {
			if opts.Verbose {
				gologger.Error().Msgf("regexgenerator version check failed: %v", err.Error())
			}
		} else {
			gologger.Info().Msgf("Current regexgenerator version %v %v", version, updateutils.GetVersionDescription(version, latestVersion))
		}
	}

	if fileutil.HasStdin() {
		bin, err := io.ReadAll(os.Stdin)
		if err != nil {
			gologger.Error().Msgf("failed to read input from stdin got %v", err)
		}
		opts.Positives = append(opts.Positives, strings.Fields(string(bin))...)
	}

	if len(opts.Positives) == 0 {
		gologger.Fatal().Msgf("regexgenerator: no positive examples found")
	}

	return opts
}

// LoadConfig loads the run Config from opts.Config, falling back to the
// library's DefaultConfig when no file is given.
func LoadConfig(opts *Options) regexgenerator.Config {
	if opts.Config == "" {
		return regexgenerator.DefaultConfig
	}
	cfg, err := regexgenerator.NewConfig(opts.Config)
	if err != nil {
		gologger.Error().Msgf("failed to parse config %v got %v, falling back to defaults", opts.Config, err)
		return regexgenerator.DefaultConfig
	}
	return *cfg
}

func printVersion() {
	gologger.Info().Msgf("Current version: %s", version)
	os.Exit(0)
}

// GetOutputWriter returns the appropriate output writer, mirroring the
// teacher's own getOutputWriter.
func GetOutputWriter(outputPath string) io.Writer {
	if outputPath != "" {
		fs, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			gologger.Fatal().Msgf("failed to open output file %v got %v", outputPath, err)
		}
		return fs
	}
	return os.Stdout
}

// CloseOutput closes the output writer if it's a file.
func CloseOutput(output io.Writer, outputPath string) {
	if outputPath != "" {
		if closer, ok := output.(io.Closer); ok {
			closer.Close()
		}
	}
}
