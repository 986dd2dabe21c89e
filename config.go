package regexgenerator

import (
	"os"
	"path/filepath"

	goccyyaml "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFilePath is where the CLI collaborator looks for a
// user-supplied run configuration, mirroring the teacher's
// ~/.config/<tool>/config.yaml convention.
var DefaultConfigFilePath = filepath.Join(getUserHomeDir(), ".config/regexgenerator/config.yaml")

// Config is the YAML-backed, user-facing run configuration: the recognized
// option set from spec.md §6 plus the scorer selection, round-tripped with
// gopkg.in/yaml.v3.
type Config struct {
	InitialTemperature float64         `yaml:"initial_temperature"`
	FinalTemperature   float64         `yaml:"final_temperature"`
	MaxIterations      int             `yaml:"max_iterations"`
	MaxNoImprovement   int             `yaml:"max_no_improvement"`
	CoolingSchedule    CoolingSchedule `yaml:"cooling_schedule"`
	MutationRate       float64         `yaml:"mutation_rate"`
	MaxComplexity      int             `yaml:"max_complexity"`
	RandomSeed         *int64          `yaml:"random_seed"`
	TimeoutSeconds     *float64        `yaml:"timeout_seconds"`
	ScoringMode        ScoringMode     `yaml:"scoring_mode"`
	PerfTimeoutSeconds float64         `yaml:"perf_timeout_seconds"`
}

// DefaultConfig is the sample configuration GenerateSample writes, and the
// fallback NewConfig callers fall back to on a missing file.
var DefaultConfig = Config{
	InitialTemperature: DefaultInitialTemperature,
	FinalTemperature:   DefaultFinalTemperature,
	MaxIterations:      DefaultMaxIterations,
	MaxNoImprovement:   150,
	CoolingSchedule:    ScheduleAdaptive,
	MutationRate:       DefaultMutationRate,
	MaxComplexity:      50,
	ScoringMode:        ScoringBalanced,
	PerfTimeoutSeconds: 1.0,
}

// NewConfig reads a run configuration from filePath.
func NewConfig(filePath string) (*Config, error) {
	bin, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig
	if err := yaml.Unmarshal(bin, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GenerateSample writes a sample config.yaml with default values, the same
// bootstrap helper shape as the teacher's GenerateSample.
func GenerateSample(filePath string) error {
	bin, err := yaml.Marshal(DefaultConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bin, 0644)
}

// OptimizeConfig adapts the user-facing Config into the driver's option
// struct.
func (c Config) OptimizeConfig() OptimizeConfig {
	return OptimizeConfig{
		InitialTemperature: c.InitialTemperature,
		FinalTemperature:   c.FinalTemperature,
		MaxIterations:      c.MaxIterations,
		MaxNoImprovement:   c.MaxNoImprovement,
		CoolingSchedule:    c.CoolingSchedule,
		MutationRate:       c.MutationRate,
		MaxComplexity:      c.MaxComplexity,
		RandomSeed:         c.RandomSeed,
		TimeoutSeconds:     c.TimeoutSeconds,
	}
}

func getUserHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return homeDir
}

// Report is the persisted form of a Result, the "--save-result" surface
// the CLI collaborator owns (spec.md §6 leaves persistence to the CLI; this
// is the record shape it persists). It round-trips through goccy/go-yaml,
// the second YAML library the teacher carries alongside gopkg.in/yaml.v3
// for its bootstrap config.
type Report struct {
	RunID             string            `yaml:"run_id"`
	Regex             string            `yaml:"regex"`
	Score             float64           `yaml:"score"`
	Complexity        int               `yaml:"complexity"`
	Iterations        int               `yaml:"iterations"`
	TimeSeconds       float64           `yaml:"time_seconds"`
	PosMatched        int               `yaml:"pos_matched"`
	NegRejected       int               `yaml:"neg_rejected"`
	ConvergenceReason ConvergenceReason `yaml:"convergence_reason"`
	AcceptanceRate    float64           `yaml:"acceptance_rate"`
	FinalTemperature  float64           `yaml:"final_temperature"`
}

// ReportOf converts a Result into its persisted shape.
func ReportOf(r *Result) Report {
	return Report{
		RunID:             r.RunID.String(),
		Regex:             r.Regex,
		Score:             r.Score,
		Complexity:        r.Complexity,
		Iterations:        r.Iterations,
		TimeSeconds:       r.TimeSeconds,
		PosMatched:        r.PosMatched,
		NegRejected:       r.NegRejected,
		ConvergenceReason: r.ConvergenceReason,
		AcceptanceRate:    r.AcceptanceRate,
		FinalTemperature:  r.FinalTemperature,
	}
}

// SaveReport persists a Report to filePath.
func SaveReport(filePath string, report Report) error {
	bin, err := goccyyaml.Marshal(report)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bin, 0644)
}

// LoadReport reads a previously persisted Report.
func LoadReport(filePath string) (*Report, error) {
	bin, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := goccyyaml.Unmarshal(bin, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
