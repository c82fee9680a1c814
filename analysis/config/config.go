// Copyright (c) the Semantica Codegraph authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains the user-facing options of a solver run.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:",inline"`

	sourceFile string
}

// Options groups the yaml-visible solver options.
type Options struct {
	// ReportsDir is the directory where all the reports will be stored. If the yaml config file this config struct
	// has been loaded from does not specify a ReportsDir but sets any Report* option to true, then ReportsDir will
	// be created in the folder the binary is called.
	ReportsDir string `yaml:"reports-dir"`

	// ReportSummaries can be set to true, in which case the summary edges computed during tabulation will be
	// reported in a file named summaries-*.out in the reports directory
	ReportSummaries bool `yaml:"report-summaries"`

	// ReportStatistics can be set to true, in which case the run statistics are logged at Info level once a solver
	// run completes
	ReportStatistics bool `yaml:"report-statistics"`

	// SkipValidation skips the pre-tabulation validation of the control-flow input. Only meant for inputs that are
	// known well-formed, e.g. graphs produced by the ssagraph adapter.
	SkipValidation bool `yaml:"skip-validation"`

	// MaxIterations bounds the number of worklist iterations of a single solver run. If MaxIterations <= 0 it is
	// ignored. When the bound trips, the run stops early and the results are flagged incomplete.
	MaxIterations int `yaml:"max-iterations"`

	// TimeoutSeconds bounds the wall-clock duration of a single solver run. If TimeoutSeconds <= 0 it is ignored.
	// When the deadline trips, the run stops early and the results are flagged incomplete.
	TimeoutSeconds int `yaml:"timeout-seconds"`

	// NumWorkers is the number of goroutines used when several independent problems are solved together.
	// If NumWorkers <= 0, one worker per CPU is used.
	NumWorkers int `yaml:"num-workers"`

	// Loglevel controls the verbosity of the solver
	LogLevel int `yaml:"log-level"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile: "",
		Options: Options{
			ReportsDir:       "",
			ReportSummaries:  false,
			ReportStatistics: false,
			SkipValidation:   false,
			MaxIterations:    0,
			TimeoutSeconds:   0,
			NumWorkers:       0,
			LogLevel:         int(InfoLevel),
		},
	}
}

// Load reads a configuration from a yaml file
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if cfg.ReportSummaries {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
		return nil
	}
	err := os.Mkdir(c.ReportsDir, 0750)
	if err != nil && !os.IsExist(err) {
		return fmt.Errorf("could not create directory %s", c.ReportsDir)
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// Verbose returns true if the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// Timeout returns the wall-clock budget of a run, or 0 if none was configured.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExceedsMaxIterations returns true if the input exceeds the iteration budget of the configuration.
// (if the configuration setting is <= 0, then this returns false)
func (c Config) ExceedsMaxIterations(n int) bool {
	if c.MaxIterations <= 0 {
		return false
	}
	return n > c.MaxIterations
}
