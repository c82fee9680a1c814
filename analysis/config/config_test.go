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

package config_test

import (
	"path"
	"runtime"
	"testing"
	"time"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/config"
)

func testdataFile(t *testing.T, name string) string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("could not get current file")
	}
	return path.Join(path.Dir(filename), "testdata", name)
}

func TestLoadSolverConfig(t *testing.T) {
	cfg, err := config.Load(testdataFile(t, "solver-config.yaml"))
	if err != nil {
		t.Fatalf("could not load config: %s", err)
	}
	if cfg.LogLevel != int(config.DebugLevel) {
		t.Errorf("expected log level %d, got %d", config.DebugLevel, cfg.LogLevel)
	}
	if cfg.MaxIterations != 100000 {
		t.Errorf("expected max-iterations 100000, got %d", cfg.MaxIterations)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.Timeout())
	}
	if cfg.NumWorkers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.NumWorkers)
	}
	if !cfg.ReportStatistics {
		t.Errorf("expected report-statistics to be set")
	}
	if !cfg.Verbose() {
		t.Errorf("expected config to be verbose at debug level")
	}
}

func TestDefaults(t *testing.T) {
	cfg := config.NewDefault()
	if cfg.LogLevel != int(config.InfoLevel) {
		t.Errorf("default log level should be info")
	}
	if cfg.ExceedsMaxIterations(1 << 30) {
		t.Errorf("unset max-iterations should never be exceeded")
	}
	if cfg.Timeout() != 0 {
		t.Errorf("unset timeout should be zero")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(testdataFile(t, "does-not-exist.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestExceedsMaxIterations(t *testing.T) {
	cfg := config.NewDefault()
	cfg.MaxIterations = 10
	if cfg.ExceedsMaxIterations(10) {
		t.Errorf("10 iterations should be within a budget of 10")
	}
	if !cfg.ExceedsMaxIterations(11) {
		t.Errorf("11 iterations should exceed a budget of 10")
	}
}
