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

package dataflow

import (
	"context"
	"runtime"

	"github.com/josongsong/semantica-codegraph-sub006/analysis/config"
	"github.com/josongsong/semantica-codegraph-sub006/internal/funcutil"
)

// ProblemResult pairs one problem of a [SolveAll] batch with its outcome.
type ProblemResult struct {
	Problem Problem
	Results *Results
	Err     error
}

// SolveAll runs every problem against the same supergraph, cfg.NumWorkers at a time (the number
// of CPUs when unset). Each run owns its solver state, so the only shared structure is the
// read-only graph. Results come back in the order of problems.
func SolveAll(ctx context.Context, g SuperGraph, problems []Problem, cfg *config.Config, logger *config.LogGroup) []ProblemResult {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	workers := cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// the graph is validated once here; the per-problem runs skip it
	if !cfg.SkipValidation {
		if err := ValidateGraph(g, logger); err != nil {
			out := make([]ProblemResult, len(problems))
			for i, p := range problems {
				out[i] = ProblemResult{Problem: p, Err: err}
			}
			return out
		}
	}
	runCfg := *cfg
	runCfg.SkipValidation = true

	logger.Infof("Solving %d problems with %d workers", len(problems), workers)
	return funcutil.MapParallel(problems, func(p Problem) ProblemResult {
		res, err := Solve(ctx, g, p, &runCfg, logger)
		return ProblemResult{Problem: p, Results: res, Err: err}
	}, workers)
}
