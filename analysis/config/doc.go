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

// Package config defines the run configuration of the dataflow solver and the leveled logging
// facilities shared across analyses.
//
// A configuration is usually loaded from a yaml file:
//
//	cfg, err := config.Load("solver-config.yaml")
//	if err != nil { ... }
//	logger := config.NewLogGroup(cfg)
//
// Options that are absent from the file keep their defaults (see [NewDefault]). Resource budgets
// (max-iterations, timeout-seconds) never make a run fail; when they trip, the solver stops early
// and flags its results as incomplete.
package config
