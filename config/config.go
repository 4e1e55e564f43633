/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package config reads problem instances and solver settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/costela/benders"
	"github.com/costela/benders/golp"
)

// ErrUnknownName is returned for branching or backtracking rules that do
// not exist.
var ErrUnknownName = errors.New("config: unknown name")

const defaultConfigYAML = `# maximize c1'x + c2'y  s.t.  a1 x + a2 y <= b,  x >= 0 integer,  y >= 0
c1: [-1, -4]
c2: [-2, -3]
b: [-2, -3]
a1:
  - [1, -3]
  - [-1, -3]
a2:
  - [1, -2]
  - [-1, -1]

solver:
  tolerance: 1e-6
  objective_bound: 1000000
  branching: dth
  backtracking: blb
  # time_limit: 10s
  fractional_cuts: false
`

// Solver holds the decomposition settings. Empty fields keep the solver's
// defaults.
type Solver struct {
	Tolerance      *float64 `yaml:"tolerance,omitempty"`
	ObjectiveBound *float64 `yaml:"objective_bound,omitempty"`
	Branching      string   `yaml:"branching,omitempty"`
	Backtracking   string   `yaml:"backtracking,omitempty"`
	TimeLimit      string   `yaml:"time_limit,omitempty"`
	FractionalCuts bool     `yaml:"fractional_cuts,omitempty"`
}

// Config models a problem file.
type Config struct {
	C1     []float64   `yaml:"c1"`
	C2     []float64   `yaml:"c2"`
	B      []float64   `yaml:"b"`
	A1     [][]float64 `yaml:"a1"`
	A2     [][]float64 `yaml:"a2"`
	Solver Solver      `yaml:"solver"`
}

// Default returns the built-in example instance with default settings.
func Default() *Config {
	cfg, err := Parse([]byte(defaultConfigYAML))
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Instance builds the problem instance.
func (c *Config) Instance() (*benders.Instance, error) {
	return benders.NewInstance(c.C1, c.C2, c.B, c.A1, c.A2)
}

// Options translates the solver section into solver options.
func (c *Config) Options() ([]benders.Option, error) {
	var opts []benders.Option
	s := c.Solver

	if s.Tolerance != nil {
		opts = append(opts, benders.WithTolerance(*s.Tolerance))
	}
	if s.ObjectiveBound != nil {
		opts = append(opts, benders.WithObjectiveBound(*s.ObjectiveBound))
	}

	if s.Branching != "" || s.Backtracking != "" {
		br, err := parseBranching(s.Branching)
		if err != nil {
			return nil, err
		}
		bt, err := parseBacktracking(s.Backtracking)
		if err != nil {
			return nil, err
		}
		opts = append(opts, benders.WithSearch(br, bt))
	}

	if s.TimeLimit != "" {
		d, err := time.ParseDuration(s.TimeLimit)
		if err != nil {
			return nil, fmt.Errorf("time_limit: %w", err)
		}
		opts = append(opts, benders.WithTimeLimit(d))
	}

	if s.FractionalCuts {
		opts = append(opts, benders.WithFractionalCuts())
	}

	return opts, nil
}

var branchings = map[string]golp.Branching{
	"ffv": golp.BranchFirstFractional,
	"lfv": golp.BranchLastFractional,
	"mfv": golp.BranchMostFractional,
	"dth": golp.BranchDriebeckTomlin,
	"pch": golp.BranchHybridPseudoCost,
}

var backtrackings = map[string]golp.Backtracking{
	"dfs": golp.BacktrackDepthFirst,
	"bfs": golp.BacktrackBreadthFirst,
	"blb": golp.BacktrackBestLocal,
	"bph": golp.BacktrackBestProjection,
}

func parseBranching(name string) (golp.Branching, error) {
	if name == "" {
		return golp.BranchDriebeckTomlin, nil
	}
	br, ok := branchings[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("branching %q: %w", name, ErrUnknownName)
	}
	return br, nil
}

func parseBacktracking(name string) (golp.Backtracking, error) {
	if name == "" {
		return golp.BacktrackBestLocal, nil
	}
	bt, ok := backtrackings[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("backtracking %q: %w", name, ErrUnknownName)
	}
	return bt, nil
}
