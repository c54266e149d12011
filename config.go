// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pubgrub

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config is the on-disk, TOML-shaped counterpart of SolverOptions, for
// deployments that want solver tuning in a config file rather than
// wired up in Go. LoadConfigTOML feeds it into a Solver via ToOptions.
//
//	[solver]
//	max_steps = 50000
//	log_level = "debug"
type Config struct {
	Solver SolverConfig `toml:"solver"`
}

// SolverConfig is the [solver] table of Config.
type SolverConfig struct {
	MaxSteps int    `toml:"max_steps"`
	LogLevel string `toml:"log_level"`
}

// LoadConfigTOML reads and decodes a Config from path.
func LoadConfigTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "decoding solver config %q", path)
	}
	return &cfg, nil
}

// ToOptions converts c into Solver functional options. Logger is built
// fresh from LogLevel, since logrus loggers aren't TOML-serializable
// themselves. An empty LogLevel adds no logger option, so the Solver's
// default logger applies; an unparsable one returns an error.
func (c *Config) ToOptions() ([]Option, error) {
	var opts []Option
	if c.Solver.MaxSteps > 0 {
		opts = append(opts, WithMaxSteps(c.Solver.MaxSteps))
	}
	if c.Solver.LogLevel != "" {
		level, err := logrus.ParseLevel(c.Solver.LogLevel)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing log_level %q", c.Solver.LogLevel)
		}
		logger := logrus.New()
		logger.SetLevel(level)
		opts = append(opts, WithLogger(logger))
	}
	return opts, nil
}
