/*
 * config.go, part of gomeld.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package meld

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/rmera/gomeld/remd"
	"github.com/rmera/gomeld/system"
	"github.com/rmera/gomeld/vault"
	"gopkg.in/yaml.v3"
)

//Config contains all the parameters of an experiment setup. Temperatures are in K,
//the cutoff in nm.
type Config struct {
	ReplicaCount    int     `yaml:"replicas" env:"REMD_REPLICAS"`
	MaxSteps        int     `yaml:"max_steps" env:"REMD_MAX_STEPS"`
	BlockSize       int     `yaml:"block_size" env:"REMD_BLOCK_SIZE"`
	Template        string  `yaml:"template" env:"REMD_TEMPLATE"`
	StoreDir        string  `yaml:"store" env:"REMD_STORE"`
	StoreBackend    string  `yaml:"backend" env:"REMD_BACKEND"`
	Forcefield      string  `yaml:"forcefield" env:"REMD_FORCEFIELD"`
	ImplicitSolvent string  `yaml:"implicit_solvent" env:"REMD_IMPLICIT_SOLVENT"`
	BigTimestep     bool    `yaml:"big_timestep" env:"REMD_BIG_TIMESTEP"`
	CutoffNM        float64 `yaml:"cutoff_nm" env:"REMD_CUTOFF_NM"`
	Scaler          string  `yaml:"scaler" env:"REMD_SCALER"`
	Temperature     float64 `yaml:"temperature" env:"REMD_TEMPERATURE"`
	TMax            float64 `yaml:"temperature_max" env:"REMD_TEMPERATURE_MAX"` //only used by the linear and geometric scalers
	Timesteps       int     `yaml:"timesteps" env:"REMD_TIMESTEPS"`
	MinimizeSteps   int     `yaml:"minimize_steps" env:"REMD_MINIMIZE_STEPS"`
	LadderTrials    int     `yaml:"ladder_trials" env:"REMD_LADDER_TRIALS"`
	AdaptScale      float64 `yaml:"adapt_scale" env:"REMD_ADAPT_SCALE"`
	AdaptPeriod     int     `yaml:"adapt_period" env:"REMD_ADAPT_PERIOD"`
	AdaptMinUpdates int     `yaml:"adapt_min_updates" env:"REMD_ADAPT_MIN_UPDATES"`
	LadderPlot      string  `yaml:"ladder_plot" env:"REMD_LADDER_PLOT"` //if not empty, the ladder is plotted to this file
}

//DefaultConfig returns the configuration of a 2-replica run of 5 steps on ./1ake.pdb,
//stored in ./Data.
func DefaultConfig() *Config {
	return &Config{
		ReplicaCount:    2,
		MaxSteps:        5,
		BlockSize:       1,
		Template:        "./1ake.pdb",
		StoreDir:        "./Data",
		StoreBackend:    string(vault.Dir),
		Forcefield:      "ff14sbside",
		ImplicitSolvent: "gbNeck2",
		BigTimestep:     true,
		CutoffNM:        1.8,
		Scaler:          system.ConstantScaler,
		Temperature:     300,
		TMax:            450,
		Timesteps:       10,
		MinimizeSteps:   0,
		LadderTrials:    100,
		AdaptScale:      2.0,
		AdaptPeriod:     1,
		AdaptMinUpdates: 1,
	}
}

//LoadConfig returns the default configuration, overridden by the YAML file path, if
//path is not empty, and then by the REMD_* environment variables. The result is validated.
func LoadConfig(path string) (*Config, error) {
	C := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("LoadConfig: %w", err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(C); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("LoadConfig: %s: %w", path, err)
		}
	}
	if err := env.Parse(C); err != nil {
		return nil, fmt.Errorf("LoadConfig: parse env: %w", err)
	}
	if err := C.Validate(); err != nil {
		return nil, fmt.Errorf("LoadConfig: %w", err)
	}
	return C, nil
}

//Validate checks the configuration. A replica count under 2 gives ErrReplicaCount,
//other problems ErrConfig.
func (C *Config) Validate() error {
	if C.ReplicaCount <= 1 {
		return fmt.Errorf("%w: got %d", ErrReplicaCount, C.ReplicaCount)
	}
	switch {
	case C.MaxSteps <= 0:
		return fmt.Errorf("%w: max_steps must be positive, got %d", ErrConfig, C.MaxSteps)
	case C.BlockSize <= 0:
		return fmt.Errorf("%w: block_size must be positive, got %d", ErrConfig, C.BlockSize)
	case C.Template == "":
		return fmt.Errorf("%w: no template given", ErrConfig)
	case C.StoreDir == "":
		return fmt.Errorf("%w: no store given", ErrConfig)
	case C.StoreBackend != string(vault.Dir) && C.StoreBackend != string(vault.SQLite):
		return fmt.Errorf("%w: unknown backend %q", ErrConfig, C.StoreBackend)
	case C.LadderTrials <= 0:
		return fmt.Errorf("%w: ladder_trials must be positive, got %d", ErrConfig, C.LadderTrials)
	}
	if err := C.BuildOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := C.RunOptions(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := C.TemperatureScaler(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := C.AdaptationPolicy(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}

//BuildOptions returns the options used to build the system.
func (C *Config) BuildOptions() system.BuildOptions {
	return system.BuildOptions{
		Forcefield:           C.Forcefield,
		ImplicitSolventModel: C.ImplicitSolvent,
		UseBigTimestep:       C.BigTimestep,
		Cutoff:               system.Length(C.CutoffNM) * system.Nanometer,
	}
}

//RunOptions returns the validated run options.
func (C *Config) RunOptions() (system.RunOptions, error) {
	return system.NewRunOptions(C.Timesteps, C.MinimizeSteps)
}

//TemperatureScaler returns the scaler selected in the configuration. The linear and
//geometric scalers go from Temperature at alpha 0 to TMax at alpha 1.
func (C *Config) TemperatureScaler() (system.TemperatureScaler, error) {
	tmin := system.Temperature(C.Temperature) * system.Kelvin
	tmax := system.Temperature(C.TMax) * system.Kelvin
	var ts system.TemperatureScaler
	var err error
	switch C.Scaler {
	case system.ConstantScaler:
		ts, err = system.NewConstantTemperatureScaler(tmin)
	case system.LinearScaler:
		ts, err = system.NewLinearTemperatureScaler(0, 1, tmin, tmax)
	case system.GeometricScaler:
		ts, err = system.NewGeometricTemperatureScaler(0, 1, tmin, tmax)
	default:
		return nil, fmt.Errorf("%w: unknown scaler %q", system.ErrScaler, C.Scaler)
	}
	if err != nil {
		return nil, err
	}
	return ts, nil
}

//AdaptationPolicy returns the validated policy for the acceptance adaptor.
func (C *Config) AdaptationPolicy() (remd.AdaptationPolicy, error) {
	return remd.NewAdaptationPolicy(C.AdaptScale, C.AdaptPeriod, C.AdaptMinUpdates)
}
