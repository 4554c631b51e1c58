/*
 * options.go, part of gomeld.
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

package system

import (
	"errors"
	"fmt"
)

var ErrOptions = errors.New("invalid options")

//Known force fields. Only the name is kept, goMeld never evaluates them.
var forcefields = map[string]bool{
	"ff14sbside": true,
	"ff14sb":     true,
	"ff99sbildn": true,
}

//Known implicit solvent models. "vacuum" means no implicit solvent.
var solventModels = map[string]bool{
	"gbNeck2": true,
	"gbNeck":  true,
	"obc":     true,
	"vacuum":  true,
}

//BuildOptions are the options passed to the system Builder.
type BuildOptions struct {
	Forcefield           string `json:"forcefield"`
	ImplicitSolventModel string `json:"implicit_solvent_model"` //"vacuum" for none
	UseBigTimestep       bool   `json:"use_big_timestep"`       //hydrogen mass repartitioning, 4.5 fs steps
	Cutoff               Length `json:"cutoff"`                 //nonbonded cutoff
}

//DefaultBuildOptions returns the options used in most of our REMD runs.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Forcefield:           "ff14sbside",
		ImplicitSolventModel: "gbNeck2",
		UseBigTimestep:       false,
		Cutoff:               1.8 * Nanometer,
	}
}

//Validate returns an error wrapping ErrOptions if O contains unknown or nonsensical values.
func (O BuildOptions) Validate() error {
	if !forcefields[O.Forcefield] {
		return fmt.Errorf("%w: unknown force field %q", ErrOptions, O.Forcefield)
	}
	if !solventModels[O.ImplicitSolventModel] {
		return fmt.Errorf("%w: unknown implicit solvent model %q", ErrOptions, O.ImplicitSolventModel)
	}
	if O.Cutoff <= 0 {
		return fmt.Errorf("%w: cutoff must be positive, got %v", ErrOptions, O.Cutoff)
	}
	return nil
}

//Periodic returns true if systems built with O keep the box of their templates.
//Implicit solvent systems are never periodic.
func (O BuildOptions) Periodic() bool {
	return O.ImplicitSolventModel == "vacuum"
}

//RunOptions are the options for the simulation run. Once built, they are not modified.
type RunOptions struct {
	Timesteps     int `json:"timesteps"`      //MD steps per exchange cycle
	MinimizeSteps int `json:"minimize_steps"` //energy minimization steps before the run
}

//NewRunOptions returns validated run options.
func NewRunOptions(timesteps, minimizeSteps int) (RunOptions, error) {
	O := RunOptions{Timesteps: timesteps, MinimizeSteps: minimizeSteps}
	return O, O.Validate()
}

//Validate returns an error wrapping ErrOptions if O is not valid.
func (O RunOptions) Validate() error {
	if O.Timesteps <= 0 {
		return fmt.Errorf("%w: timesteps must be positive, got %d", ErrOptions, O.Timesteps)
	}
	if O.MinimizeSteps < 0 {
		return fmt.Errorf("%w: minimize steps can't be negative, got %d", ErrOptions, O.MinimizeSteps)
	}
	return nil
}
