/*
 * system.go, part of gomeld.
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

//Package system builds the molecular system simulated in a REMD run from one or
//more subsystems and a set of BuildOptions. Force field parameters are only
//recorded by name, goMeld never evaluates energies.
package system

import (
	"errors"
	"fmt"
	"io"

	"github.com/rmera/gomeld/chem"
	"github.com/rmera/gomeld/state"
	v3 "github.com/rmera/gomeld/v3"
)

var (
	ErrFinalized    = errors.New("system already finalized")
	ErrNotFinalized = errors.New("system not finalized")
)

//System is a complete molecular system: topology, coordinates (nm), box (nm), the
//options it was built with and the temperature scaler used in the run.
//Once finalized, its topology and options can't be changed.
type System struct {
	top       *chem.Topology
	coords    *v3.Matrix
	box       []float64
	options   BuildOptions
	finalized bool
	scaler    TemperatureScaler
}

//NAtoms returns the number of atoms in the system.
func (S *System) NAtoms() int {
	return S.top.Len()
}

//Topology returns the topology of the system. It should not be modified.
func (S *System) Topology() *chem.Topology {
	return S.top
}

//Options returns the options S was built with.
func (S *System) Options() BuildOptions {
	return S.options
}

//Coordinates returns a copy of the coordinates of the system, in nm.
func (S *System) Coordinates() *v3.Matrix {
	return S.coords.Clone()
}

//BoxVectors returns a copy of the box of the system, in nm. It is all zeros if the system
//is not periodic.
func (S *System) BoxVectors() []float64 {
	b := make([]float64, 3)
	copy(b, S.box)
	return b
}

//Finalized returns true if S has been finalized.
func (S *System) Finalized() bool { return S.finalized }

//Finalize freezes the topology and options of the system. It returns S, so it can be
//chained after Builder.Build. Finalizing twice is an error.
func (S *System) Finalize() (*System, error) {
	if S.finalized {
		return nil, fmt.Errorf("Finalize: %w", ErrFinalized)
	}
	if S.NAtoms() == 0 {
		return nil, fmt.Errorf("Finalize: %w", chem.ErrNoAtoms)
	}
	S.finalized = true
	return S, nil
}

//AddSubSystem appends the atoms and coordinates of sub to the system. It fails if the system
//has been finalized.
func (S *System) AddSubSystem(sub *SubSystem) error {
	if S.finalized {
		return fmt.Errorf("AddSubSystem: %w", ErrFinalized)
	}
	if sub == nil || sub.Len() == 0 {
		return fmt.Errorf("AddSubSystem: %w", chem.ErrNoAtoms)
	}
	S.top.AppendAtoms(sub.top)
	if S.coords == nil {
		S.coords = sub.coords.Clone()
	} else {
		c := v3.Zeros(S.coords.NVecs() + sub.coords.NVecs())
		c.Stack(S.coords.Dense, sub.coords.Dense)
		S.coords = c
	}
	if S.options.Periodic() && len(sub.box) == 3 && !hasBox(S.box) {
		copy(S.box, sub.box)
	}
	return nil
}

func hasBox(box []float64) bool {
	for _, v := range box {
		if v != 0 {
			return true
		}
	}
	return false
}

//SetTemperatureScaler sets the policy mapping alpha to temperature. It can be set
//after the system is finalized, as it is not part of the topology.
func (S *System) SetTemperatureScaler(ts TemperatureScaler) error {
	if ts == nil {
		return fmt.Errorf("SetTemperatureScaler: %w: nil scaler", ErrScaler)
	}
	S.scaler = ts
	return nil
}

//TemperatureScaler returns the temperature scaler of the system, or nil if none was set.
func (S *System) TemperatureScaler() TemperatureScaler {
	return S.scaler
}

//TemplateState returns a new state for the finalized system: its coordinates, zero
//velocities, its box, alpha 0 and energy 0. Each call returns an independent copy.
func (S *System) TemplateState() (*state.SystemState, error) {
	if !S.finalized {
		return nil, fmt.Errorf("TemplateState: %w", ErrNotFinalized)
	}
	st, err := state.New(S.coords, v3.ZerosLike(S.coords), 0, 0, S.BoxVectors())
	if err != nil {
		return nil, fmt.Errorf("TemplateState: %w", err)
	}
	return st, nil
}

//PDBWriter returns a writer of PDB files for states of this system.
func (S *System) PDBWriter() *PDBWriter {
	return &PDBWriter{top: S.top}
}

//PDBWriter writes positions of a system, in nm, as PDB files.
type PDBWriter struct {
	top *chem.Topology
}

//Write writes positions (nm) and the box (nm, can be nil) as a PDB to out.
func (P *PDBWriter) Write(out io.Writer, positions *v3.Matrix, box []float64) error {
	if positions == nil {
		return fmt.Errorf("PDBWriter.Write: nil positions")
	}
	c := positions.Clone()
	c.Scale(1/Angstrom.Nanometers(), c.Dense)
	var b []float64
	if hasBox(box) {
		b = make([]float64, len(box))
		for i, v := range box {
			b[i] = Length(v).Angstroms()
		}
	}
	if err := chem.PDBWrite(out, c, P.top, nil, b); err != nil {
		return fmt.Errorf("PDBWriter.Write: %w", err)
	}
	return nil
}
