/*
 * subsystem.go, part of gomeld.
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
	"fmt"

	"github.com/rmera/gomeld/chem"
	v3 "github.com/rmera/gomeld/v3"
)

//SubSystem is a piece of a molecular system read from a structural template:
//its atoms, one set of coordinates (nm) and, if the template had one, its box (nm).
type SubSystem struct {
	top    *chem.Topology
	coords *v3.Matrix
	box    []float64
	source string
}

//SubSystemFromPDBFile reads the first model of the PDB file name into a SubSystem.
func SubSystemFromPDBFile(name string) (*SubSystem, error) {
	mol, err := chem.PDBFileRead(name)
	if err != nil {
		return nil, fmt.Errorf("SubSystemFromPDBFile: %w", err)
	}
	return SubSystemFromMolecule(mol, name)
}

//SubSystemFromMolecule builds a SubSystem from the first frame of mol. Coordinates
//are converted from Angstrom to nm. source is only informative.
func SubSystemFromMolecule(mol *chem.Molecule, source string) (*SubSystem, error) {
	if mol == nil || mol.Len() == 0 || len(mol.Coords) == 0 {
		return nil, fmt.Errorf("SubSystemFromMolecule: %w", chem.ErrNoAtoms)
	}
	S := &SubSystem{source: source}
	S.top = chem.NewTopology(mol.Charge(), mol.Multi(), nil)
	S.top.AppendAtoms(mol)
	S.coords = mol.Coords[0].Clone()
	S.coords.Scale(Angstrom.Nanometers(), S.coords.Dense)
	if len(mol.Box) >= 3 {
		S.box = make([]float64, 3)
		for i := range S.box {
			S.box[i] = (Length(mol.Box[i]) * Angstrom).Nanometers()
		}
	}
	return S, nil
}

//Len returns the number of atoms in the subsystem.
func (S *SubSystem) Len() int { return S.top.Len() }

//Source returns the name of the template the subsystem was read from.
func (S *SubSystem) Source() string { return S.source }
