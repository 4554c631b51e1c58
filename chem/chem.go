/*
 * chem.go, part of gomeld.
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

//Package chem provides atom, topology and molecule structures, and the PDB reader and writer
//that goMeld uses to turn structural templates into subsystems.
package chem

import (
	"fmt"

	v3 "github.com/rmera/gomeld/v3"
)

//Atom contains the atoms read except for the coordinates, which will be in a matrix
//and the b-factors, which are in a separate slice of float64.
type Atom struct {
	Name      string
	ID        int
	Tag       int //Just added this for something that someone might want to keep that is not a float.
	MolName   string
	MolName1  byte //the one letter name for residues and nucleotids
	MolID     int
	Chain     string
	Mass      float64
	Occupancy float64
	Charge    float64
	Symbol    string
	Het       bool // is hetatm in the pdb file?
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	N := *A
	return &N
}

/*****Topology type***/

//Topology contains information about a molecule which is not expected to change in time (i.e. everything except for coordinates and b-factors)
type Topology struct {
	Atoms  []*Atom
	charge int
	multi  int
}

//NewTopology returns a topology with the given charge, multiplicity and atoms.
func NewTopology(charge, multi int, ats []*Atom) *Topology {
	top := new(Topology)
	top.Atoms = ats
	top.charge = charge
	top.multi = multi
	return top
}

//Charge gets the total charge of the topology
func (T *Topology) Charge() int {
	return T.charge
}

//Multi returns the multiplicity of the topology
func (T *Topology) Multi() int {
	return T.multi
}

//Atom returns the ith atom. Panics if i is out of range.
func (T *Topology) Atom(i int) *Atom {
	return T.Atoms[i]
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//AppendAtoms adds copies of all the atoms of A at the end of T.
func (T *Topology) AppendAtoms(A Atomer) {
	for i := 0; i < A.Len(); i++ {
		T.Atoms = append(T.Atoms, A.Atom(i).Copy())
	}
}

//Masses returns a slice with the mass of each atom. It returns an error if some mass is unknown.
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, T.Len())
	for i, a := range T.Atoms {
		if a.Mass == 0 {
			return nil, newError(fmt.Sprintf("unknown mass for atom %d (%s)", i, a.Name), "", nil, "Masses")
		}
		mass[i] = a.Mass
	}
	return mass, nil
}

/****Molecule type****/

//Molecule contains all the info for a molecule, i.e. atoms, one or more frames of
//coordinates and, optionally, b-factors and the box read from the file.
type Molecule struct {
	*Topology
	Coords   []*v3.Matrix
	Bfactors [][]float64
	Box      []float64 //a, b, c, in Angstrom. nil if the file had no box.
}

//NewMolecule makes a molecule with ats atoms, coords coordinates and bfactors b-factors.
//It checks that every frame has as many vectors as atoms in the topology.
func NewMolecule(coords []*v3.Matrix, ats *Topology, bfactors [][]float64) (*Molecule, error) {
	if ats == nil || ats.Len() == 0 {
		return nil, newError("can't build a molecule", "", ErrNoAtoms, "NewMolecule")
	}
	for i, c := range coords {
		if c.NVecs() != ats.Len() {
			return nil, newError(fmt.Sprintf("frame %d has %d coordinates for %d atoms", i, c.NVecs(), ats.Len()), "", nil, "NewMolecule")
		}
	}
	for i, b := range bfactors {
		if len(b) != ats.Len() {
			return nil, newError(fmt.Sprintf("frame %d has %d b-factors for %d atoms", i, len(b), ats.Len()), "", nil, "NewMolecule")
		}
	}
	return &Molecule{Topology: ats, Coords: coords, Bfactors: bfactors}, nil
}
