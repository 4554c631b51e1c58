/*
 * pdb_test.go, part of gomeld.
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

package chem

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testdir = "../testdata"

func TestPDBRead(Te *testing.T) {
	mol, err := PDBFileRead(filepath.Join(testdir, "dipeptide.pdb"))
	require.NoError(Te, err)
	assert.Equal(Te, 10, mol.Len())
	require.Len(Te, mol.Coords, 1)
	assert.Equal(Te, 10, mol.Coords[0].NVecs())
	assert.InDelta(Te, -0.677, mol.Coords[0].At(0, 0), 1e-9)
	assert.InDelta(Te, -0.466, mol.Coords[0].At(9, 2), 1e-9)
	assert.Equal(Te, []float64{30, 30, 30}, mol.Box)
	a := mol.Atom(1)
	assert.Equal(Te, "CA", a.Name)
	assert.Equal(Te, "ALA", a.MolName)
	assert.Equal(Te, byte('A'), a.MolName1)
	assert.Equal(Te, "A", a.Chain)
	assert.Equal(Te, 1, a.MolID)
	assert.Equal(Te, "C", a.Symbol)
	assert.InDelta(Te, 12.01, a.Mass, 1e-9)
	require.Len(Te, mol.Bfactors, 1)
	assert.InDelta(Te, 10.0, mol.Bfactors[0][3], 1e-9)
	masses, err := mol.Masses()
	require.NoError(Te, err)
	assert.Len(Te, masses, 10)
}

func TestPDBReadNoElements(Te *testing.T) {
	mol, err := PDBFileRead(filepath.Join(testdir, "dipeptide_shifted.pdb"))
	require.NoError(Te, err)
	assert.Nil(Te, mol.Box)
	//symbols are guessed from the names.
	assert.Equal(Te, "N", mol.Atom(0).Symbol)
	assert.Equal(Te, "O", mol.Atom(9).Symbol)
	assert.InDelta(Te, 4.323, mol.Coords[0].At(0, 0), 1e-9)
}

func TestPDBReadModels(Te *testing.T) {
	mol, err := PDBFileRead(filepath.Join(testdir, "dipeptide_models.pdb"))
	require.NoError(Te, err)
	assert.Equal(Te, 10, mol.Len())
	require.Len(Te, mol.Coords, 2)
	assert.InDelta(Te, 1.0, mol.Coords[1].At(0, 0)-mol.Coords[0].At(0, 0), 1e-9)
}

func TestPDBReadErrors(Te *testing.T) {
	_, err := PDBFileRead(filepath.Join(testdir, "broken.pdb"))
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrMalformedPDB), "got %v", err)
	var cerr Error
	require.True(Te, errors.As(err, &cerr))
	assert.True(Te, cerr.Critical())
	assert.Contains(Te, cerr.Decorate(""), "PDBFileRead")

	_, err = PDBFileRead(filepath.Join(testdir, "does_not_exist.pdb"))
	assert.Error(Te, err)

	_, err = PDBRead(strings.NewReader("REMARK nothing here\nEND\n"))
	assert.True(Te, errors.Is(err, ErrNoAtoms))
}

func TestPDBWriteRead(Te *testing.T) {
	mol, err := PDBFileRead(filepath.Join(testdir, "dipeptide.pdb"))
	require.NoError(Te, err)
	var buf bytes.Buffer
	require.NoError(Te, PDBWrite(&buf, mol.Coords[0], mol, mol.Bfactors[0], mol.Box))
	mol2, err := PDBRead(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, mol.Len(), mol2.Len())
	assert.Equal(Te, mol.Coords[0].Flat(), mol2.Coords[0].Flat())
	assert.Equal(Te, mol.Box, mol2.Box)
	for i := 0; i < mol.Len(); i++ {
		assert.Equal(Te, mol.Atom(i).Name, mol2.Atom(i).Name)
		assert.Equal(Te, mol.Atom(i).Symbol, mol2.Atom(i).Symbol)
	}
	err = PDBWrite(&buf, mol.Coords[0].View(0, 3), mol, nil, nil)
	assert.Error(Te, err)
}

func TestSymbolFromName(Te *testing.T) {
	for name, want := range map[string]string{"CA": "C", "HB1": "H", "CL": "Cl", "NA": "Na", "SE": "Se", "ZN": "Zn", "OXT": "O"} {
		s, err := symbolFromName(name)
		assert.NoError(Te, err)
		assert.Equal(Te, want, s, name)
	}
	_, err := symbolFromName("XX")
	assert.Error(Te, err)
}
