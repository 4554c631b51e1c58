/*
 * system_test.go, part of gomeld.
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
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rmera/gomeld/chem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testdir = "../testdata"

func dipeptide(Te *testing.T) *SubSystem {
	sub, err := SubSystemFromPDBFile(filepath.Join(testdir, "dipeptide.pdb"))
	require.NoError(Te, err)
	return sub
}

func TestSubSystemUnits(Te *testing.T) {
	sub := dipeptide(Te)
	assert.Equal(Te, 10, sub.Len())
	//-0.677 A
	assert.InDelta(Te, -0.0677, sub.coords.At(0, 0), 1e-12)
	assert.InDelta(Te, 3.0, sub.box[0], 1e-12)
	_, err := SubSystemFromPDBFile(filepath.Join(testdir, "broken.pdb"))
	assert.True(Te, errors.Is(err, chem.ErrMalformedPDB))
}

func TestBuildFinalize(Te *testing.T) {
	b, err := NewBuilder(DefaultBuildOptions())
	require.NoError(Te, err)
	s, err := b.Build([]*SubSystem{dipeptide(Te), dipeptide(Te)})
	require.NoError(Te, err)
	assert.Equal(Te, 20, s.NAtoms())
	assert.Equal(Te, s.Coordinates().At(0, 0), s.Coordinates().At(10, 0))
	//implicit solvent, so no box.
	assert.Equal(Te, []float64{0, 0, 0}, s.BoxVectors())
	_, err = s.TemplateState()
	assert.True(Te, errors.Is(err, ErrNotFinalized))

	s, err = s.Finalize()
	require.NoError(Te, err)
	assert.True(Te, s.Finalized())
	assert.True(Te, errors.Is(s.AddSubSystem(dipeptide(Te)), ErrFinalized))
	_, err = s.Finalize()
	assert.True(Te, errors.Is(err, ErrFinalized))

	st, err := s.TemplateState()
	require.NoError(Te, err)
	assert.Equal(Te, 20, st.NAtoms())
	assert.True(Te, st.Velocities.IsZero())
	assert.Equal(Te, 0.0, st.Alpha)
	assert.Equal(Te, 0.0, st.Energy)
	//each template is independent.
	st.Positions.Set(0, 0, 100)
	st2, err := s.TemplateState()
	require.NoError(Te, err)
	assert.NotEqual(Te, 100.0, st2.Positions.At(0, 0))
}

func TestBuildPeriodic(Te *testing.T) {
	o := DefaultBuildOptions()
	o.ImplicitSolventModel = "vacuum"
	b, err := NewBuilder(o)
	require.NoError(Te, err)
	s, err := b.Build([]*SubSystem{dipeptide(Te)})
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{3, 3, 3}, s.BoxVectors(), 1e-12)
}

func TestOptions(Te *testing.T) {
	o := DefaultBuildOptions()
	o.Forcefield = "charmm36"
	_, err := NewBuilder(o)
	assert.True(Te, errors.Is(err, ErrOptions))
	o = DefaultBuildOptions()
	o.Cutoff = 0
	assert.True(Te, errors.Is(o.Validate(), ErrOptions))
	o = DefaultBuildOptions()
	o.ImplicitSolventModel = "tip3p"
	assert.True(Te, errors.Is(o.Validate(), ErrOptions))

	r, err := NewRunOptions(10, 0)
	require.NoError(Te, err)
	assert.Equal(Te, RunOptions{Timesteps: 10, MinimizeSteps: 0}, r)
	_, err = NewRunOptions(0, 0)
	assert.True(Te, errors.Is(err, ErrOptions))
	_, err = NewRunOptions(10, -1)
	assert.True(Te, errors.Is(err, ErrOptions))
	_, err = (&Builder{}).Build(nil)
	assert.Error(Te, err)
}

func TestPDBWriter(Te *testing.T) {
	b, _ := NewBuilder(DefaultBuildOptions())
	s, err := b.Build([]*SubSystem{dipeptide(Te)})
	require.NoError(Te, err)
	var buf bytes.Buffer
	require.NoError(Te, s.PDBWriter().Write(&buf, s.Coordinates(), []float64{3, 3, 3}))
	mol, err := chem.PDBRead(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, 10, mol.Len())
	assert.InDelta(Te, -0.677, mol.Coords[0].At(0, 0), 1e-3)
	assert.InDeltaSlice(Te, []float64{30, 30, 30}, mol.Box, 1e-3)
}

func TestUnits(Te *testing.T) {
	assert.InDelta(Te, 18.0, (1.8 * Nanometer).Angstroms(), 1e-12)
	assert.InDelta(Te, 0.1, (1 * Angstrom).Nanometers(), 1e-12)
	assert.Equal(Te, "300 K", (300 * Kelvin).String())
}

func TestRecord(Te *testing.T) {
	o := DefaultBuildOptions()
	o.ImplicitSolventModel = "vacuum"
	b, err := NewBuilder(o)
	require.NoError(Te, err)
	s, err := b.Build([]*SubSystem{dipeptide(Te)})
	require.NoError(Te, err)
	s, err = s.Finalize()
	require.NoError(Te, err)
	ts, err := NewLinearTemperatureScaler(0, 1, 300, 450)
	require.NoError(Te, err)
	require.NoError(Te, s.SetTemperatureScaler(ts))

	rec, err := s.Record()
	require.NoError(Te, err)
	assert.Equal(Te, 10, rec.NAtoms)
	back, err := FromRecord(rec)
	require.NoError(Te, err)
	assert.Equal(Te, s.NAtoms(), back.NAtoms())
	assert.Equal(Te, s.Options(), back.Options())
	assert.Equal(Te, s.BoxVectors(), back.BoxVectors())
	assert.Equal(Te, s.Coordinates().Flat(), back.Coordinates().Flat())
	assert.True(Te, back.Finalized())
	assert.Equal(Te, ts.Record(), back.TemperatureScaler().Record())
	assert.Equal(Te, "CA", back.Topology().Atom(1).Name)

	rec.NAtoms = 3
	_, err = FromRecord(rec)
	assert.Error(Te, err)
	_, err = FromRecord(nil)
	assert.Error(Te, err)
}
