package chemjson

import (
	"bytes"
	"testing"

	"github.com/rmera/gomeld/chem"
	v3 "github.com/rmera/gomeld/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomsRoundTrip(Te *testing.T) {
	mol, err := chem.PDBFileRead("../testdata/dipeptide.pdb")
	require.NoError(Te, err)
	ats, err := EncodeAtoms(mol, mol.Coords[0])
	require.NoError(Te, err)
	var buf bytes.Buffer
	require.NoError(Te, Encode(&buf, ats))
	var back []*Atom
	require.NoError(Te, Decode(&buf, &back))
	top, coords, err := DecodeAtoms(back)
	require.NoError(Te, err)
	require.Equal(Te, mol.Len(), top.Len())
	for i := 0; i < top.Len(); i++ {
		assert.Equal(Te, *mol.Atom(i), *top.Atom(i))
	}
	assert.Equal(Te, mol.Coords[0].Flat(), coords.Flat())
}

func TestNoCoords(Te *testing.T) {
	top := chem.NewTopology(0, 1, []*chem.Atom{{Name: "CA", Symbol: "C"}})
	ats, err := EncodeAtoms(top, nil)
	require.NoError(Te, err)
	t2, c, err := DecodeAtoms(ats)
	require.NoError(Te, err)
	assert.Nil(Te, c)
	assert.Equal(Te, "CA", t2.Atom(0).Name)

	_, err = EncodeAtoms(top, v3.Zeros(2))
	assert.Error(Te, err)
	_, _, err = DecodeAtoms(nil)
	assert.ErrorIs(Te, err, chem.ErrNoAtoms)
}
