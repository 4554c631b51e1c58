/*
 * json.go, part of gomeld.
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

package chemjson

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rmera/gomeld/chem"
	v3 "github.com/rmera/gomeld/v3"
)

//A ready-to-serialize container for an atom.
type Atom struct {
	A      *chem.Atom `json:"atom"`
	Coords []float64  `json:"coords"`
}

//EncodeAtoms returns one Atom container per atom of top, with the coordinates
//from coords. coords can be nil, in which case the containers have no coordinates.
func EncodeAtoms(top chem.Atomer, coords *v3.Matrix) ([]*Atom, error) {
	if coords != nil && coords.NVecs() != top.Len() {
		return nil, fmt.Errorf("EncodeAtoms: %d atoms but %d coordinates", top.Len(), coords.NVecs())
	}
	ret := make([]*Atom, top.Len())
	for i := range ret {
		ret[i] = &Atom{A: top.Atom(i).Copy()}
		if coords != nil {
			ret[i].Coords = coords.Row(nil, i)
		}
	}
	return ret, nil
}

//DecodeAtoms builds a topology and, if all the containers have coordinates, a matrix
//with them. Otherwise the returned matrix is nil.
func DecodeAtoms(ats []*Atom) (*chem.Topology, *v3.Matrix, error) {
	if len(ats) == 0 {
		return nil, nil, fmt.Errorf("DecodeAtoms: %w", chem.ErrNoAtoms)
	}
	atoms := make([]*chem.Atom, len(ats))
	withCoords := true
	for i, a := range ats {
		if a == nil || a.A == nil {
			return nil, nil, fmt.Errorf("DecodeAtoms: atom %d is empty", i)
		}
		atoms[i] = a.A.Copy()
		if len(a.Coords) != 3 {
			withCoords = false
		}
	}
	top := chem.NewTopology(0, 1, atoms)
	if !withCoords {
		return top, nil, nil
	}
	coords := v3.Zeros(len(ats))
	for i, a := range ats {
		coords.Set(i, 0, a.Coords[0])
		coords.Set(i, 1, a.Coords[1])
		coords.Set(i, 2, a.Coords[2])
	}
	return top, coords, nil
}

//Encode writes v to out as indented JSON.
func Encode(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	return nil
}

//Decode reads one JSON value from in into v. Unknown fields are an error.
func Decode(in io.Reader, v any) error {
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("Decode: %w", err)
	}
	return nil
}
