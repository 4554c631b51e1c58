/*
 * record.go, part of gomeld.
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

	"github.com/rmera/gomeld/chemjson"
)

//Record is the serializable form of a System. Coordinates and box are in nm.
type Record struct {
	Options   BuildOptions     `json:"build_options"`
	Finalized bool             `json:"finalized"`
	NAtoms    int              `json:"n_atoms"`
	Box       []float64        `json:"box_vectors"`
	Scaler    *ScalerRecord    `json:"temperature_scaler,omitempty"`
	Atoms     []*chemjson.Atom `json:"atoms"`
}

//Record returns the serializable form of S.
func (S *System) Record() (*Record, error) {
	ats, err := chemjson.EncodeAtoms(S.top, S.coords)
	if err != nil {
		return nil, fmt.Errorf("Record: %w", err)
	}
	R := &Record{
		Options:   S.options,
		Finalized: S.finalized,
		NAtoms:    S.NAtoms(),
		Box:       S.BoxVectors(),
		Atoms:     ats,
	}
	if S.scaler != nil {
		r := S.scaler.Record()
		R.Scaler = &r
	}
	return R, nil
}

//FromRecord rebuilds the System described by R.
func FromRecord(R *Record) (*System, error) {
	if R == nil {
		return nil, fmt.Errorf("FromRecord: nil record")
	}
	if err := R.Options.Validate(); err != nil {
		return nil, fmt.Errorf("FromRecord: %w", err)
	}
	top, coords, err := chemjson.DecodeAtoms(R.Atoms)
	if err != nil {
		return nil, fmt.Errorf("FromRecord: %w", err)
	}
	if coords == nil {
		return nil, fmt.Errorf("FromRecord: atoms without coordinates")
	}
	if R.NAtoms != top.Len() {
		return nil, fmt.Errorf("FromRecord: record claims %d atoms, has %d", R.NAtoms, top.Len())
	}
	S := &System{top: top, coords: coords, box: make([]float64, 3), options: R.Options, finalized: R.Finalized}
	copy(S.box, R.Box)
	if R.Scaler != nil {
		if S.scaler, err = ScalerFromRecord(*R.Scaler); err != nil {
			return nil, fmt.Errorf("FromRecord: %w", err)
		}
	}
	return S, nil
}
