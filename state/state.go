/*
 * state.go, part of gomeld.
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

//Package state implements SystemState, the initial condition of one replica: positions,
//velocities, the alpha coupling coefficient, energy and box vectors.
package state

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/rmera/gomeld/v3"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrShape = errors.New("positions and velocities differ in shape")
	ErrAlpha = errors.New("alpha out of [0, 1]")
	ErrBox   = errors.New("box vectors must have 3 elements")
)

//SystemState is the state of one replica. Positions and velocities are in nm and nm/ps,
//box vectors in nm.
type SystemState struct {
	Positions  *v3.Matrix
	Velocities *v3.Matrix
	Alpha      float64
	Energy     float64
	BoxVectors []float64
}

//New returns a SystemState holding copies of the given positions, velocities and box.
//It fails if positions and velocities have different numbers of atoms, if alpha
//is out of [0, 1] or if box doesn't have exactly 3 elements.
func New(positions, velocities *v3.Matrix, alpha, energy float64, box []float64) (*SystemState, error) {
	if positions == nil || velocities == nil || !positions.SameShape(velocities) {
		return nil, fmt.Errorf("state.New: %w", ErrShape)
	}
	if err := checkAlpha(alpha); err != nil {
		return nil, fmt.Errorf("state.New: %w", err)
	}
	if len(box) != 3 {
		return nil, fmt.Errorf("state.New: %w (got %d)", ErrBox, len(box))
	}
	S := &SystemState{
		Positions:  positions.Clone(),
		Velocities: velocities.Clone(),
		Alpha:      alpha,
		Energy:     energy,
		BoxVectors: make([]float64, 3),
	}
	copy(S.BoxVectors, box)
	return S, nil
}

func checkAlpha(alpha float64) error {
	if alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
		return fmt.Errorf("%w: %v", ErrAlpha, alpha)
	}
	return nil
}

//NAtoms returns the number of atoms in the state.
func (S *SystemState) NAtoms() int {
	return S.Positions.NVecs()
}

//SetAlpha sets the alpha of the state. It fails if alpha is out of [0, 1].
func (S *SystemState) SetAlpha(alpha float64) error {
	if err := checkAlpha(alpha); err != nil {
		return fmt.Errorf("SetAlpha: %w", err)
	}
	S.Alpha = alpha
	return nil
}

//Copy returns a deep copy of the state.
func (S *SystemState) Copy() *SystemState {
	C := &SystemState{
		Positions:  S.Positions.Clone(),
		Velocities: S.Velocities.Clone(),
		Alpha:      S.Alpha,
		Energy:     S.Energy,
		BoxVectors: make([]float64, len(S.BoxVectors)),
	}
	copy(C.BoxVectors, S.BoxVectors)
	return C
}

//Check verifies the consistency of the state and, if natoms is positive,
//that it has natoms atoms.
func (S *SystemState) Check(natoms int) error {
	if S.Positions == nil || S.Velocities == nil || !S.Positions.SameShape(S.Velocities) {
		return ErrShape
	}
	if natoms > 0 && S.NAtoms() != natoms {
		return fmt.Errorf("%w: state has %d atoms, %d expected", ErrShape, S.NAtoms(), natoms)
	}
	if err := checkAlpha(S.Alpha); err != nil {
		return err
	}
	if len(S.BoxVectors) != 3 {
		return ErrBox
	}
	return nil
}

//IsPeriodic returns false if the box vectors are all zero.
func (S *SystemState) IsPeriodic() bool {
	return floats.Norm(S.BoxVectors, 2) > 0
}
