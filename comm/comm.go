/*
 * comm.go, part of gomeld.
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

//Package comm describes the communicator used by the processes of a REMD run to
//exchange states. Here it is only sized and persisted, message passing happens in
//the simulation program.
package comm

import (
	"errors"
	"fmt"
	"time"
)

var ErrSize = errors.New("invalid communicator size")

//DefaultTimeout is how long the leader waits for the workers before giving up.
const DefaultTimeout = 600 * time.Second

//MPICommunicator is the description of an MPI communicator for NReplicas replicas
//of a system of NAtoms atoms. Rank 0 is the leader.
type MPICommunicator struct {
	NAtoms    int           `json:"n_atoms"`
	NReplicas int           `json:"n_replicas"`
	Timeout   time.Duration `json:"timeout"`
}

//NewMPICommunicator returns a communicator sized for nAtoms atoms and nReplicas replicas.
func NewMPICommunicator(nAtoms, nReplicas int) (*MPICommunicator, error) {
	C := &MPICommunicator{NAtoms: nAtoms, NReplicas: nReplicas, Timeout: DefaultTimeout}
	if err := C.Validate(); err != nil {
		return nil, fmt.Errorf("NewMPICommunicator: %w", err)
	}
	return C, nil
}

func (C *MPICommunicator) Validate() error {
	if C.NAtoms <= 0 {
		return fmt.Errorf("%w: %d atoms", ErrSize, C.NAtoms)
	}
	if C.NReplicas < 2 {
		return fmt.Errorf("%w: %d replicas", ErrSize, C.NReplicas)
	}
	if C.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrSize)
	}
	return nil
}

//IsLeader returns true for the rank that drives the exchanges.
func (C *MPICommunicator) IsLeader(rank int) bool {
	return rank == 0
}

//MessageSize returns the number of float64 sent for one state: positions and
//velocities (3 per atom each), the box, alpha and energy.
func (C *MPICommunicator) MessageSize() int {
	return 6*C.NAtoms + 3 + 2
}
