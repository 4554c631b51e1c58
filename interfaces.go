/*
 * interfaces.go, part of gomeld.
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

package meld

import (
	"github.com/rmera/gomeld/comm"
	"github.com/rmera/gomeld/remd"
	"github.com/rmera/gomeld/state"
	"github.com/rmera/gomeld/system"
	"github.com/rmera/gomeld/vault"
)

//System is anything that can produce a template state for its replicas.
type System interface {
	//NAtoms returns the number of atoms in the system.
	NAtoms() int

	//TemplateState returns a new, independent, state with the current coordinates
	//of the system, zero velocities, alpha 0 and energy 0.
	TemplateState() (*state.SystemState, error)
}

//Store is where an Experiment saves the configuration of a run.
//It is implemented by *vault.DataStore.
type Store interface {
	Initialize(mode vault.Mode) error
	SaveSystem(s *system.System) error
	SaveRunOptions(o system.RunOptions) error
	SaveRemdRunner(r *remd.LeaderRunner) error
	SaveCommunicator(c *comm.MPICommunicator) error
	SaveStates(states []*state.SystemState, checkpoint int) error
	SaveDataStore() (*vault.Snapshot, error)
	Close() error
}

//StoreFactory returns a new Store at path, for nReplicas replicas of the system
//described by template.
type StoreFactory func(path string, template *state.SystemState, nReplicas int, w vault.PDBWriter, blockSize int, kind vault.Backend) (Store, error)

//Error is the interface for errors that all packages in this library implement.
//The Decorate method allows to add and retrieve info from the error, without
//changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //This is the new thing for errors. It allows you to add information when you pass it up. Each call also returns the "decoration" slice of strins resulting from the current call. If passed an empty string, it should just return the current value, not add the empty string to the slice.
	Critical() bool
}

var (
	_ System = (*system.System)(nil)
	_ Store  = (*vault.DataStore)(nil)
)
