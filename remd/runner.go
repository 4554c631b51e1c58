/*
 * runner.go, part of gomeld.
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

package remd

import "fmt"

//LeaderRunner is the configuration of the replica exchange run driven by the leader
//process: how many replicas, for how many steps, and which ladder and adaptor it uses.
//Step is the current step, 0 for a run that has not started.
type LeaderRunner struct {
	NReplicas int                     `json:"n_replicas"`
	MaxSteps  int                     `json:"max_steps"`
	Step      int                     `json:"step"`
	Ladder    *NearestNeighborLadder  `json:"ladder"`
	Adaptor   *EqualAcceptanceAdaptor `json:"adaptor"`
}

//NewLeaderRunner returns a runner for nReplicas replicas and maxSteps steps. The
//adaptor must be sized for the same number of replicas.
func NewLeaderRunner(nReplicas, maxSteps int, ladder *NearestNeighborLadder, adaptor *EqualAcceptanceAdaptor) (*LeaderRunner, error) {
	R := &LeaderRunner{NReplicas: nReplicas, MaxSteps: maxSteps, Step: 0, Ladder: ladder, Adaptor: adaptor}
	if err := R.Validate(); err != nil {
		return nil, fmt.Errorf("NewLeaderRunner: %w", err)
	}
	return R, nil
}

//Validate checks that the runner is complete and consistent.
func (R *LeaderRunner) Validate() error {
	if R.NReplicas < 2 {
		return fmt.Errorf("%w: needs at least 2 replicas, got %d", ErrParameter, R.NReplicas)
	}
	if R.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrParameter, R.MaxSteps)
	}
	if R.Step < 0 || R.Step > R.MaxSteps {
		return fmt.Errorf("%w: step %d out of [0, %d]", ErrParameter, R.Step, R.MaxSteps)
	}
	if R.Ladder == nil || R.Adaptor == nil {
		return fmt.Errorf("%w: runner needs a ladder and an adaptor", ErrParameter)
	}
	if R.Ladder.NTrials <= 0 {
		return fmt.Errorf("%w: ladder n_trials must be positive", ErrParameter)
	}
	if R.Adaptor.NReplicas != R.NReplicas {
		return fmt.Errorf("%w: runner has %d replicas, adaptor %d", ErrReplicaMismatch, R.NReplicas, R.Adaptor.NReplicas)
	}
	return R.Adaptor.Policy.Validate()
}
