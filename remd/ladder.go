/*
 * ladder.go, part of gomeld.
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

//Package remd contains the replica exchange policy objects that are set up before a run and
//persisted with it: the exchange ladder, the acceptance adaptor and the leader runner.
//The exchange loop itself is run by a different program.
package remd

import (
	"errors"
	"fmt"
)

var (
	ErrParameter       = errors.New("invalid parameter")
	ErrReplicaMismatch = errors.New("replica counts don't match")
)

//NearestNeighborLadder proposes exchanges only between replicas with consecutive indexes.
//NTrials is the number of exchange attempts per cycle.
type NearestNeighborLadder struct {
	NTrials int `json:"n_trials"`
}

//NewNearestNeighborLadder returns a ladder doing nTrials exchange attempts per cycle.
func NewNearestNeighborLadder(nTrials int) (*NearestNeighborLadder, error) {
	if nTrials <= 0 {
		return nil, fmt.Errorf("NewNearestNeighborLadder: %w: n_trials must be positive, got %d", ErrParameter, nTrials)
	}
	return &NearestNeighborLadder{NTrials: nTrials}, nil
}

//Pairs returns the replica pairs eligible for exchange in a ladder of nReplicas replicas,
//i.e. (i, i+1) for every i.
func (L *NearestNeighborLadder) Pairs(nReplicas int) ([][2]int, error) {
	if nReplicas < 2 {
		return nil, fmt.Errorf("Pairs: %w: a ladder needs at least 2 replicas, got %d", ErrParameter, nReplicas)
	}
	p := make([][2]int, 0, nReplicas-1)
	for i := 0; i < nReplicas-1; i++ {
		p = append(p, [2]int{i, i + 1})
	}
	return p, nil
}
