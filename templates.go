/*
 * templates.go, part of gomeld.
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
	"fmt"
	"log/slog"

	"github.com/rmera/gomeld/state"
	"github.com/rmera/gomeld/system"
	v3 "github.com/rmera/gomeld/v3"
)

//GenStateTemplates builds a state from the template templates[index%len(templates)],
//so replicas beyond the number of templates reuse them in order. Only the geometry of the
//template is kept: velocities are zero, the box is [0, 0, 0] even if the file has one,
//alpha is 1 and energy 0.
func GenStateTemplates(index int, templates []string) (*state.SystemState, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("GenStateTemplates: %w", ErrNoTemplates)
	}
	if index < 0 {
		return nil, fmt.Errorf("GenStateTemplates: %w: %d", ErrReplicaIndex, index)
	}
	name := templates[index%len(templates)]
	slog.Debug("selected template", "index", index, "templates", len(templates), "template", name)
	sub, err := system.SubSystemFromPDBFile(name)
	if err != nil {
		return nil, fmt.Errorf("GenStateTemplates: %w", err)
	}
	//The force field doesn't reach the state, any would do. Vacuum keeps the box
	//of the template in the system, which is then discarded.
	opts := system.DefaultBuildOptions()
	opts.Forcefield = "ff14sbside"
	opts.ImplicitSolventModel = "vacuum"
	b, err := system.NewBuilder(opts)
	if err != nil {
		return nil, fmt.Errorf("GenStateTemplates: %w", err)
	}
	s, err := b.Build([]*system.SubSystem{sub})
	if err != nil {
		return nil, fmt.Errorf("GenStateTemplates: %w", err)
	}
	pos := s.Coordinates()
	st, err := state.New(pos, v3.ZerosLike(pos), 1, 0, []float64{0, 0, 0})
	if err != nil {
		return nil, fmt.Errorf("GenStateTemplates: %w", err)
	}
	return st, nil
}

//GenState returns the initial state of replica index out of nReplicas: the template
//state of s with alpha = index/(nReplicas-1).
func GenState(s System, index, nReplicas int) (*state.SystemState, error) {
	if nReplicas <= 1 {
		return nil, fmt.Errorf("GenState: %w: got %d", ErrReplicaCount, nReplicas)
	}
	if index < 0 || index >= nReplicas {
		return nil, fmt.Errorf("GenState: %w: %d not in [0, %d)", ErrReplicaIndex, index, nReplicas)
	}
	st, err := s.TemplateState()
	if err != nil {
		return nil, fmt.Errorf("GenState: %w", err)
	}
	if err := st.SetAlpha(float64(index) / float64(nReplicas-1)); err != nil {
		return nil, fmt.Errorf("GenState: %w", err)
	}
	return st, nil
}

//GenStates returns the initial states of all nReplicas replicas, in order.
func GenStates(s System, nReplicas int) ([]*state.SystemState, error) {
	if nReplicas <= 1 {
		return nil, fmt.Errorf("GenStates: %w: got %d", ErrReplicaCount, nReplicas)
	}
	states := make([]*state.SystemState, nReplicas)
	for i := range states {
		st, err := GenState(s, i, nReplicas)
		if err != nil {
			return nil, fmt.Errorf("GenStates: replica %d: %w", i, err)
		}
		states[i] = st
	}
	return states, nil
}
