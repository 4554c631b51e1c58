/*
 * adaptor.go, part of gomeld.
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

//AdaptationPolicy decides when the adaptor updates the ladder. ScaleFactor grows the
//interval between updates every time one happens, UpdatePeriod is the initial number of
//steps between updates, and MinUpdates is the number of steps before the first one.
type AdaptationPolicy struct {
	ScaleFactor  float64 `json:"scale_factor"`
	UpdatePeriod int     `json:"update_period"`
	MinUpdates   int     `json:"min_updates"`
}

//NewAdaptationPolicy returns a validated AdaptationPolicy.
func NewAdaptationPolicy(scale float64, period, minUpdates int) (AdaptationPolicy, error) {
	P := AdaptationPolicy{ScaleFactor: scale, UpdatePeriod: period, MinUpdates: minUpdates}
	return P, P.Validate()
}

func (P AdaptationPolicy) Validate() error {
	if P.ScaleFactor <= 0 {
		return fmt.Errorf("AdaptationPolicy: %w: scale factor must be positive, got %v", ErrParameter, P.ScaleFactor)
	}
	if P.UpdatePeriod <= 0 {
		return fmt.Errorf("AdaptationPolicy: %w: update period must be positive, got %d", ErrParameter, P.UpdatePeriod)
	}
	if P.MinUpdates < 0 {
		return fmt.Errorf("AdaptationPolicy: %w: minimum update count can't be negative, got %d", ErrParameter, P.MinUpdates)
	}
	return nil
}

//UpdateSteps returns the first n steps at which the policy adapts the ladder.
//Mostly useful to check a policy before a long run.
func (P AdaptationPolicy) UpdateSteps(n int) []int {
	steps := make([]int, 0, n)
	next := float64(P.MinUpdates + P.UpdatePeriod)
	period := float64(P.UpdatePeriod)
	for len(steps) < n {
		steps = append(steps, int(next))
		period *= P.ScaleFactor
		if period < 1 {
			period = 1
		}
		next += period
	}
	return steps
}

//EqualAcceptanceAdaptor adjusts the alphas of the ladder so that all neighbouring pairs
//have the same exchange acceptance rate.
type EqualAcceptanceAdaptor struct {
	NReplicas int              `json:"n_replicas"`
	Policy    AdaptationPolicy `json:"adaptation_policy"`
}

//NewEqualAcceptanceAdaptor returns an adaptor for nReplicas replicas following policy.
func NewEqualAcceptanceAdaptor(nReplicas int, policy AdaptationPolicy) (*EqualAcceptanceAdaptor, error) {
	if nReplicas < 2 {
		return nil, fmt.Errorf("NewEqualAcceptanceAdaptor: %w: needs at least 2 replicas, got %d", ErrParameter, nReplicas)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("NewEqualAcceptanceAdaptor: %w", err)
	}
	return &EqualAcceptanceAdaptor{NReplicas: nReplicas, Policy: policy}, nil
}
