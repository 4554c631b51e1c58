/*
 * remd_test.go, part of gomeld.
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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLadder(Te *testing.T) {
	l, err := NewNearestNeighborLadder(100)
	require.NoError(Te, err)
	p, err := l.Pairs(4)
	require.NoError(Te, err)
	assert.Equal(Te, [][2]int{{0, 1}, {1, 2}, {2, 3}}, p)
	_, err = l.Pairs(1)
	assert.True(Te, errors.Is(err, ErrParameter))
	_, err = NewNearestNeighborLadder(0)
	assert.True(Te, errors.Is(err, ErrParameter))
}

func TestPolicy(Te *testing.T) {
	p, err := NewAdaptationPolicy(2.0, 1, 1)
	require.NoError(Te, err)
	assert.Equal(Te, []int{2, 4, 8, 16}, p.UpdateSteps(4))
	_, err = NewAdaptationPolicy(0, 1, 1)
	assert.True(Te, errors.Is(err, ErrParameter))
	_, err = NewAdaptationPolicy(2, 0, 1)
	assert.True(Te, errors.Is(err, ErrParameter))
	_, err = NewAdaptationPolicy(2, 1, -1)
	assert.True(Te, errors.Is(err, ErrParameter))
}

func TestRunner(Te *testing.T) {
	l, _ := NewNearestNeighborLadder(100)
	p, _ := NewAdaptationPolicy(2.0, 1, 1)
	a, err := NewEqualAcceptanceAdaptor(2, p)
	require.NoError(Te, err)
	r, err := NewLeaderRunner(2, 5, l, a)
	require.NoError(Te, err)
	assert.Equal(Te, 0, r.Step)
	assert.Equal(Te, 5, r.MaxSteps)

	_, err = NewLeaderRunner(3, 5, l, a)
	assert.True(Te, errors.Is(err, ErrReplicaMismatch))
	_, err = NewLeaderRunner(2, 0, l, a)
	assert.True(Te, errors.Is(err, ErrParameter))
	_, err = NewLeaderRunner(2, 5, nil, a)
	assert.True(Te, errors.Is(err, ErrParameter))
	_, err = NewEqualAcceptanceAdaptor(1, p)
	assert.True(Te, errors.Is(err, ErrParameter))
}
