/*
 * builder.go, part of gomeld.
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

	"github.com/rmera/gomeld/chem"
)

//Builder builds Systems from subsystems, all with the same options.
type Builder struct {
	options BuildOptions
}

//NewBuilder returns a Builder for the given options, which are validated.
func NewBuilder(o BuildOptions) (*Builder, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("NewBuilder: %w", err)
	}
	return &Builder{options: o}, nil
}

//Options returns the options of the builder.
func (B *Builder) Options() BuildOptions {
	return B.options
}

//Build returns a new, not yet finalized, System containing all the given subsystems, in order.
func (B *Builder) Build(subs []*SubSystem) (*System, error) {
	if len(subs) == 0 {
		return nil, fmt.Errorf("Build: no subsystems given: %w", chem.ErrNoAtoms)
	}
	S := &System{
		top:     chem.NewTopology(0, 1, nil),
		box:     make([]float64, 3),
		options: B.options,
	}
	for i, sub := range subs {
		if err := S.AddSubSystem(sub); err != nil {
			return nil, fmt.Errorf("Build: subsystem %d: %w", i, err)
		}
	}
	return S, nil
}
