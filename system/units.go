/*
 * units.go, part of gomeld.
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

import "fmt"

//Length is a distance in nanometres, the internal length unit of goMeld.
//Build lengths by multiplying a number by a unit, e.g. 1.8*Nanometer.
type Length float64

const (
	Nanometer Length = 1
	Angstrom  Length = 0.1
)

//Nanometers returns L as a plain number of nanometres.
func (L Length) Nanometers() float64 { return float64(L) }

//Angstroms returns L as a plain number of Angstroms.
func (L Length) Angstroms() float64 { return float64(L / Angstrom) }

func (L Length) String() string { return fmt.Sprintf("%g nm", float64(L)) }

//Temperature is an absolute temperature in Kelvin.
type Temperature float64

const Kelvin Temperature = 1

func (T Temperature) String() string { return fmt.Sprintf("%g K", float64(T)) }
