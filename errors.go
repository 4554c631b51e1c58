/*
 * errors.go, part of gomeld.
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

import "errors"

var (
	ErrReplicaCount    = errors.New("a REMD run needs more than one replica")
	ErrReplicaIndex    = errors.New("replica index out of range")
	ErrReplicaMismatch = errors.New("replica counts disagree")
	ErrNoTemplates     = errors.New("no templates given")
	ErrConfig          = errors.New("invalid configuration")
)
