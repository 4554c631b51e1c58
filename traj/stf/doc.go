/*
 * doc.go, part of gomeld.
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

//Package stf implements the simple trajectory format, used by goMeld to store the
//positions and velocities of all replicas at a checkpoint, one frame per replica.
//STF files are zstd-compressed plain text, so they are easy to read from other
//programs.
//
//Format:
//
//The file starts with a header of key=value lines, sorted by key, and ends with a line
//"** N" where N is the number of atoms per frame. The header always has a "prec" key.
//
//After the header, each frame has one line per atom with 3 integers: the x, y and z
//values multiplied by 10^prec and rounded. A frame ends with a line starting with "*",
//optionally followed by 9 floating point numbers with the box vectors.
//
//The "**" sequence only appears as the header terminator. Values are stored in whatever
//unit the caller uses. goMeld stores nm and nm/ps, and says so in the "units" key.
package stf
