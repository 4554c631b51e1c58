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

//Package meld prepares the initial configuration of a Replica-Exchange Molecular
//Dynamics (REMD) run, to be carried out later by a separate simulation program.
//
//It builds a molecular system from a PDB template, creates one initial state per
//replica, parameterized by the alpha coupling coefficient (alpha = i/(N-1) for replica
//i of N), and saves the system, the run options, the exchange ladder and adaptor, the
//communicator and the replica states in a data store (see the vault package).
//
//The Experiment type runs the whole setup. Its configuration can be read from a YAML
//file and overridden with REMD_* environment variables, see Config.
package meld
