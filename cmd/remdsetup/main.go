/*
 * main.go, part of gomeld.
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

//Command remdsetup prepares the data store of a REMD run.
//
//The configuration is read from the YAML file named in REMD_CONFIG, if set, and from
//the REMD_* environment variables. REMD_LOG_LEVEL sets the log level (debug, info,
//warn, error).
package main

import (
	"os"

	meld "github.com/rmera/gomeld"
	"github.com/rmera/gomeld/internal/logging"
)

func main() {
	log := logging.New(logging.ParseLevel(os.Getenv("REMD_LOG_LEVEL")))
	cfg, err := meld.LoadConfig(os.Getenv("REMD_CONFIG"))
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := meld.NewExperiment(cfg, log).Setup(); err != nil {
		log.Error("setup failed", "error", err)
		os.Exit(1)
	}
}
