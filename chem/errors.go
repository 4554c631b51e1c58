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

package chem

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoAtoms      = errors.New("no atoms")
	ErrMalformedPDB = errors.New("malformed PDB line")
)

//CError is the error type for the chem package. It fulfills the Error interface
//and can wrap another error, so errors.Is and errors.As work through it.
type CError struct {
	msg      string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
	err      error
}

func newError(msg, filename string, err error, deco ...string) *CError {
	return &CError{msg: msg, filename: filename, err: err, deco: deco, critical: true}
}

func (E *CError) Error() string {
	s := E.msg
	if E.filename != "" {
		s = fmt.Sprintf("%s (file %s)", s, E.filename)
	}
	if len(E.deco) > 0 {
		s = strings.Join(E.deco, ": ") + ": " + s
	}
	if E.err != nil {
		s = s + ": " + E.err.Error()
	}
	return s
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (E *CError) Decorate(dec string) []string {
	if dec == "" {
		return E.deco
	}
	E.deco = append([]string{dec}, E.deco...)
	return E.deco
}

func (E *CError) Critical() bool { return E.critical }

func (E *CError) FileName() string { return E.filename }

func (E *CError) Unwrap() error { return E.err }

//errDecorate adds the caller's name to err, if it implements Error.
//Other errors are returned untouched.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var e Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
