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

package vault

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotInitialized = errors.New("data store not initialized")
	ErrReadOnly       = errors.New("data store opened read-only")
	ErrOutOfOrder     = errors.New("record saved out of order")
	ErrMismatch       = errors.New("record doesn't match the data store")
	ErrNotFound       = errors.New("not found in data store")
	ErrParameter      = errors.New("invalid data store parameter")
	ErrBackend        = errors.New("data store backend failure")
)

//Error is returned when reading or writing a key of the store fails.
//It wraps the underlying error.
type Error struct {
	message  string
	key      string //the key that has problems, or empty string if none.
	deco     []string
	critical bool
	err      error
}

func newError(message, key string, err error, caller string) *Error {
	return &Error{message: message, key: key, deco: []string{caller}, critical: true, err: err}
}

func (E *Error) Error() string {
	s := fmt.Sprintf("%s: data store key %s: %s", strings.Join(E.deco, ": "), E.key, E.message)
	if E.err != nil {
		s += ": " + E.err.Error()
	}
	return s
}

//Decorate adds the caller's name to the error.
func (E *Error) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append([]string{dec}, E.deco...)
	}
	return E.deco
}

func (E *Error) Critical() bool { return E.critical }

//Key returns the key of the store associated to the error.
func (E *Error) Key() string { return E.key }

func (E *Error) Unwrap() error { return E.err }

func errDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
		return err
	}
	return fmt.Errorf("%s: %w", caller, err)
}
