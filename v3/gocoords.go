/*
 * gocoords.go, part of gomeld.
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

package v3

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
//It panics if vecs is not positive.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	if vecs <= 0 {
		panic(ErrNoVecs)
	}
	f := make([]float64, cols*vecs, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//ZerosLike returns a zero-filled Matrix with as many vectors as A.
func ZerosLike(A *Matrix) *Matrix {
	return Zeros(A.NVecs())
}

//METHODS

//NVecs return the number of (row) vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//Clone returns a copy of F which shares no memory with it.
func (F *Matrix) Clone() *Matrix {
	r := Zeros(F.NVecs())
	r.Copy(F.Dense)
	return r
}

//Flat returns the contents of F as a new slice, one vector after the other.
func (F *Matrix) Flat() []float64 {
	n := F.NVecs()
	ret := make([]float64, 0, 3*n)
	t := make([]float64, 3)
	for i := 0; i < n; i++ {
		ret = append(ret, F.Row(t, i)...)
	}
	return ret
}

//SwapVecs swaps the vectors i and j of F.
func (F *Matrix) SwapVecs(i, j int) {
	if i >= F.NVecs() || j >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	rowi := F.Row(nil, i)
	rowj := F.Row(nil, j)
	for k := 0; k < 3; k++ {
		F.Set(i, k, rowj[k])
		F.Set(j, k, rowi[k])
	}
}

//IsZero returns true if every element of F is zero (within appzero).
func (F *Matrix) IsZero() bool {
	r, c := F.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(F.At(i, j)) > appzero {
				return false
			}
		}
	}
	return true
}

//SameShape returns true if F and A have the same number of vectors.
func (F *Matrix) SameShape(A *Matrix) bool {
	if F == nil || A == nil {
		return false
	}
	return F.NVecs() == A.NVecs()
}

//String returns a neatly formatted string representation of F, one vector per line.
func (F *Matrix) String() string {
	if F == nil || F.Dense == nil {
		return "<nil>"
	}
	r := F.NVecs()
	v := make([]string, 0, r+2)
	v = append(v, "[")
	t := make([]float64, 3)
	for i := 0; i < r; i++ {
		F.Row(t, i)
		v = append(v, fmt.Sprintf("%8.3f %8.3f %8.3f", t[0], t[1], t[2]))
	}
	v = append(v, "]")
	return strings.Join(v, "\n")
}
