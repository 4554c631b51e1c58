/*
 * stf.go, part of gomeld.
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

package stf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/gomeld/v3"
)

//DefaultPrec is the number of decimal places kept when no "prec" header is given.
const DefaultPrec = 2

//EOF is returned by Reader.Next when there are no more frames. It is not an actual error.
var EOF = io.EOF

//Writer writes STF frames to an underlying io.Writer.
type Writer struct {
	h         *zstd.Encoder
	natoms    int
	name      string
	writeable bool
	prec      int
	mult      float64
}

//NewWriter returns a Writer to out for frames of natoms atoms. header is written
//as metadata. If it has a "prec" key, that precision is used, otherwise DefaultPrec is.
//name is only used in error messages.
func NewWriter(out io.Writer, name string, natoms int, header map[string]string) (*Writer, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("invalid number of atoms: %d", natoms), name, []string{"NewWriter"}, true}
	}
	S := &Writer{natoms: natoms, name: name, prec: DefaultPrec}
	h := make(map[string]string, len(header)+1)
	for k, v := range header {
		h[k] = v
	}
	if p, ok := h["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec <= 0 {
			log.Printf("Invalid precision %q for trajectory %s. Will use the default", p, name)
		} else {
			S.prec = prec
		}
	}
	h["prec"] = strconv.Itoa(S.prec)
	S.mult = math.Pow(10, float64(S.prec))
	var err error
	S.h, err = zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, Error{"can't start compression: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		if strings.ContainsAny(k, "=\n") || strings.Contains(h[k], "\n") || strings.HasPrefix(k, "**") {
			return nil, Error{fmt.Sprintf("invalid header entry %q", k), name, []string{"NewWriter"}, true}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, h[k])
	}
	fmt.Fprintf(&b, "** %d\n", natoms)
	if _, err := S.h.Write([]byte(b.String())); err != nil {
		return nil, Error{"can't write header: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.writeable = true
	return S, nil
}

//Len returns the number of atoms per frame.
func (S *Writer) Len() int {
	return S.natoms
}

//Prec returns the precision used by the writer.
func (S *Writer) Prec() int {
	return S.prec
}

//WNext writes coord as the next frame. If box is given and has 9 elements, it is written
//as the box of the frame.
func (S *Writer) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.name, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.name, []string{"WNext"}, true}
	}
	if v := coord.NVecs(); v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.name, []string{"WNext"}, true}
	}
	w := bufio.NewWriter(S.h)
	var floats [3]float64
	for i := 0; i < S.natoms; i++ {
		floats[0] = coord.At(i, 0)
		floats[1] = coord.At(i, 1)
		floats[2] = coord.At(i, 2)
		w.WriteString(coordsEncode(floats, S.mult))
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		b := box[0]
		fmt.Fprintf(w, "* %g %g %g %g %g %g %g %g %g\n", b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		w.WriteString("*\n")
	}
	if err := w.Flush(); err != nil {
		return Error{"can't write frame: " + err.Error(), S.name, []string{"WNext"}, true}
	}
	return nil
}

//Close flushes the compressed stream. It does not close the underlying writer.
func (S *Writer) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	if err := S.h.Close(); err != nil {
		return Error{"can't close compressed stream: " + err.Error(), S.name, []string{"Close"}, true}
	}
	return nil
}

func coordsEncode(f [3]float64, mult float64) string {
	var temp [3]int64
	for i, v := range f {
		temp[i] = int64(math.RoundToEven(v * mult))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

func coordsDecode(str string, temp *[3]float64, mult float64) error {
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("%s: expected 3 fields, got %d: %q", WrongFormat, len(s), str)
	}
	for i, v := range s {
		f, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%s): %w", i, v, err)
		}
		temp[i] = float64(f) / mult
	}
	return nil
}

//Reader reads STF frames from an underlying io.Reader.
type Reader struct {
	dec      *zstd.Decoder
	h        *bufio.Reader
	natoms   int
	name     string
	prec     int
	mult     float64
	readable bool
}

//NewReader opens an STF stream for reading, and returns the reader, a map with the header
//and error or nil. name is only used in error messages.
func NewReader(in io.Reader, name string) (*Reader, map[string]string, error) {
	S := &Reader{natoms: -1, name: name, prec: DefaultPrec}
	var err error
	S.dec, err = zstd.NewReader(in)
	if err != nil {
		return nil, nil, Error{"can't start decompression: " + err.Error(), name, []string{"NewReader"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.dec.Close()
			return nil, nil, Error{"can't read header: " + err.Error(), name, []string{"NewReader"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				S.dec.Close()
				return nil, nil, Error{fmt.Sprintf("can't read atom number from %q", str), name, []string{"NewReader"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil || S.natoms <= 0 {
				S.dec.Close()
				return nil, nil, Error{fmt.Sprintf("invalid atom number %q", nat[1]), name, []string{"NewReader"}, true}
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			S.dec.Close()
			return nil, nil, Error{fmt.Sprintf("malformed header line %q", str), name, []string{"NewReader"}, true}
		}
		m[k] = v
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec <= 0 {
			log.Printf("Invalid precision %q for trajectory %s. Will assume the default", p, name)
		} else {
			S.prec = prec
		}
	}
	S.mult = math.Pow(10, float64(S.prec))
	S.readable = true
	return S, m, nil
}

//Readable returns true if it is possible to call Next on the reader.
func (S *Reader) Readable() bool {
	return S.readable
}

//Len returns the number of atoms in each frame.
func (S *Reader) Len() int {
	return S.natoms
}

//Next puts in c the coordinates of the next frame and, if box is given with at least 9
//elements and the frame has a box, the box vectors. If c is nil, the frame is read
//and checked, but discarded. At the end of the trajectory Next returns EOF.
func (S *Reader) Next(c *v3.Matrix, box ...[]float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.name, []string{"Next"}, true}
	}
	if c != nil && c.NVecs() != S.natoms {
		return Error{fmt.Sprintf("matrix has %d vectors, frames have %d", c.NVecs(), S.natoms), S.name, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && i == 0 && b == "" {
				S.Close()
				return EOF
			}
			return Error{"can't read frame: " + err.Error(), S.name, []string{"Next"}, true}
		}
		if strings.HasPrefix(b, "*") {
			return Error{fmt.Sprintf("%s: frame has %d atoms, %d expected", WrongFormat, i, S.natoms), S.name, []string{"Next"}, true}
		}
		if err = coordsDecode(strings.TrimSuffix(b, "\n"), &temp, S.mult); err != nil {
			return Error{err.Error(), S.name, []string{"Next"}, true}
		}
		if c == nil {
			continue
		}
		for j, v := range temp {
			c.Set(i, j, v)
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return Error{"can't read the frame termination mark: " + err.Error(), S.name, []string{"Next"}, true}
	}
	if !strings.HasPrefix(s, "*") {
		return Error{fmt.Sprintf("%s: frame has more than %d atoms", WrongFormat, S.natoms), S.name, []string{"Next"}, true}
	}
	if len(box) == 0 || len(box[0]) < 9 {
		return nil
	}
	fields := strings.Fields(s)
	if len(fields) < 10 {
		log.Printf("Trajectory %s does not contain (correct) box information", S.name) //just a heads-up
		return nil
	}
	for j, v := range fields[1:10] {
		f, errbox := strconv.ParseFloat(v, 64)
		if errbox != nil {
			log.Printf("Failed to read box in a frame from %s", S.name)
			for k := range box[0] {
				box[0][k] = 0
			}
			return nil
		}
		box[0][j] = f
	}
	return nil
}

//Close releases the decompressor. The reader can't be used afterwards.
func (S *Reader) Close() {
	if !S.readable {
		return
	}
	S.dec.Close()
	S.readable = false
}

//errDecorate adds the caller's name to err, if it is an stf Error.
func errDecorate(err error, caller string) error {
	var e Error
	if errors.As(err, &e) {
		e.deco = append(e.deco, caller)
		return e
	}
	return err
}

//Error is the general structure for STF errors.
type Error struct {
	message  string
	filename string //the trajectory that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the trajectory to which the error is associated.
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file associated to the error.
func (err Error) Format() string { return "stf" }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the STF file or frame"
)

//ReadAll reads all the frames remaining in S. Convenience function for small trajectories.
func (S *Reader) ReadAll() ([]*v3.Matrix, [][]float64, error) {
	var frames []*v3.Matrix
	var boxes [][]float64
	for {
		c := v3.Zeros(S.natoms)
		b := make([]float64, 9)
		err := S.Next(c, b)
		if err == EOF {
			return frames, boxes, nil
		}
		if err != nil {
			return nil, nil, errDecorate(err, "ReadAll")
		}
		frames = append(frames, c)
		boxes = append(boxes, b)
	}
}
