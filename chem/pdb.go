/*
 * pdb.go, part of gomeld.
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
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/gomeld/v3"
)

//PDB read family

//PDBFileRead reads the PDB file pdbname and returns a Molecule. If there is one frame in the PDB
//the coordinates array will be of length 1. Only the atoms of the first model are read,
//the following models only contribute coordinates and b-factors.
func PDBFileRead(pdbname string) (*Molecule, error) {
	pdbfile, err := os.Open(pdbname)
	if err != nil {
		return nil, newError("unable to open file", pdbname, err, "PDBFileRead")
	}
	defer pdbfile.Close()
	mol, err := pdbBufIORead(bufio.NewReader(pdbfile))
	if err != nil {
		if e, ok := err.(*CError); ok {
			e.filename = pdbname
		}
		return nil, errDecorate(err, "PDBFileRead")
	}
	return mol, nil
}

//PDBRead reads a PDB from an io.Reader and returns a Molecule.
func PDBRead(pdb io.Reader) (*Molecule, error) {
	mol, err := pdbBufIORead(bufio.NewReader(pdb))
	return mol, errDecorate(err, "PDBRead")
}

//parses the a, b and c box lengths from a CRYST1 line, in Angstrom.
func readCryst1(line string) ([]float64, error) {
	if len(line) < 33 {
		return nil, fmt.Errorf("CRYST1 line too short: %q", line)
	}
	box := make([]float64, 3)
	var err error
	for i := 0; i < 3; i++ {
		box[i], err = strconv.ParseFloat(strings.TrimSpace(line[6+9*i:15+9*i]), 64)
		if err != nil {
			return nil, fmt.Errorf("can't parse box length %d: %w", i, err)
		}
	}
	return box, nil
}

//Parses a valid ATOM or HETATM line of a PDB file, returns an Atom
//object with the info except for the coordinates and b-factors, which are returned
//separately as an array of 3 float64 and a float64, respectively. hasbfac is false
//if the line doesn't contain a b-factor.
func readPDBLine(line string, serial int) (at *Atom, coords [3]float64, bfactor float64, hasbfac bool, err error) {
	if len(line) < 54 {
		return nil, coords, 0, false, newError(fmt.Sprintf("line too short (%d characters)", len(line)), "", ErrMalformedPDB, "readPDBLine")
	}
	at = new(Atom)
	at.Het = strings.HasPrefix(line, "HETATM")
	at.ID, err = strconv.Atoi(strings.TrimSpace(line[6:11]))
	if err != nil {
		at.ID = serial //large files may not have decimal serial numbers, we just count.
	}
	at.Name = strings.TrimSpace(line[12:16])
	//PDB says that pos. 17 is for other thing but I see that is
	//used for residue name in many cases
	at.MolName = strings.TrimSpace(line[17:20])
	at.MolName1 = three2OneLetter[at.MolName]
	at.Chain = strings.TrimSpace(line[21:22])
	at.MolID, err = strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return nil, coords, 0, false, newError("can't read residue number", "", fmt.Errorf("%w: %v", ErrMalformedPDB, err), "readPDBLine")
	}
	for i := 0; i < 3; i++ {
		coords[i], err = strconv.ParseFloat(strings.TrimSpace(line[30+8*i:38+8*i]), 64)
		if err != nil {
			return nil, coords, 0, false, newError(fmt.Sprintf("can't read coordinate %d", i), "", fmt.Errorf("%w: %v", ErrMalformedPDB, err), "readPDBLine")
		}
	}
	at.Occupancy = 1.0
	if len(line) >= 60 {
		if o, err := strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64); err == nil {
			at.Occupancy = o
		}
	}
	if len(line) >= 66 {
		if b, err := strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64); err == nil {
			bfactor = b
			hasbfac = true
		}
	}
	//In this part we don't catch errors. If something is missing we
	//just ommit it
	if len(line) >= 78 {
		at.Symbol = strings.TrimSpace(line[76:78])
		if len(at.Symbol) == 2 {
			at.Symbol = at.Symbol[:1] + strings.ToLower(at.Symbol[1:])
		}
	}
	if len(line) >= 80 {
		at.Charge = formalCharge(line[78:80])
	}
	//This part tries to guess the symbol from the atom name, if it has not been read
	if at.Symbol == "" {
		at.Symbol, _ = symbolFromName(at.Name)
	}
	if at.Symbol != "" {
		at.Mass = symbolMass[at.Symbol] //No error checking
	}
	return at, coords, bfactor, hasbfac, nil
}

//formalCharge reads charges written as "1-", "2+" and so on. Returns 0 if
//nothing sensible is found.
func formalCharge(s string) float64 {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return 0
	}
	n, err := strconv.Atoi(s[:1])
	if err != nil {
		return 0
	}
	if s[1] == '-' {
		return -1 * float64(n)
	}
	return float64(n)
}

func pdbBufIORead(pdb *bufio.Reader) (*Molecule, error) {
	molecule := make([]*Atom, 0)
	coords := make([][]float64, 1, 1)
	coords[0] = make([]float64, 0, 3)
	bfactors := make([][]float64, 1, 1)
	bfactors[0] = make([]float64, 0)
	var box []float64
	var havebfactors bool = true
	firstmodel := true
	lineno := 0
	for {
		line, err := pdb.ReadString('\n')
		if line == "" && err != nil {
			if err == io.EOF {
				break
			}
			return nil, newError("error reading", "", err, "pdbBufIORead")
		}
		lineno++
		line = strings.TrimRight(line, "\r\n")
		switch {
		case strings.HasPrefix(line, "CRYST1"):
			b, cerr := readCryst1(line)
			if cerr != nil {
				//The box is not critical for us.
				log.Printf("pdbBufIORead: line %d: %v. Box will be ignored", lineno, cerr)
			}
			box = b
		case strings.HasPrefix(line, "ENDMDL"):
			//A new frame starts, unless this was the last one.
			if len(coords[len(coords)-1]) > 0 {
				firstmodel = false
				coords = append(coords, make([]float64, 0, 3*len(molecule)))
				bfactors = append(bfactors, make([]float64, 0, len(molecule)))
			}
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			at, c, b, hasb, err := readPDBLine(line, len(molecule)+1)
			if err != nil {
				return nil, newError(fmt.Sprintf("line %d", lineno), "", err, "pdbBufIORead")
			}
			//we don't read the atoms again for the next models.
			if firstmodel {
				molecule = append(molecule, at)
			}
			last := len(coords) - 1
			coords[last] = append(coords[last], c[:]...)
			if !hasb && havebfactors {
				//It can very well be that the PDB just doesn't contain b-factors.
				log.Printf("pdbBufIORead: line %d has no b-factor, b-factors will not be read", lineno)
				havebfactors = false
			}
			bfactors[last] = append(bfactors[last], b)
		case strings.HasPrefix(line, "END") && !strings.HasPrefix(line, "ENDMDL"):
			return buildMolecule(molecule, coords, bfactors, box, havebfactors)
		}
		if err != nil {
			break
		}
	}
	return buildMolecule(molecule, coords, bfactors, box, havebfactors)
}

func buildMolecule(molecule []*Atom, coords, bfactors [][]float64, box []float64, havebfactors bool) (*Molecule, error) {
	if len(coords) > 1 && len(coords[len(coords)-1]) == 0 {
		coords = coords[:len(coords)-1]
		bfactors = bfactors[:len(bfactors)-1]
	}
	if len(molecule) == 0 {
		return nil, newError("no ATOM or HETATM records found", "", ErrNoAtoms, "pdbBufIORead")
	}
	frames := len(coords)
	mcoords := make([]*v3.Matrix, frames, frames)
	var err error
	for i := 0; i < frames; i++ {
		if len(coords[i]) != 3*len(molecule) {
			return nil, newError(fmt.Sprintf("model %d has %d atoms, the first one has %d", i+1, len(coords[i])/3, len(molecule)), "", ErrMalformedPDB, "pdbBufIORead")
		}
		mcoords[i], err = v3.NewMatrix(coords[i])
		if err != nil {
			return nil, newError(fmt.Sprintf("can't transform coordinates from frame %d", i), "", err, "pdbBufIORead")
		}
	}
	if !havebfactors {
		bfactors = nil
	}
	top := NewTopology(0, 1, molecule)
	mol, err := NewMolecule(mcoords, top, bfactors)
	if err != nil {
		return nil, errDecorate(err, "pdbBufIORead")
	}
	mol.Box = box
	return mol, nil
}

//PDB write family

//PDBFileWrite writes the coordinates coords, the topology mol and, optionally, the
//b-factors bfact and box lengths box (Angstrom) as a PDB file called pdbname.
func PDBFileWrite(pdbname string, coords *v3.Matrix, mol Atomer, bfact []float64, box []float64) error {
	out, err := os.Create(pdbname)
	if err != nil {
		return newError("unable to create file", pdbname, err, "PDBFileWrite")
	}
	defer out.Close()
	return errDecorate(PDBWrite(out, coords, mol, bfact, box), "PDBFileWrite")
}

//PDBWrite writes a PDB for the coordinates coords (Angstrom) and the topology mol to out.
//bfact and box can be nil.
func PDBWrite(out io.Writer, coords *v3.Matrix, mol Atomer, bfact []float64, box []float64) error {
	if coords == nil || mol == nil {
		return newError("given nil coordinates or topology", "", nil, "PDBWrite")
	}
	if coords.NVecs() != mol.Len() {
		return newError(fmt.Sprintf("topology (%d) and coordinates (%d) don't have the same number of atoms", mol.Len(), coords.NVecs()), "", nil, "PDBWrite")
	}
	if bfact != nil && len(bfact) != mol.Len() {
		return newError(fmt.Sprintf("%d b-factors for %d atoms", len(bfact), mol.Len()), "", nil, "PDBWrite")
	}
	w := bufio.NewWriter(out)
	if len(box) >= 3 {
		fmt.Fprintf(w, "CRYST1%9.3f%9.3f%9.3f%7.2f%7.2f%7.2f P 1           1\n", box[0], box[1], box[2], 90.0, 90.0, 90.0)
	}
	for i := 0; i < mol.Len(); i++ {
		fmt.Fprint(w, pdbLine(mol.Atom(i), i, coords.At(i, 0), coords.At(i, 1), coords.At(i, 2), bfactor(bfact, i)))
	}
	fmt.Fprint(w, "END\n")
	if err := w.Flush(); err != nil {
		return newError("error writing", "", err, "PDBWrite")
	}
	return nil
}

func bfactor(bfact []float64, i int) float64 {
	if bfact == nil {
		return 0
	}
	return bfact[i]
}

func pdbLine(a *Atom, i int, x, y, z, bfac float64) string {
	record := "ATOM"
	if a.Het {
		record = "HETATM"
	}
	name := a.Name
	if len(name) < 4 && len(a.Symbol) < 2 {
		name = " " + name //Names of 1-letter elements start at column 14.
	}
	resname := a.MolName
	if len(resname) > 3 {
		resname = resname[:3]
	}
	chain := a.Chain
	if len(chain) > 1 {
		chain = chain[:1]
	}
	serial := a.ID
	if serial <= 0 || serial > 99999 {
		serial = (i + 1) % 100000
	}
	return fmt.Sprintf("%-6s%5d %-4s%1s%3s %1s%4d%1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
		record, serial, name, "", resname, chain, a.MolID%10000, "", x, y, z, a.Occupancy, bfac, a.Symbol)
}
