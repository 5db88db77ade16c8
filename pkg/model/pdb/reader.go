// Package pdb reads PDB coordinate files into a model graph.
package pdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/utopiadocs/ambrosia/pkg/model"
)

var aminoAcids = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLN": true, "GLU": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
	"MSE": true, "SEC": true, "PYL": true,
}

var nucleotides = map[string]bool{
	"A": true, "C": true, "G": true, "U": true, "T": true, "I": true,
	"DA": true, "DC": true, "DG": true, "DT": true, "DU": true, "DI": true,
}

// ResidueKind classifies a residue name. Hetero records are always
// heterogens.
func ResidueKind(resName string, hetero bool) model.Kind {
	switch {
	case hetero:
		return model.Heterogen
	case aminoAcids[resName]:
		return model.AminoAcid
	case nucleotides[resName]:
		return model.Nucleotide
	}
	return model.Heterogen
}

// ParseError locates a malformed record.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pdb: line %d: %s", e.Line, e.Msg)
}

type residueKey struct {
	chain  string
	seq    int
	icode  string
	name   string
	hetero bool
}

type reader struct {
	complex  *model.Node
	chains   map[string]*model.Node
	residues map[residueKey]*model.Node
	serials  map[int]*model.Node
	bonded   map[[2]int]bool
	ended    map[string]bool
}

// ReadFile parses the PDB file at path. The complex is named after the file
// unless a HEADER record supplies an ID code.
func ReadFile(path string) (*model.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdb: %w", err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Read(f, name)
}

// Read parses ATOM, HETATM, TER and CONECT records of the first model.
func Read(src io.Reader, name string) (*model.Node, error) {
	r := &reader{
		complex:  model.NewComplex(name),
		chains:   make(map[string]*model.Node),
		residues: make(map[residueKey]*model.Node),
		serials:  make(map[int]*model.Node),
		bonded:   make(map[[2]int]bool),
		ended:    make(map[string]bool),
	}
	scanner := bufio.NewScanner(src)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		record := strings.TrimSpace(field(text, 0, 6))
		var err error
		switch record {
		case "HEADER":
			if id := strings.TrimSpace(field(text, 62, 66)); id != "" {
				r.complex.Name = id
			}
		case "ATOM", "HETATM":
			err = r.atom(text, record == "HETATM")
		case "TER":
			r.ended[field(text, 21, 22)] = true
		case "CONECT":
			err = r.conect(text)
		case "ENDMDL":
			return r.complex, scanner.Err()
		}
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pdb: %w", err)
	}
	return r.complex, nil
}

func field(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	return line[from:min(to, len(line))]
}

func (r *reader) atom(text string, hetero bool) error {
	serial, err := strconv.Atoi(strings.TrimSpace(field(text, 6, 11)))
	if err != nil {
		return fmt.Errorf("atom serial: %w", err)
	}
	if alt := field(text, 16, 17); alt != " " && alt != "" && alt != "A" {
		return nil
	}
	var pos mgl32.Vec3
	for i, span := range [][2]int{{30, 38}, {38, 46}, {46, 54}} {
		v, err := strconv.ParseFloat(strings.TrimSpace(field(text, span[0], span[1])), 32)
		if err != nil {
			return fmt.Errorf("atom %d coordinate: %w", serial, err)
		}
		pos[i] = float32(v)
	}
	name := strings.TrimSpace(field(text, 12, 16))
	resName := strings.TrimSpace(field(text, 17, 20))
	chainID := field(text, 21, 22)
	seq, _ := strconv.Atoi(strings.TrimSpace(field(text, 22, 26)))
	icode := strings.TrimSpace(field(text, 26, 27))

	symbol := strings.TrimSpace(field(text, 76, 78))
	if symbol == "" {
		symbol = guessElement(name)
	}

	residue := r.residue(residueKey{chain: chainID, seq: seq, icode: icode, name: resName, hetero: hetero})
	r.serials[serial] = residue.AddAtom(name, symbol, pos)
	return nil
}

func (r *reader) residue(key residueKey) *model.Node {
	if res, ok := r.residues[key]; ok {
		return res
	}
	kind := ResidueKind(key.name, key.hetero)
	chain, ok := r.chains[key.chain]
	if ok && r.ended[key.chain] && kind != model.Heterogen {
		// polymer records after TER start a new chain with the same ID
		ok = false
		delete(r.ended, key.chain)
	}
	if !ok {
		label := strings.TrimSpace(key.chain)
		if label == "" {
			label = "_"
		}
		chain = r.complex.Add(model.Chain, label)
		r.chains[key.chain] = chain
	}
	res := chain.Add(kind, key.name)
	res.Serial = key.seq
	if res.Kind == model.Heterogen {
		res.HetID = key.name
	}
	r.residues[key] = res
	return res
}

func (r *reader) conect(text string) error {
	from, err := strconv.Atoi(strings.TrimSpace(field(text, 6, 11)))
	if err != nil {
		return fmt.Errorf("conect serial: %w", err)
	}
	a, ok := r.serials[from]
	if !ok {
		return nil
	}
	for col := 11; col+5 <= len(text) && col < 31; col += 5 {
		s := strings.TrimSpace(text[col : col+5])
		if s == "" {
			continue
		}
		to, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("conect partner: %w", err)
		}
		b, ok := r.serials[to]
		if !ok {
			continue
		}
		pair := [2]int{min(from, to), max(from, to)}
		if r.bonded[pair] {
			continue
		}
		r.bonded[pair] = true
		r.complex.AddBond(a, b)
	}
	return nil
}

// guessElement derives a symbol from an atom name when columns 77-78 are
// blank, as in many older files.
func guessElement(name string) string {
	name = strings.TrimLeft(name, "0123456789")
	if name == "" {
		return "?"
	}
	return name[:1]
}
