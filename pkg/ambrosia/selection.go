package ambrosia

import (
	"slices"

	"github.com/utopiadocs/ambrosia/pkg/model"
)

// RenderSelection names a selection precomputed by Build, or one of the
// caller slots Temp and Custom.
type RenderSelection int

const (
	All RenderSelection = iota
	Atoms
	Bonds
	Backbone
	Sidechain
	AminoAcids
	Nucleotides
	Residues
	Chains
	Proteins
	NucleicAcids
	Hydrogens
	Heterogens
	Water
	Metals
	Sulphur
	Temp
	Custom
)

var selectionNames = [...]string{
	"all", "atoms", "bonds", "backbone", "sidechain", "aminoacids", "nucleotides",
	"residues", "chains", "proteins", "nucleicacids", "hydrogens", "heterogens",
	"water", "metals", "sulphur", "temp", "custom",
}

func (s RenderSelection) String() string {
	if s >= 0 && int(s) < len(selectionNames) {
		return selectionNames[s]
	}
	return "unknown"
}

// ParseRenderSelection is the inverse of String.
func ParseRenderSelection(name string) (RenderSelection, bool) {
	i := slices.Index(selectionNames[:], name)
	return RenderSelection(i), i >= 0
}

// Selection is an ordered set of model nodes. The nodes belong to the
// model; a selection only refers to them.
type Selection struct {
	nodes []*model.Node
	set   map[*model.Node]struct{}
}

func NewSelection(nodes ...*model.Node) *Selection {
	s := &Selection{set: make(map[*model.Node]struct{}, len(nodes))}
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// Add inserts n unless it is nil or already present.
func (s *Selection) Add(n *model.Node) {
	if n == nil {
		return
	}
	if _, ok := s.set[n]; ok {
		return
	}
	s.set[n] = struct{}{}
	s.nodes = append(s.nodes, n)
}

func (s *Selection) Contains(n *model.Node) bool {
	_, ok := s.set[n]
	return ok
}

func (s *Selection) Len() int { return len(s.nodes) }

func (s *Selection) Empty() bool { return len(s.nodes) == 0 }

// Nodes returns the selected nodes in insertion order.
func (s *Selection) Nodes() []*model.Node { return slices.Clone(s.nodes) }

// classify fills the standard selections from a complex.
func classify(cx *model.Node) map[RenderSelection]*Selection {
	sel := make(map[RenderSelection]*Selection, Temp)
	for s := All; s < Temp; s++ {
		sel[s] = NewSelection()
	}
	sel[All].Add(cx)

	cx.Walk(func(n *model.Node) bool {
		switch n.Kind {
		case model.Chain:
			sel[Chains].Add(n)
		case model.AminoAcid:
			sel[AminoAcids].Add(n)
			sel[Residues].Add(n)
			sel[Proteins].Add(n.Ancestor(model.Chain))
		case model.Nucleotide:
			sel[Nucleotides].Add(n)
			sel[Residues].Add(n)
			sel[NucleicAcids].Add(n.Ancestor(model.Chain))
		case model.Heterogen:
			sel[Residues].Add(n)
			sel[Heterogens].Add(n)
			if n.IsWater() {
				sel[Water].Add(n)
			}
		case model.Bond:
			sel[Bonds].Add(n)
		case model.Atom:
			classifyAtom(sel, n)
		}
		return true
	})
	return sel
}

func classifyAtom(sel map[RenderSelection]*Selection, atom *model.Node) {
	sel[Atoms].Add(atom)
	if atom.Parent != nil && (atom.Parent.Kind == model.AminoAcid || atom.Parent.Kind == model.Nucleotide) {
		if atom.Backbone {
			sel[Backbone].Add(atom)
		} else {
			sel[Sidechain].Add(atom)
		}
	}
	if e := atom.Element; e != nil {
		switch {
		case e.Symbol == "H":
			sel[Hydrogens].Add(atom)
		case e.Symbol == "S":
			sel[Sulphur].Add(atom)
		case e.Metal:
			sel[Metals].Add(atom)
		}
	}
}
