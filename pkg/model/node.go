// Package model is the structural graph the renderer consumes: a complex
// of chains, residues and atoms.
package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Kind classifies a node.
type Kind int

const (
	Complex Kind = iota
	Chain
	AminoAcid
	Nucleotide
	Heterogen
	Atom
	Bond
)

var kindNames = [...]string{"complex", "chain", "aminoacid", "nucleotide", "heterogen", "atom", "bond"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsResidue reports whether nodes of this kind are residues of a chain.
func (k Kind) IsResidue() bool {
	return k == AminoAcid || k == Nucleotide || k == Heterogen
}

// Node is one vertex of the structural graph. Atoms and bonds are leaves;
// bonds reference their two atoms through Ends.
type Node struct {
	Kind     Kind
	Name     string
	Parent   *Node
	Children []*Node

	// Residue fields.
	HetID  string
	Serial int

	// Atom fields.
	Element  *Element
	Position mgl32.Vec3
	Backbone bool

	// Bond fields.
	Ends [2]*Node
}

// NewComplex returns an empty complex root.
func NewComplex(name string) *Node {
	return &Node{Kind: Complex, Name: name}
}

// Add creates a child node.
func (n *Node) Add(kind Kind, name string) *Node {
	child := &Node{Kind: kind, Name: name, Parent: n}
	n.Children = append(n.Children, child)
	return child
}

// AddAtom adds an atom of the given element symbol. Backbone is derived from
// the atom name and the parent residue kind.
func (n *Node) AddAtom(name, symbol string, pos mgl32.Vec3) *Node {
	atom := n.Add(Atom, name)
	atom.Element = LookupElement(symbol)
	atom.Position = pos
	atom.Backbone = IsBackboneAtom(n.Kind, name)
	return atom
}

// AddBond links two atoms under n.
func (n *Node) AddBond(a, b *Node) *Node {
	bond := n.Add(Bond, a.Name+"-"+b.Name)
	bond.Ends = [2]*Node{a, b}
	return bond
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Atoms returns every atom at or below n.
func (n *Node) Atoms() []*Node {
	var atoms []*Node
	n.Walk(func(x *Node) bool {
		if x.Kind == Atom {
			atoms = append(atoms, x)
		}
		return true
	})
	return atoms
}

// Residues returns the residue children of a chain, in sequence order.
func (n *Node) Residues() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind.IsResidue() {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first direct child with the given name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Ancestor returns the closest ancestor of the given kind.
func (n *Node) Ancestor(kind Kind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// IsWater reports whether a heterogen is a water molecule.
func (n *Node) IsWater() bool {
	return n.Kind == Heterogen && (n.HetID == "HOH" || n.HetID == "WAT" || n.HetID == "DOD")
}

// TraceAtom returns the atom a backbone trace passes through: CA for amino
// acids, P (or C4') for nucleotides.
func (n *Node) TraceAtom() *Node {
	switch n.Kind {
	case AminoAcid:
		return n.Child("CA")
	case Nucleotide:
		if p := n.Child("P"); p != nil {
			return p
		}
		return n.Child("C4'")
	}
	return nil
}

var backboneAtoms = map[Kind]map[string]bool{
	AminoAcid:  {"N": true, "CA": true, "C": true, "O": true, "OXT": true},
	Nucleotide: {"P": true, "OP1": true, "OP2": true, "O5'": true, "C5'": true, "C4'": true, "C3'": true, "O3'": true},
}

// IsBackboneAtom reports whether an atom name belongs to the backbone of a
// residue of the given kind.
func IsBackboneAtom(residue Kind, name string) bool {
	return backboneAtoms[residue][name]
}
