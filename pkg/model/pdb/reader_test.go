package pdb_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopiadocs/ambrosia/pkg/model"
	"github.com/utopiadocs/ambrosia/pkg/model/pdb"
)

const sample = `HEADER    OXYGEN TRANSPORT                        01-JAN-00   1ABC
ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N
ATOM      2  CA  ALA A   1      11.639   6.071  -5.147  1.00  0.00           C
ATOM      3  C   ALA A   1      13.140   5.777  -5.126  1.00  0.00           C
ATOM      4  CB  ALA A   1      10.820   4.997  -4.410  1.00  0.00           C
ATOM      5  N   GLY A   2      13.700   5.900  -3.900  1.00  0.00           N
ATOM      6  CA  GLY A   2      15.100   5.600  -3.700  1.00  0.00           C
ATOM      7  SG  CYS A   3      16.000   6.000  -2.000  1.00  0.00           S
TER       8      CYS A   3
HETATM    9 ZN    ZN A 101      20.000  20.000  20.000  1.00  0.00          ZN
HETATM   10  O   HOH A 201      30.000  30.000  30.000  1.00  0.00           O
HETATM   11  O   HOH A 202      31.000  30.000  30.000  1.00  0.00           O
ATOM     12  P    DA B   1       0.000   0.000   0.000  1.00  0.00           P
CONECT    7    9
CONECT    9    7
END
`

func TestReadBuildsHierarchy(t *testing.T) {
	complex, err := pdb.Read(strings.NewReader(sample), "sample")
	require.NoError(t, err)
	assert.Equal(t, model.Complex, complex.Kind)
	assert.Equal(t, "1ABC", complex.Name)

	var chains []*model.Node
	for _, c := range complex.Children {
		if c.Kind == model.Chain {
			chains = append(chains, c)
		}
	}
	require.Len(t, chains, 2)
	assert.Equal(t, "A", chains[0].Name)

	residues := chains[0].Residues()
	require.Len(t, residues, 6)
	assert.Equal(t, model.AminoAcid, residues[0].Kind)
	assert.Equal(t, "ALA", residues[0].Name)
	assert.Equal(t, model.Heterogen, residues[3].Kind)
	assert.Equal(t, "ZN", residues[3].HetID)
	assert.True(t, residues[4].IsWater())
	assert.True(t, residues[5].IsWater())

	assert.Equal(t, model.Nucleotide, chains[1].Residues()[0].Kind)
	assert.Len(t, complex.Atoms(), 11)
}

func TestReadAtomFields(t *testing.T) {
	complex, err := pdb.Read(strings.NewReader(sample), "sample")
	require.NoError(t, err)

	ala := complex.Children[0].Residues()[0]
	ca := ala.TraceAtom()
	require.NotNil(t, ca)
	assert.Equal(t, "C", ca.Element.Symbol)
	assert.True(t, ca.Backbone)
	assert.InDelta(t, 11.639, ca.Position.X(), 1e-4)
	assert.InDelta(t, -5.147, ca.Position.Z(), 1e-4)
	assert.False(t, ala.Child("CB").Backbone)

	zn := complex.Children[0].Residues()[3].Children[0]
	assert.True(t, zn.Element.Metal)
}

func TestReadConectDeduplicatesBonds(t *testing.T) {
	complex, err := pdb.Read(strings.NewReader(sample), "sample")
	require.NoError(t, err)

	var bonds []*model.Node
	complex.Walk(func(n *model.Node) bool {
		if n.Kind == model.Bond {
			bonds = append(bonds, n)
		}
		return true
	})
	require.Len(t, bonds, 1)
	assert.Equal(t, "SG", bonds[0].Ends[0].Name)
	assert.Equal(t, "ZN", bonds[0].Ends[1].Name)
}

func TestReadStopsAtFirstModel(t *testing.T) {
	src := `MODEL        1
ATOM      1  CA  GLY A   1       1.000   1.000   1.000  1.00  0.00           C
ENDMDL
MODEL        2
ATOM      1  CA  GLY A   1       2.000   2.000   2.000  1.00  0.00           C
ENDMDL
`
	complex, err := pdb.Read(strings.NewReader(src), "models")
	require.NoError(t, err)
	assert.Len(t, complex.Atoms(), 1)
}

func TestReadGuessesMissingElement(t *testing.T) {
	src := "ATOM      1  CA  GLY A   1       1.000   1.000   1.000\n"
	complex, err := pdb.Read(strings.NewReader(src), "short")
	require.NoError(t, err)
	atoms := complex.Atoms()
	require.Len(t, atoms, 1)
	assert.Equal(t, "C", atoms[0].Element.Symbol)
}

func TestReadMalformedCoordinate(t *testing.T) {
	src := "ATOM      1  CA  GLY A   1       x.000   1.000   1.000\n"
	_, err := pdb.Read(strings.NewReader(src), "bad")
	var perr *pdb.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, perr.Line)
}

func TestReadFileMissing(t *testing.T) {
	_, err := pdb.ReadFile("testdata/none.pdb")
	assert.Error(t, err)
}
