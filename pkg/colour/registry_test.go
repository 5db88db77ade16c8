package colour_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopiadocs/ambrosia/pkg/colour"
)

func TestDefineHelium(t *testing.T) {
	reg := colour.NewRegistry()
	reg.Define("helium", 217, 255, 255)

	r, g, b := reg.Get("helium").Get()
	assert.Equal(t, [3]uint8{217, 255, 255}, [3]uint8{r, g, b})
}

func TestDefineUpdatesInPlace(t *testing.T) {
	reg := colour.NewRegistry()
	first := reg.Define("carbon", 1, 2, 3)
	second := reg.Define("carbon", 4, 5, 6)
	assert.Same(t, first, second)

	r, g, b := first.Get()
	assert.Equal(t, [3]uint8{4, 5, 6}, [3]uint8{r, g, b})
}

func TestRGBIsInterned(t *testing.T) {
	reg := colour.NewRegistry()
	a := reg.RGB(10, 20, 30)
	b := reg.RGB(10, 20, 30)
	assert.Same(t, a, b)
	assert.Equal(t, "user.10.20.30", a.Name())
	assert.NotSame(t, a, reg.RGB(10, 20, 31))
}

func TestSetThenGet(t *testing.T) {
	reg := colour.NewRegistry()
	c := reg.RGB(0, 0, 0)
	c.Set(12, 34, 56)
	r, g, b := c.Get()
	assert.Equal(t, [3]uint8{12, 34, 56}, [3]uint8{r, g, b})

	c.Set(255, 0, 51)
	rf, gf, bf := c.Getf()
	assert.InDelta(t, 1.0, rf, 1e-6)
	assert.InDelta(t, 0.0, gf, 1e-6)
	assert.InDelta(t, 0.2, bf, 1e-6)
}

func TestUnknownFallsBack(t *testing.T) {
	reg := colour.NewRegistry()
	assert.Same(t, reg.Get(colour.Unknown), reg.Get("no.such.colour"))

	_, err := reg.Lookup("no.such.colour")
	assert.ErrorIs(t, err, colour.ErrNotFound)
}

func TestPopulateSkipsMalformedLines(t *testing.T) {
	reg := colour.NewRegistry()
	n, err := reg.Populate(strings.NewReader(`
# comment 1 2 3
oxygen 255 13 13
broken 1 2
toolarge 256 0 0
negative -1 0 0
words a b c
nitrogen   48 80  248
`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = reg.Lookup("oxygen")
	assert.NoError(t, err)
	for _, name := range []string{"broken", "toolarge", "negative", "words", "#"} {
		_, err = reg.Lookup(name)
		assert.ErrorIs(t, err, colour.ErrNotFound, name)
	}
	r, g, b := reg.Get("nitrogen").Get()
	assert.Equal(t, [3]uint8{48, 80, 248}, [3]uint8{r, g, b})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.colourmap")
	require.NoError(t, os.WriteFile(path, []byte("lilac 200 162 200\n"), 0o644))

	reg := colour.NewRegistry()
	n, err := reg.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, reg.Names(), "lilac")

	_, err = reg.LoadFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	reg := colour.NewDefault()
	c, err := reg.Parse("#ff8000")
	require.NoError(t, err)
	assert.Same(t, reg.RGB(255, 128, 0), c)

	named, err := reg.Parse("element.O")
	require.NoError(t, err)
	assert.Equal(t, "element.O", named.Name())

	_, err = reg.Parse("#zzzzzz")
	assert.Error(t, err)
	_, err = reg.Parse("mauve")
	assert.ErrorIs(t, err, colour.ErrNotFound)
}

func TestDefaultPalette(t *testing.T) {
	reg := colour.Default()
	assert.Same(t, reg, colour.Default())
	r, g, b := reg.Get("element.He").Get()
	assert.Equal(t, [3]uint8{217, 255, 255}, [3]uint8{r, g, b})
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := colour.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.RGB(uint8(i), uint8(j), 0)
				reg.Get("?")
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, reg.Names(), 8*100+1)
}
