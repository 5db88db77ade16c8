//go:build !js

package gldevice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVersion(t *testing.T) {
	cases := []struct {
		in           string
		major, minor int
	}{
		{"3.3.0 NVIDIA 535.54", 3, 3},
		{"4.6 (Core Profile) Mesa 23.0.4", 4, 6},
		{"3.30 NVIDIA via Cg compiler", 3, 30},
		{"2.1", 2, 1},
		{"", 0, 0},
	}
	for _, c := range cases {
		major, minor := parseVersion(c.in)
		assert.Equal(t, c.major, major, c.in)
		assert.Equal(t, c.minor, minor, c.in)
	}
}
