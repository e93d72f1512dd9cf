package color

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected string
	}{
		{name: "blank means no styling", spec: "", expected: ""},
		{name: "whitespace means no styling", spec: "   ", expected: ""},
		{name: "named red", spec: "red", expected: "\x1b[38;2;255;0;0m"},
		{name: "named color is case insensitive", spec: "  WHITE ", expected: "\x1b[38;2;255;255;255m"},
		{name: "hex with hash", spec: "#00ff00", expected: "\x1b[38;2;0;255;0m"},
		{name: "hex without hash", spec: "808080", expected: "\x1b[38;2;128;128;128m"},
		{name: "uppercase hex", spec: "#FF0000", expected: "\x1b[38;2;255;0;0m"},
		{name: "dark green", spec: "#005800", expected: "\x1b[38;2;0;88;0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := Resolve(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, seq)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, spec := range []string{"not-a-color", "#12345", "#1234567", "12345g", "#gggggg", "purple"} {
		t.Run(spec, func(t *testing.T) {
			seq, err := Resolve(spec)
			assert.ErrorIs(t, err, ErrInvalidColor)
			assert.Empty(t, seq)
		})
	}
}

func TestNamesResolve(t *testing.T) {
	for _, name := range Names() {
		seq, err := Resolve(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, seq, name)
	}
}

func TestSequenceRoundsChannels(t *testing.T) {
	c := colorful.Color{R: 1.0 / 255.0 * 255.0, G: 0.5, B: 0}
	assert.Equal(t, "\x1b[38;2;255;128;0m", Sequence(c))
}

func TestReset(t *testing.T) {
	assert.Equal(t, "\x1b[0m", Reset)
}
