// Package color resolves user supplied color specifications into the 24-bit
// SGR start sequence written ahead of a styled message.
//
// A specification is either one of the named colors below (case-insensitive)
// or a six digit hex value with an optional leading '#'. Blank specifications
// mean "no styling".
package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// ErrInvalidColor is returned for specifications that are neither a known
// name nor a valid hex value.
var ErrInvalidColor = errors.New("invalid color")

// Reset is the sequence that ends a styled message.
const Reset = termenv.CSI + termenv.ResetSeq + "m"

var named = map[string]colorful.Color{
	"black":   {R: 0, G: 0, B: 0},
	"red":     {R: 1, G: 0, B: 0},
	"green":   {R: 0, G: 1, B: 0},
	"yellow":  {R: 1, G: 1, B: 0},
	"blue":    {R: 0, G: 0, B: 1},
	"magenta": {R: 1, G: 0, B: 1},
	"cyan":    {R: 0, G: 1, B: 1},
	"white":   {R: 1, G: 1, B: 1},
}

// Names returns the supported color names in a stable order.
func Names() []string {
	return []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}
}

// Resolve converts spec into a start sequence. It returns an empty string for
// a blank spec.
func Resolve(spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", nil
	}

	c, ok := named[strings.ToLower(spec)]
	if !ok {
		var err error
		if c, err = parseHex(spec); err != nil {
			return "", err
		}
	}

	return Sequence(c), nil
}

// Sequence builds the truecolor foreground sequence for c.
func Sequence(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("%s%s;2;%d;%d;%dm", termenv.CSI, termenv.Foreground, r, g, b)
}

func parseHex(spec string) (colorful.Color, error) {
	token := strings.TrimPrefix(spec, "#")
	if len(token) != 6 {
		return colorful.Color{}, fmt.Errorf("%w: hex color must be 6 characters like '#RRGGBB': %q", ErrInvalidColor, spec)
	}
	// colorful.Hex scans with %02x and accepts trailing garbage, so check the
	// digits first.
	if _, err := strconv.ParseUint(token, 16, 32); err != nil {
		return colorful.Color{}, fmt.Errorf("%w: hex color must be 6 characters like '#RRGGBB': %q", ErrInvalidColor, spec)
	}

	c, err := colorful.Hex("#" + token)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, spec, err)
	}
	return c, nil
}
