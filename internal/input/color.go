package input

import (
	"fmt"
	"strconv"
	"strings"

	"PlaceBoard/internal/state"
)

// ParseHexColor reads an rrggbb color. A leading '#' is allowed, input past
// six digits is cut and shorter input is left-padded with zeros.
func ParseHexColor(s string) (state.RGB, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(v) > 6 {
		v = v[:6]
	}
	v = strings.Repeat("0", 6-len(v)) + v
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return state.RGB{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return state.RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}
