package deck

import (
	"fmt"
	"math"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// RGB is a 24-bit color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex renders the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// HexBare renders the color as "RRGGBB", the form OOXML attributes use.
func (c RGB) HexBare() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Distance is the Euclidean distance between two colors in RGB space.
func (c RGB) Distance(o RGB) float64 {
	dr := float64(c.R) - float64(o.R)
	dg := float64(c.G) - float64(o.G)
	db := float64(c.B) - float64(o.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// ParseColor accepts "#RRGGBB", "RRGGBB", or a [r, g, b] triple as decoded
// from JSON and returns the color.
func ParseColor(v interface{}) (*RGB, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return parseHexColor(val)
	case []interface{}:
		if len(val) != 3 {
			return nil, tools.NewBadArgument("color triple must have exactly 3 components, got %d", len(val))
		}
		var comps [3]uint8
		for i, item := range val {
			f, ok := item.(float64)
			if !ok || f < 0 || f > 255 {
				return nil, tools.NewBadArgument("color component %d must be an integer in [0, 255]", i)
			}
			comps[i] = uint8(f)
		}
		return &RGB{R: comps[0], G: comps[1], B: comps[2]}, nil
	default:
		return nil, tools.NewBadArgument("color must be a hex string or [r, g, b] triple")
	}
}

func parseHexColor(s string) (*RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return nil, tools.NewBadArgument("invalid color %q: expected #RRGGBB", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, tools.NewBadArgument("invalid color %q: expected #RRGGBB", s)
	}
	return &RGB{R: r, G: g, B: b}, nil
}

// MustColor parses a hex color known to be valid at compile time.
func MustColor(s string) RGB {
	c, err := parseHexColor(s)
	if err != nil {
		panic(err)
	}
	return *c
}
