package qrcode

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/diillson/escola-artifacts-go/internal/shared/types"
)

// parseHexColor accepts exactly "#RRGGBB".
func parseHexColor(s string) (color.NRGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("%w: %q is not #RRGGBB", types.ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q is not #RRGGBB", types.ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
