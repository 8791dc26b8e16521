package crop

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
)

// DefaultWhiteThreshold is the per-channel 8-bit value above which a pixel
// counts as background white.
const DefaultWhiteThreshold = 240

// RemoveWhiteBackground knocks out near-white pixels to transparency and
// returns the result as PNG. Used for icon and vector-art archetypes that
// generators render on a white backdrop.
func RemoveWhiteBackground(data []byte, threshold uint8) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("crop: failed to decode image for background removal: %w", err)
	}

	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	cut := uint32(threshold) << 8 // compare in 16-bit channel space

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r > cut && g > cut && b > cut {
				out.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
				continue
			}
			out.Set(x, y, img.At(x, y))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("crop: failed to encode transparent image: %w", err)
	}
	return buf.Bytes(), nil
}

// bgRemovalArchetypes are styles that are generated on plain white and are
// expected to ship with transparency.
var bgRemovalArchetypes = map[string]struct{}{
	"minimalist_vector_art":   {},
	"symbolic_representation": {},
	"icon":                    {},
	"logo":                    {},
}

// ShouldRemoveBackground reports whether the archetype implies background
// removal even when the caller did not request it.
func ShouldRemoveBackground(archetype string) bool {
	_, ok := bgRemovalArchetypes[strings.ToLower(archetype)]
	return ok
}
