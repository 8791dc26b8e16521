package crop

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/brightwave/imagegen/aspectratio"
)

// defaultSmartThreshold is the relative score gain a smart placement must
// show over the centered window before it is preferred.
const defaultSmartThreshold = 0.05

// Cropper trims images to a target aspect ratio. The zero configuration
// (via New) uses the luma-variance scorer for smart anchoring.
type Cropper struct {
	scorer         EnergyScorer
	smartThreshold float64
}

// Option customizes a Cropper.
type Option func(*Cropper)

// WithScorer replaces the smart-anchor energy scorer.
func WithScorer(s EnergyScorer) Option {
	return func(c *Cropper) { c.scorer = s }
}

// WithSmartThreshold sets the minimum relative score gain over the centered
// window for a smart placement to win.
func WithSmartThreshold(t float64) Option {
	return func(c *Cropper) { c.smartThreshold = t }
}

// New constructs a Cropper.
func New(opts ...Option) *Cropper {
	c := &Cropper{
		scorer:         LumaVarianceScorer{},
		smartThreshold: defaultSmartThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crop decodes data (PNG, JPEG or GIF), trims it to the target ratio at the
// given anchor and re-encodes as PNG. An image already at the target ratio is
// returned byte-for-byte unchanged with a full-frame geometry, so cropping is
// idempotent.
//
// The output never exceeds the source in either dimension and matches the
// target ratio within one pixel of rounding.
func (c *Cropper) Crop(data []byte, target aspectratio.Ratio, anchor Anchor) ([]byte, Geometry, error) {
	if target.IsZero() {
		return nil, Geometry{}, fmt.Errorf("crop: target ratio is zero")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Geometry{}, fmt.Errorf("crop: failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	geom := ComputeGeometry(srcW, srcH, target, anchor)
	if anchor == AnchorSmart && !geom.IsNoop() {
		geom = smartGeometry(img, geom, c.scorer, c.smartThreshold)
	}

	if geom.IsNoop() {
		return data, geom, nil
	}

	window := windowRect(geom).Add(bounds.Min)
	out := image.NewRGBA(image.Rect(0, 0, geom.OutputWidth(), geom.OutputHeight()))
	draw.Draw(out, out.Bounds(), img, window.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, Geometry{}, fmt.Errorf("crop: failed to encode cropped image: %w", err)
	}
	return buf.Bytes(), geom, nil
}
