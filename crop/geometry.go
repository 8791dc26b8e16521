package crop

import (
	"fmt"
	"math"

	"github.com/brightwave/imagegen/aspectratio"
)

// Anchor names the edge (or strategy) the crop window is pinned to along
// the reduced dimension.
type Anchor string

const (
	AnchorCenter Anchor = "center"
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
	AnchorSmart  Anchor = "smart"
)

// ParseAnchor validates an anchor string, defaulting empty input to center.
func ParseAnchor(s string) (Anchor, error) {
	switch Anchor(s) {
	case "":
		return AnchorCenter, nil
	case AnchorCenter, AnchorTop, AnchorBottom, AnchorLeft, AnchorRight, AnchorSmart:
		return Anchor(s), nil
	}
	return "", fmt.Errorf("crop: unknown anchor %q", s)
}

// Geometry describes a crop window inside a source image. Left/Top/Right/
// Bottom are pixel coordinates of the window (right and bottom exclusive),
// so the output size is Right-Left by Bottom-Top.
type Geometry struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`

	Anchor Anchor `json:"anchor"`

	SourceWidth  int `json:"sourceWidth"`
	SourceHeight int `json:"sourceHeight"`
}

// OutputWidth returns the width of the crop window.
func (g Geometry) OutputWidth() int { return g.Right - g.Left }

// OutputHeight returns the height of the crop window.
func (g Geometry) OutputHeight() int { return g.Bottom - g.Top }

// IsNoop reports whether the window covers the whole source image.
func (g Geometry) IsNoop() bool {
	return g.Left == 0 && g.Top == 0 &&
		g.OutputWidth() == g.SourceWidth && g.OutputHeight() == g.SourceHeight
}

// windowSize computes the largest output dimensions at the target ratio that
// fit inside the source. Exactly one dimension is reduced: the width when the
// source is relatively wider than the target, the height when it is taller.
func windowSize(srcW, srcH int, target aspectratio.Ratio) (int, int) {
	newW := srcW
	newH := int(math.Round(float64(srcW) / target.Decimal()))
	if newH > srcH {
		newH = srcH
		newW = int(math.Round(float64(srcH) * target.Decimal()))
	}
	if newW > srcW {
		newW = srcW
	}
	return newW, newH
}

// ComputeGeometry places a target-ratio crop window inside a srcW x srcH
// source for any fixed-edge anchor. The smart anchor requires pixel data and
// is handled by Cropper; passing it here falls back to center placement.
//
// The returned window never exceeds the source in either dimension, and its
// aspect ratio matches target within one pixel of rounding.
func ComputeGeometry(srcW, srcH int, target aspectratio.Ratio, anchor Anchor) Geometry {
	newW, newH := windowSize(srcW, srcH, target)

	left := (srcW - newW) / 2
	top := (srcH - newH) / 2

	switch anchor {
	case AnchorTop:
		top = 0
	case AnchorBottom:
		top = srcH - newH
	case AnchorLeft:
		left = 0
	case AnchorRight:
		left = srcW - newW
	}

	return Geometry{
		Left:         left,
		Top:          top,
		Right:        left + newW,
		Bottom:       top + newH,
		Anchor:       anchor,
		SourceWidth:  srcW,
		SourceHeight: srcH,
	}
}
