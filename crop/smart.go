package crop

import (
	"image"
	"math"
)

// smartCandidates is the number of offsets sampled across the reduction
// range when placing a smart crop.
const smartCandidates = 5

// EnergyScorer rates how much visual content a candidate crop window would
// retain. Higher is better. Implementations must not retain the image.
//
// The scorer is a strategy point: the default luma-variance heuristic can be
// swapped for saliency or face detection without touching the geometry code.
type EnergyScorer interface {
	Score(img image.Image, window image.Rectangle) float64
}

// LumaVarianceScorer scores a window by the variance of pixel luminance
// inside it, sampled on a coarse grid. Flat regions (sky, plain backdrops)
// score low; textured subjects score high.
type LumaVarianceScorer struct {
	// Step is the sampling stride in pixels. Zero means an automatic stride
	// that keeps the sample count near sampleTarget.
	Step int
}

const sampleTarget = 4096

func (s LumaVarianceScorer) Score(img image.Image, window image.Rectangle) float64 {
	window = window.Intersect(img.Bounds())
	if window.Empty() {
		return 0
	}

	step := s.Step
	if step <= 0 {
		area := window.Dx() * window.Dy()
		step = int(math.Sqrt(float64(area)/sampleTarget)) + 1
	}

	var sum, sumSq float64
	var n int
	for y := window.Min.Y; y < window.Max.Y; y += step {
		for x := window.Min.X; x < window.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			// Rec. 601 luma on 16-bit channel values.
			l := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			sum += l
			sumSq += l * l
			n++
		}
	}
	if n == 0 {
		return 0
	}

	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

// smartGeometry slides the crop window across the reduction range, scores
// each candidate, and keeps the best. When no candidate beats the centered
// window by more than threshold (relative to the center score), the centered
// placement wins: the heuristic must earn its deviation.
func smartGeometry(img image.Image, center Geometry, scorer EnergyScorer, threshold float64) Geometry {
	srcW, srcH := center.SourceWidth, center.SourceHeight
	horizontal := center.OutputWidth() < srcW
	var span int
	if horizontal {
		span = srcW - center.OutputWidth()
	} else {
		span = srcH - center.OutputHeight()
	}
	if span <= 0 {
		return center
	}

	centerScore := scorer.Score(img, windowRect(center))

	outW, outH := center.OutputWidth(), center.OutputHeight()
	best := center
	bestScore := centerScore
	for i := 0; i < smartCandidates; i++ {
		offset := span * i / (smartCandidates - 1)
		cand := center
		if horizontal {
			cand.Left = offset
			cand.Right = offset + outW
		} else {
			cand.Top = offset
			cand.Bottom = offset + outH
		}
		if score := scorer.Score(img, windowRect(cand)); score > bestScore {
			best, bestScore = cand, score
		}
	}

	// Require a meaningful win over center before committing to an
	// off-center placement.
	if centerScore > 0 && (bestScore-centerScore)/centerScore < threshold {
		return center
	}
	return best
}

func windowRect(g Geometry) image.Rectangle {
	return image.Rect(g.Left, g.Top, g.Right, g.Bottom)
}
