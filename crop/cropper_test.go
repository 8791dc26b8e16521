package crop

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage renders a w x h PNG with a bright block at blockX so the smart
// scorer has something to find.
func testImage(t *testing.T, w, h int, blockX int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if blockX >= 0 && x >= blockX && x < blockX+w/8 && (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 16, G: 16, B: 16, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestCropCenterTrimsWidth(t *testing.T) {
	c := New()
	src := testImage(t, 160, 90, -1)

	out, geom, err := c.Crop(src, ratio(t, "1:1"), AnchorCenter)
	require.NoError(t, err)

	w, h := decodeSize(t, out)
	assert.Equal(t, 90, w)
	assert.Equal(t, 90, h)
	assert.Equal(t, 35, geom.Left)
	assert.Equal(t, 125, geom.Right)
	assert.False(t, geom.IsNoop())
}

func TestCropIdempotentAtTargetRatio(t *testing.T) {
	c := New()
	src := testImage(t, 160, 90, -1)

	out, geom, err := c.Crop(src, ratio(t, "16:9"), AnchorCenter)
	require.NoError(t, err)

	assert.True(t, geom.IsNoop())
	assert.Equal(t, src, out, "image already at target ratio must pass through unchanged")
	assert.Equal(t, 0, geom.Left)
	assert.Equal(t, 0, geom.Top)
}

func TestCropNeverUpsamples(t *testing.T) {
	c := New()
	src := testImage(t, 90, 160, -1)

	out, _, err := c.Crop(src, ratio(t, "2:7"), AnchorCenter)
	require.NoError(t, err)

	w, h := decodeSize(t, out)
	assert.LessOrEqual(t, w, 90)
	assert.LessOrEqual(t, h, 160)
}

func TestCropRejectsGarbage(t *testing.T) {
	c := New()
	_, _, err := c.Crop([]byte("not an image"), ratio(t, "1:1"), AnchorCenter)
	assert.Error(t, err)
}

func TestSmartAnchorFollowsEnergy(t *testing.T) {
	c := New(WithSmartThreshold(0.01))
	// Bright textured block on the far right of a wide frame.
	src := testImage(t, 320, 90, 280)

	_, geom, err := c.Crop(src, ratio(t, "1:1"), AnchorSmart)
	require.NoError(t, err)

	center := ComputeGeometry(320, 90, ratio(t, "1:1"), AnchorCenter)
	assert.Greater(t, geom.Left, center.Left,
		"smart crop should shift toward the textured region")
}

func TestSmartAnchorFallsBackToCenterOnFlatImage(t *testing.T) {
	c := New()
	src := testImage(t, 320, 90, -1) // uniform image, no energy anywhere

	_, geom, err := c.Crop(src, ratio(t, "1:1"), AnchorSmart)
	require.NoError(t, err)

	center := ComputeGeometry(320, 90, ratio(t, "1:1"), AnchorCenter)
	assert.Equal(t, center.Left, geom.Left)
	assert.Equal(t, center.Right, geom.Right)
}

func TestRemoveWhiteBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}) // white, knocked out
	img.Set(1, 0, color.RGBA{R: 250, G: 250, B: 250, A: 255}) // near white, knocked out
	img.Set(2, 0, color.RGBA{R: 200, G: 200, B: 200, A: 255}) // grey, kept
	img.Set(3, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})    // dark, kept

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, err := RemoveWhiteBackground(buf.Bytes(), DefaultWhiteThreshold)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	_, _, _, a0 := decoded.At(0, 0).RGBA()
	_, _, _, a1 := decoded.At(1, 0).RGBA()
	_, _, _, a2 := decoded.At(2, 0).RGBA()
	assert.Zero(t, a0)
	assert.Zero(t, a1)
	assert.NotZero(t, a2)
}

func TestShouldRemoveBackground(t *testing.T) {
	assert.True(t, ShouldRemoveBackground("icon"))
	assert.True(t, ShouldRemoveBackground("Minimalist_Vector_Art"))
	assert.False(t, ShouldRemoveBackground("conceptual_metaphor"))
}
