package calibration

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"skin-sight/internal/imageio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// skinBGR is a neutral skin tone well outside the marker's hue band.
var skinBGR = gocv.NewScalar(150, 170, 210, 0)

func newSkinImage(t *testing.T, w, h int) gocv.Mat {
	t.Helper()
	img := gocv.NewMatWithSizeFromScalar(skinBGR, h, w, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { img.Close() })
	return img
}

func TestEstimateScaleFactor(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want float64
	}{
		{"500k pixels", 1000, 500, LowResolutionScale},
		{"exactly 1M pixels", 1000, 1000, LowResolutionScale},
		{"1.5M pixels", 1500, 1000, MediumResolutionScale},
		{"exactly 2M pixels", 2000, 1000, MediumResolutionScale},
		{"3M pixels", 2000, 1500, HighResolutionScale},
		{"empty", 0, 0, LowResolutionScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateScaleFactor(tt.w, tt.h))
		})
	}

	assert.Equal(t, 0.020, EstimateScaleFactor(1000, 500))
	assert.Equal(t, 0.016, EstimateScaleFactor(1500, 1000))
	assert.Equal(t, 0.012, EstimateScaleFactor(2000, 1500))
}

func TestParams(t *testing.T) {
	p := DefaultParams()
	assert.InDelta(t, 16*math.Pi, p.MarkerAreaMM2(), 1e-9)

	p10 := p.WithDiameterMM(10)
	assert.InDelta(t, 25*math.Pi, p10.MarkerAreaMM2(), 1e-9)
	assert.Equal(t, DefaultDiameterMM, p.DiameterMM, "WithDiameterMM must not modify the receiver")
	assert.Equal(t, p, p.WithDiameterMM(-1))

	custom := p.WithHSV(35, 85, 40, 255, 40, 255)
	assert.Equal(t, 35.0, custom.Color.Lower.H)
	assert.Equal(t, 85.0, custom.Color.Upper.H)
}

func TestDetect_Marker(t *testing.T) {
	img := newSkinImage(t, 400, 300)
	gocv.Circle(&img, image.Pt(100, 80), 20, color.RGBA{G: 200, A: 255}, -1)

	res, err := Detect(img, DefaultParams())
	require.NoError(t, err)
	require.True(t, res.Found)

	assert.Equal(t, 1, res.Candidates)
	assert.InDelta(t, 100, res.Center.X, 2)
	assert.InDelta(t, 80, res.Center.Y, 2)
	assert.InDelta(t, 20, res.RadiusPixels, 2)
	assert.InDelta(t, math.Pi*20*20, res.AreaPixels, 150)
	assert.InDelta(t, 16*math.Pi, res.AreaMM2, 1e-9)
	assert.InDelta(t, res.AreaMM2/res.AreaPixels, res.ScaleFactor, 1e-12)

	area, ok := res.PhysicalArea(1000)
	assert.True(t, ok)
	assert.InDelta(t, 1000*res.ScaleFactor, area, 1e-9)
	require.NotNil(t, res.Marker())
}

func TestDetect_PicksLargestBlob(t *testing.T) {
	img := newSkinImage(t, 400, 300)
	green := color.RGBA{G: 200, A: 255}
	gocv.Circle(&img, image.Pt(60, 60), 8, green, -1)
	gocv.Circle(&img, image.Pt(300, 200), 30, green, -1)

	res, err := Detect(img, DefaultParams())
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, 2, res.Candidates)
	assert.InDelta(t, 300, res.Center.X, 2)
	assert.InDelta(t, 200, res.Center.Y, 2)
}

func TestDetect_NoMarker(t *testing.T) {
	img := newSkinImage(t, 200, 200)
	gocv.Circle(&img, image.Pt(100, 100), 30, color.RGBA{R: 220, G: 30, B: 30, A: 255}, -1)

	res, err := Detect(img, DefaultParams())
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, 0.0, res.ScaleFactor)
	assert.Nil(t, res.Marker())

	_, ok := res.PhysicalArea(500)
	assert.False(t, ok)
}

func TestDetect_InvalidImage(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	_, err := Detect(empty, DefaultParams())
	assert.True(t, errors.Is(err, imageio.ErrInvalidImage))

	gray := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8U)
	defer gray.Close()
	_, err = Detect(gray, DefaultParams())
	assert.ErrorIs(t, err, imageio.ErrInvalidImage)
}

func TestDetectFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			dx, dy := x-60, y-60
			if dx*dx+dy*dy <= 15*15 {
				src.Set(x, y, color.RGBA{G: 210, A: 255})
			} else {
				src.Set(x, y, color.RGBA{R: 210, G: 170, B: 150, A: 255})
			}
		}
	}

	res, err := DetectFromImage(src, DefaultParams())
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.InDelta(t, 15, res.RadiusPixels, 2)
}
