package imageio

import (
	"fmt"
	"image"

	"skin-sight/pkg/colorutil"
	"skin-sight/pkg/geometry"

	"gocv.io/x/gocv"
)

// Overlay describes what to draw on top of an assessed image.
type Overlay struct {
	Outline geometry.Outline // lesion outline actually measured
	Marker  *geometry.Circle // calibration marker, nil when not found
	Label   string           // severity caption, drawn top-left when non-empty
}

// Annotate returns a copy of img with the overlay drawn on it. The input Mat
// is not modified. The caller owns the returned Mat.
func Annotate(img gocv.Mat, overlay Overlay) (gocv.Mat, error) {
	if err := Validate(img); err != nil {
		return gocv.NewMat(), err
	}

	out := img.Clone()
	thickness := max(2, min(img.Cols(), img.Rows())/300)

	if len(overlay.Outline) >= 2 {
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{overlay.Outline.ImagePoints()})
		gocv.Polylines(&out, pv, true, colorutil.Magenta, thickness)
		pv.Close()
	}

	if overlay.Marker != nil && overlay.Marker.Radius > 0 {
		center := image.Point{X: int(overlay.Marker.Center.X + 0.5), Y: int(overlay.Marker.Center.Y + 0.5)}
		gocv.Circle(&out, center, int(overlay.Marker.Radius+0.5), colorutil.Green, thickness)
		gocv.Circle(&out, center, thickness, colorutil.Green, -1)
	}

	if overlay.Label != "" {
		scale := float64(max(img.Cols(), 400)) / 800
		org := image.Point{X: 10, Y: 10 + int(30*scale)}
		gocv.PutText(&out, overlay.Label, org, gocv.FontHersheyPlain, 2*scale, colorutil.Black, thickness+2)
		gocv.PutText(&out, overlay.Label, org, gocv.FontHersheyPlain, 2*scale, colorutil.Yellow, thickness)
	}

	return out, nil
}

// EncodePNG encodes a Mat as PNG bytes.
func EncodePNG(img gocv.Mat) ([]byte, error) {
	if img.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}
