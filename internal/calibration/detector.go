package calibration

import (
	"fmt"
	"image"

	"skin-sight/internal/imageio"
	"skin-sight/pkg/geometry"

	"gocv.io/x/gocv"
)

// DetectFromImage detects the marker in a Go image.Image.
func DetectFromImage(srcImg image.Image, params Params) (Result, error) {
	mat, err := imageio.FromImage(srcImg)
	if err != nil {
		return Result{}, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	return Detect(mat, params)
}

// Detect finds the calibration marker in a BGR Mat:
//
//  1. Threshold in HSV with the marker's color box
//  2. Extract external contours of the foreground
//  3. Take the largest contour by area as the marker
//  4. Scale = known marker area / marker pixel area
//
// Step 3 assumes the marker is the dominant marker-colored blob in frame. Any
// larger green object (clothing, background) will be mistaken for it.
//
// The only error is imageio.ErrInvalidImage for an empty or non-BGR input.
func Detect(srcImg gocv.Mat, params Params) (Result, error) {
	if err := imageio.Validate(srcImg); err != nil {
		return Result{}, err
	}

	result := Result{AreaMM2: params.MarkerAreaMM2()}

	hsv := imageio.ToHSV(srcImg)
	defer hsv.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	imageio.InRange(hsv, params.Color, &mask)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	result.Candidates = contours.Size()
	if contours.Size() == 0 {
		return result, nil
	}

	// Find largest contour
	largestIdx := -1
	var largestArea float64
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > largestArea {
			largestArea = area
			largestIdx = i
		}
	}

	// Single-pixel or single-line blobs enclose no area
	if largestIdx < 0 || largestArea <= 0 {
		return result, nil
	}

	outline := geometry.OutlineFromImagePoints(contours.At(largestIdx).ToPoints())
	circle := geometry.MinEnclosingCircle(outline.Float())

	result.Found = true
	result.Center = circle.Center.ToInt()
	result.RadiusPixels = circle.Radius
	result.AreaPixels = largestArea
	result.ScaleFactor = result.AreaMM2 / largestArea
	return result, nil
}
