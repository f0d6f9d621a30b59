// Package imageio decodes photographs into BGR OpenCV matrices and renders
// annotated copies of assessed images.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"skin-sight/pkg/colorutil"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned when input cannot be turned into a 3-channel
// pixel grid. It is the only failure the assessment pipeline surfaces.
var ErrInvalidImage = errors.New("invalid image")

// Decode turns encoded image bytes into a BGR Mat. OpenCV's decoder is tried
// first; formats it cannot read fall back to the Go image decoders. The caller
// owns the returned Mat.
func Decode(data []byte) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.NewMat(), fmt.Errorf("%w: no image data", ErrInvalidImage)
	}

	if mat, err := gocv.IMDecode(data, gocv.IMReadColor); err == nil {
		if !mat.Empty() {
			return mat, nil
		}
		mat.Close()
	}

	img, _, decErr := image.Decode(bytes.NewReader(data))
	if decErr != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrInvalidImage, decErr)
	}
	return FromImage(img)
}

// Load reads and decodes an image file.
func Load(path string) (gocv.Mat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to read image: %w", err)
	}
	return Decode(data)
}

// FromImage converts a Go image.Image to a BGR Mat.
func FromImage(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), fmt.Errorf("%w: empty bounds %v", ErrInvalidImage, bounds)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, rgba.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

// Validate checks that a Mat is a non-empty 8-bit, 3-channel image.
func Validate(img gocv.Mat) error {
	if img.Empty() {
		return fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if img.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: expected 8-bit 3-channel image, got type %v", ErrInvalidImage, img.Type())
	}
	return nil
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// ToHSV converts a BGR Mat to HSV (H 0-180). The caller owns the result.
func ToHSV(img gocv.Mat) gocv.Mat {
	hsv := gocv.NewMat()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)
	return hsv
}

// InRange thresholds an HSV Mat against r, writing 255 for pixels inside the
// range and 0 elsewhere.
func InRange(hsv gocv.Mat, r colorutil.HSVRange, dst *gocv.Mat) {
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(r.Lower.H, r.Lower.S, r.Lower.V, 0),
		gocv.NewScalar(r.Upper.H, r.Upper.S, r.Upper.V, 0),
		dst)
}
