// Command markertest runs calibration marker detection on a photo and prints
// the result.
package main

import (
	"flag"
	"fmt"
	"os"

	"skin-sight/internal/calibration"
	"skin-sight/internal/imageio"
)

func main() {
	imagePath := flag.String("image", "", "Path to photo (JPEG, PNG, TIFF, BMP or WebP)")
	diameter := flag.Float64("diameter", calibration.DefaultDiameterMM, "Marker diameter in mm")
	outPath := flag.String("out", "", "Write the image with the detected marker drawn to this PNG")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: markertest -image <path> [-diameter 8] [-out marker.png]")
		os.Exit(1)
	}

	img, err := imageio.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer img.Close()

	w, h := img.Cols(), img.Rows()
	fmt.Printf("Loaded image: %dx%d pixels (%.1f MP)\n", w, h, float64(w*h)/1e6)

	params := calibration.DefaultParams().WithDiameterMM(*diameter)
	fmt.Printf("\nDetection parameters:\n")
	fmt.Printf("  HSV: H(%.0f-%.0f) S(%.0f-%.0f) V(%.0f-%.0f)\n",
		params.Color.Lower.H, params.Color.Upper.H,
		params.Color.Lower.S, params.Color.Upper.S,
		params.Color.Lower.V, params.Color.Upper.V)
	fmt.Printf("  Diameter: %.1f mm (area %.2f mm²)\n", params.DiameterMM, params.MarkerAreaMM2())

	fmt.Printf("\nDetecting marker...\n")
	result, err := calibration.Detect(img, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Marker-colored blobs: %d\n", result.Candidates)
	if !result.Found {
		fmt.Printf("\nNo marker found; estimated scale for this resolution: %.3f mm²/px\n",
			calibration.EstimateScaleFactor(w, h))
		return
	}

	fmt.Printf("\n%-14s %10s\n", "Field", "Value")
	fmt.Printf("%-14s %10s\n", "Center", fmt.Sprintf("%d,%d", result.Center.X, result.Center.Y))
	fmt.Printf("%-14s %10.1f\n", "Radius px", result.RadiusPixels)
	fmt.Printf("%-14s %10.1f\n", "Area px", result.AreaPixels)
	fmt.Printf("%-14s %10.2f\n", "Area mm²", result.AreaMM2)
	fmt.Printf("%-14s %10.5f\n", "mm² per px", result.ScaleFactor)

	if circle := result.Marker(); circle != nil && circle.Area() > 0 {
		// a solid round marker fills its enclosing circle
		fmt.Printf("%-14s %10.2f\n", "Fill ratio", result.AreaPixels/circle.Area())
	}

	if *outPath != "" {
		out, err := imageio.Annotate(img, imageio.Overlay{Marker: result.Marker()})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Annotate failed: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()

		data, err := imageio.EncodePNG(out)
		if err == nil {
			err = os.WriteFile(*outPath, data, 0644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *outPath, err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %s\n", *outPath)
	}
}
