package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"skin-sight/internal/segment"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// bucketColors are the bar fills, one per bucket.
var bucketColors = map[segment.Bucket]color.RGBA{
	segment.Red:    {R: 200, G: 30, B: 30, A: 255},
	segment.Yellow: {R: 230, G: 200, B: 40, A: 255},
	segment.Black:  {R: 40, G: 40, B: 40, A: 255},
	segment.Pink:   {R: 255, G: 140, B: 190, A: 255},
}

// ColorChart builds a bar chart of bucket percentages.
func ColorChart(dist segment.Distribution, title string) (*plot.Plot, error) {
	if len(dist) == 0 {
		return nil, errors.New("empty color distribution")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "% of classified pixels"
	p.Y.Min = 0
	p.Y.Max = 100

	width := vg.Points(30)
	names := make([]string, len(segment.AllBuckets))
	for i, b := range segment.AllBuckets {
		names[i] = string(b)

		values := make(plotter.Values, len(segment.AllBuckets))
		values[i] = dist.Percentage(b)
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, fmt.Errorf("failed to create bars for %s: %w", b, err)
		}
		bars.Color = bucketColors[b]
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
	}
	p.NominalX(names...)

	return p, nil
}

// SaveColorChart writes the bucket chart to a PNG (or any format plot
// supports by extension).
func SaveColorChart(dist segment.Distribution, title, path string) error {
	p, err := ColorChart(dist, title)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating chart directory: %w", err)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}
