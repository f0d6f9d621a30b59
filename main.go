// Command skinsight measures a psoriasis plaque in a photograph and prints a
// PASI assessment as JSON.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"skin-sight/internal/config"
	"skin-sight/internal/detection"
	"skin-sight/internal/history"
	"skin-sight/internal/imageio"
	"skin-sight/internal/pasi"
	"skin-sight/internal/pipeline"
	"skin-sight/internal/report"
	"skin-sight/internal/version"
	"skin-sight/pkg/geometry"

	"gocv.io/x/gocv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	imagePath := flag.String("image", "", "Path to lesion photo (JPEG, PNG, TIFF, BMP or WebP)")
	outlinePath := flag.String("outline", "", "Path to the segmentation service response (JSON)")
	region := flag.String("region", "", "Body region: head, upper_limbs, trunk, lower_limbs")
	configPath := flag.String("config", "skinsight.yaml", "Path to config file")
	annotatePath := flag.String("annotate", "", "Write the annotated image to this PNG")
	chartPath := flag.String("chart", "", "Write the color distribution chart to this PNG")
	pretty := flag.Bool("pretty", false, "Indent the JSON report")
	historyPath := flag.String("history", "", "SQLite database of past assessments")
	lesion := flag.String("lesion", "", "Lesion label; when set the assessment is recorded in the history")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: skinsight -image <path> [-outline response.json] [-region trunk] [-config skinsight.yaml] [-annotate out.png] [-chart chart.png] [-pretty] [-history skinsight.db -lesion name]")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "region":
			cfg.Assessment.BodyRegion = *region
		case "annotate":
			cfg.Output.AnnotatePath = *annotatePath
		case "chart":
			cfg.Output.ChartPath = *chartPath
		case "pretty":
			cfg.Output.Pretty = *pretty
		case "history":
			cfg.History.Path = *historyPath
		case "lesion":
			cfg.History.Lesion = *lesion
		}
	})
	if cfg.Output.Verbose {
		log.Printf("%s: image=%s region=%s diameter=%.1fmm", version.String(), *imagePath, cfg.Region(), cfg.Calibration.DiameterMM)
	}

	if err := run(cfg, *imagePath, *outlinePath); err != nil {
		log.Printf("skinsight: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, imagePath, outlinePath string) error {
	if !imageio.IsSupportedFormat(imagePath) {
		log.Printf("%s: unrecognized extension, trying to decode anyway", imagePath)
	}
	img, err := imageio.Load(imagePath)
	if err != nil {
		return err
	}
	defer img.Close()

	var lesion geometry.Outline
	if outlinePath != "" {
		if lesion, err = detection.LoadOutline(outlinePath); err != nil {
			return err
		}
	}

	assessment, err := pipeline.New(cfg.CalibrationParams()).Assess(img, lesion, cfg.Assessment.BodyRegion)
	if err != nil {
		return err
	}

	if cfg.Output.AnnotatePath != "" {
		if err := saveAnnotated(img, assessment, cfg.Output.AnnotatePath); err != nil {
			return err
		}
	}
	if cfg.Output.ChartPath != "" {
		title := fmt.Sprintf("Color distribution (%s)", assessment.PASI.BodyRegion)
		if err := report.SaveColorChart(assessment.Color.Distribution, title, cfg.Output.ChartPath); err != nil {
			return err
		}
	}

	if cfg.History.Path != "" && cfg.History.Lesion != "" {
		if err := record(cfg, imagePath, assessment); err != nil {
			return err
		}
	}

	return report.WriteJSON(os.Stdout, report.FromAssessment(assessment), cfg.Output.Pretty)
}

// record stores the assessment and logs how the lesion has changed.
func record(cfg *config.Config, imagePath string, a *pipeline.Assessment) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := history.NewRecord(cfg.History.Lesion, imagePath, a)
	if err != nil {
		return err
	}
	if err := store.Insert(rec); err != nil {
		return err
	}

	past, err := store.List(cfg.History.Lesion, 0)
	if err != nil {
		return err
	}
	if delta, ok := history.Trend(past); ok {
		log.Printf("lesion %s: PASI %.1f -> %.1f (%+.1f) over %d assessments",
			cfg.History.Lesion, past[0].CompositeScore, rec.CompositeScore, delta, len(past))
	}
	return nil
}

func saveAnnotated(img gocv.Mat, a *pipeline.Assessment, path string) error {
	label := fmt.Sprintf("PASI %.1f %s", a.PASI.CompositeScore, a.PASI.Severity)
	if a.PASI.Severity == pasi.SeverityNone {
		label = ""
	}

	out, err := imageio.Annotate(img, imageio.Overlay{
		Outline: a.Outline,
		Marker:  a.Calibration.Marker(),
		Label:   label,
	})
	if err != nil {
		return err
	}
	defer out.Close()

	data, err := imageio.EncodePNG(out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write annotated image: %w", err)
	}
	return nil
}
